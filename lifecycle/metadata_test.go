package lifecycle

import (
	"encoding/hex"
	"testing"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataWithDefaults(t *testing.T) {
	mint := MetadataWithDefaults(core.ActionMint, "TEST", core.Metadata{})
	assert.Equal(t, core.Metadata{
		Name:        "TEST",
		Image:       DefaultImage,
		MediaType:   DefaultMediaType,
		Description: DefaultMintDescription,
	}, mint)

	edit := MetadataWithDefaults(core.ActionEdit, "TEST", core.Metadata{Image: "ipfs://x"})
	assert.Equal(t, DefaultEditDescription, edit.Description)
	assert.Equal(t, "ipfs://x", edit.Image)

	custom := MetadataWithDefaults(core.ActionMint, "TEST", core.Metadata{Name: "Other", Description: "d"})
	assert.Equal(t, "Other", custom.Name)
	assert.Equal(t, "d", custom.Description)
}

func TestNewCip68Datum(t *testing.T) {
	datum := NewCip68Datum(core.Metadata{
		Name:        "A",
		Image:       "i",
		MediaType:   "m",
		Description: "d",
		Extra:       map[string]string{"z": "2", "b": "1", "name": "ignored"},
	})

	// standard fields first, extra fields sorted and never overriding a standard one
	expected := core.NewConstr(0,
		core.NewMap(
			entry("name", "A"),
			entry("image", "i"),
			entry("mediaType", "m"),
			entry("description", "d"),
			entry("b", "1"),
			entry("z", "2"),
		),
		core.NewInt(1),
	)

	requireSameData(t, expected, datum)

	data, err := core.EncodePlutusData(datum)
	require.NoError(t, err)
	assert.Equal(t, "d879", hex.EncodeToString(data[:2]))
	assert.Contains(t, hex.EncodeToString(data),
		"a6"+
			"446e616d654141"+
			"45696d6167654169"+
			"496d6564696154797065416d"+
			"4b6465736372697074696f6e4164"+
			"41624131"+
			"417a4132")
}

func requireSameData(t *testing.T, expected, actual core.PlutusData) {
	t.Helper()

	expectedData, err := core.EncodePlutusData(expected)
	require.NoError(t, err)

	actualData, err := core.EncodePlutusData(actual)
	require.NoError(t, err)

	require.Equal(t, hex.EncodeToString(expectedData), hex.EncodeToString(actualData))
}

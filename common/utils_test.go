package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyValues(t *testing.T) {
	values, err := ParseKeyValues([]string{"artist=someone", "year=2024", "note=a=b", "year=2025", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"artist": "someone",
		"year":   "2025",
		"note":   "a=b",
		"empty":  "",
	}, values)

	_, err = ParseKeyValues([]string{"novalue"})
	require.ErrorContains(t, err, "invalid key=value pair")

	_, err = ParseKeyValues([]string{"=value"})
	require.ErrorContains(t, err, "invalid key=value pair")
}

func TestValueOrEnv(t *testing.T) {
	t.Setenv("CIP68_TEST_VALUE", " from env ")

	assert.Equal(t, "flag", ValueOrEnv("flag", "CIP68_TEST_VALUE"))
	assert.Equal(t, "from env", ValueOrEnv("", "CIP68_TEST_VALUE"))
	assert.Equal(t, "", ValueOrEnv("", ""))
	assert.Equal(t, "", ValueOrEnv("", "CIP68_TEST_MISSING"))
}

func TestDecodeHex(t *testing.T) {
	for _, x := range []string{"0x0aff", "0X0aff", "0aff"} {
		bytes, err := DecodeHex(x)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x0a, 0xff}, bytes)
	}

	_, err := DecodeHex("0xzz")
	require.Error(t, err)

	assert.True(t, IsValidURL("http://localhost:1337"))
	assert.False(t, IsValidURL("localhost"))
}

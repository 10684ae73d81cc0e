package lifecycle

import (
	"slices"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"golang.org/x/exp/maps"
)

const (
	DefaultImage           = "ipfs://QmRzicpReutwCkM6aotuKjErFCUD213DpwPq6ByuzMJaua"
	DefaultMediaType       = "image/jpg"
	DefaultMintDescription = "Hello world - CIP68"
	DefaultEditDescription = "Changed Metadata"

	cip68DatumVersion = 1
)

// MetadataWithDefaults fills empty fields. The name falls back to the token name.
func MetadataWithDefaults(action core.Action, tokenName string, metadata core.Metadata) core.Metadata {
	if metadata.Name == "" {
		metadata.Name = tokenName
	}

	if metadata.Image == "" {
		metadata.Image = DefaultImage
	}

	if metadata.MediaType == "" {
		metadata.MediaType = DefaultMediaType
	}

	if metadata.Description == "" {
		if action == core.ActionEdit {
			metadata.Description = DefaultEditDescription
		} else {
			metadata.Description = DefaultMintDescription
		}
	}

	return metadata
}

// NewCip68Datum creates Constr 0 [metadata map, version].
// Standard fields go first, extra fields follow sorted by key.
func NewCip68Datum(metadata core.Metadata) core.PlutusData {
	fields := []core.MapEntry{
		entry("name", metadata.Name),
		entry("image", metadata.Image),
		entry("mediaType", metadata.MediaType),
		entry("description", metadata.Description),
	}

	keys := maps.Keys(metadata.Extra)
	slices.Sort(keys)

	for _, key := range keys {
		switch key {
		case "name", "image", "mediaType", "description":
			continue
		}

		fields = append(fields, entry(key, metadata.Extra[key]))
	}

	return core.NewConstr(0, core.NewMap(fields...), core.NewInt(cip68DatumVersion))
}

func entry(key, value string) core.MapEntry {
	return core.MapEntry{Key: core.NewBytes([]byte(key)), Value: core.NewBytes([]byte(value))}
}

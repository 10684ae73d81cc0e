package lifecycle

import (
	"bytes"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
)

// DeriveAssetIdentity builds the reference (label 100) and user (label 222) token names
// for the given human readable name. Both names are always derived together.
func DeriveAssetIdentity(name string, policyID []byte) core.AssetIdentity {
	nameBytes := []byte(name)

	return core.AssetIdentity{
		PolicyID:      bytes.Clone(policyID),
		Name:          nameBytes,
		RefTokenName:  withPrefix(referenceTokenPrefix, nameBytes),
		UserTokenName: withPrefix(userTokenPrefix, nameBytes),
	}
}

// IsReferenceTokenName reports whether the asset name carries the label 100 prefix
func IsReferenceTokenName(assetName []byte) bool {
	label, ok := ParseLabel(assetName)

	return ok && label == ReferenceTokenLabel
}

func withPrefix(prefix, name []byte) []byte {
	result := make([]byte, 0, len(prefix)+len(name))
	result = append(result, prefix...)

	return append(result, name...)
}

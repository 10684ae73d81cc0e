package lifecycle

import (
	"encoding/hex"
	"fmt"
)

const (
	ReferenceTokenLabel uint16 = 100
	UserTokenLabel      uint16 = 222

	labelPrefixSize = 4
)

var (
	referenceTokenPrefix = LabelPrefix(ReferenceTokenLabel)
	userTokenPrefix      = LabelPrefix(UserTokenLabel)
)

// LabelPrefix returns the 4 byte asset name prefix for a CIP-67 label:
// a zero nibble, the label as 16 bits, crc-8 of the label and a closing zero nibble.
func LabelPrefix(label uint16) []byte {
	num := []byte{byte(label >> 8), byte(label)}
	s := fmt.Sprintf("0%04x%02x0", label, crc8(num))

	result, _ := hex.DecodeString(s)

	return result
}

// ParseLabel extracts the CIP-67 label from the beginning of an asset name
func ParseLabel(assetName []byte) (uint16, bool) {
	if len(assetName) < labelPrefixSize || assetName[0]>>4 != 0 || assetName[3]&0x0f != 0 {
		return 0, false
	}

	label := uint16(assetName[0]&0x0f)<<12 | uint16(assetName[1])<<4 | uint16(assetName[2]>>4)
	checksum := assetName[2]<<4 | assetName[3]>>4

	if crc8([]byte{byte(label >> 8), byte(label)}) != checksum {
		return 0, false
	}

	return label, true
}

// crc8 with polynomial 0x07 and zero init
func crc8(data []byte) byte {
	var crc byte

	for _, b := range data {
		crc ^= b

		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}

	return crc
}

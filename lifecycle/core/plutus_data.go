package core

import (
	"math/big"

	"github.com/blinklabs-io/plutigo/data"
)

// PlutusData is the on-chain data format used for datums and redeemers
type PlutusData = data.PlutusData

type MapEntry struct {
	Key   PlutusData
	Value PlutusData
}

func NewConstr(tag uint, fields ...PlutusData) PlutusData {
	return data.NewConstr(tag, fields...)
}

// NewMap keeps entries in the given order
func NewMap(entries ...MapEntry) PlutusData {
	pairs := make([][2]PlutusData, len(entries))

	for i, x := range entries {
		pairs[i] = [2]PlutusData{x.Key, x.Value}
	}

	return data.NewMap(pairs)
}

func NewList(items ...PlutusData) PlutusData {
	return data.NewList(items...)
}

func NewInt(value int64) PlutusData {
	return data.NewInteger(big.NewInt(value))
}

func NewBytes(value []byte) PlutusData {
	return data.NewByteString(value)
}

// EncodePlutusData returns the cbor form cardano-cli and the ledger expect
func EncodePlutusData(pd PlutusData) ([]byte, error) {
	return data.Encode(pd)
}

func (r Redeemer) Data() PlutusData {
	return NewConstr(r.Tag, r.Fields...)
}

func (r Redeemer) MarshalCBOR() ([]byte, error) {
	return EncodePlutusData(r.Data())
}

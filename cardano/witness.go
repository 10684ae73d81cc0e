package cardanotx

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

const (
	witnessSetVKeyKey = 0
	cborSetTag        = 258
)

type vkeyWitness struct {
	_         struct{} `cbor:",toarray"`
	VKey      []byte
	Signature []byte
}

type TxSigner interface {
	PublicKey() []byte
	Sign(message []byte) ([]byte, error)
}

// TxHash returns the transaction id, blake2b-256 of the body
func TxHash(txRaw []byte) (string, error) {
	var tx []cbor.RawMessage
	if err := cbor.Unmarshal(txRaw, &tx); err != nil {
		return "", fmt.Errorf("failed to decode transaction: %w", err)
	}

	if len(tx) < 3 {
		return "", fmt.Errorf("invalid transaction: %d elements", len(tx))
	}

	hash := blake2b.Sum256(tx[0])

	return hex.EncodeToString(hash[:]), nil
}

// AddTxWitness signs the transaction body and puts the vkey witness into the witness set.
// When partial is false every existing witness is dropped.
func AddTxWitness(txRaw []byte, signer TxSigner, partial bool) ([]byte, error) {
	var tx []cbor.RawMessage
	if err := cbor.Unmarshal(txRaw, &tx); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}

	if len(tx) < 3 {
		return nil, fmt.Errorf("invalid transaction: %d elements", len(tx))
	}

	hash := blake2b.Sum256(tx[0])

	signature, err := signer.Sign(hash[:])
	if err != nil {
		return nil, err
	}

	witnessSet := map[uint64]cbor.RawMessage{}

	if partial {
		if err := cbor.Unmarshal(tx[1], &witnessSet); err != nil {
			return nil, fmt.Errorf("failed to decode witness set: %w", err)
		}
	}

	witnesses, tagged, err := decodeVKeyWitnesses(witnessSet[witnessSetVKeyKey])
	if err != nil {
		return nil, err
	}

	newWitness := vkeyWitness{VKey: signer.PublicKey(), Signature: signature}
	replaced := false

	for i, x := range witnesses {
		if bytes.Equal(x.VKey, newWitness.VKey) {
			witnesses[i] = newWitness
			replaced = true
		}
	}

	if !replaced {
		witnesses = append(witnesses, newWitness)
	}

	witnessSet[witnessSetVKeyKey], err = encodeVKeyWitnesses(witnesses, tagged)
	if err != nil {
		return nil, err
	}

	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}

	tx[1], err = encMode.Marshal(witnessSet)
	if err != nil {
		return nil, fmt.Errorf("failed to encode witness set: %w", err)
	}

	return cbor.Marshal(tx)
}

// GetVKeyWitnesses returns public keys of all vkey witnesses in the transaction
func GetVKeyWitnesses(txRaw []byte) ([][]byte, error) {
	var tx []cbor.RawMessage
	if err := cbor.Unmarshal(txRaw, &tx); err != nil || len(tx) < 2 {
		return nil, errors.New("failed to decode transaction")
	}

	witnessSet := map[uint64]cbor.RawMessage{}
	if err := cbor.Unmarshal(tx[1], &witnessSet); err != nil {
		return nil, fmt.Errorf("failed to decode witness set: %w", err)
	}

	witnesses, _, err := decodeVKeyWitnesses(witnessSet[witnessSetVKeyKey])
	if err != nil {
		return nil, err
	}

	result := make([][]byte, len(witnesses))
	for i, x := range witnesses {
		result[i] = x.VKey
	}

	return result, nil
}

func decodeVKeyWitnesses(raw cbor.RawMessage) ([]vkeyWitness, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}

	tagged := false

	var tag cbor.RawTag
	if err := cbor.Unmarshal(raw, &tag); err == nil && tag.Number == cborSetTag {
		raw = tag.Content
		tagged = true
	}

	var witnesses []vkeyWitness
	if err := cbor.Unmarshal(raw, &witnesses); err != nil {
		return nil, false, fmt.Errorf("failed to decode vkey witnesses: %w", err)
	}

	return witnesses, tagged, nil
}

func encodeVKeyWitnesses(witnesses []vkeyWitness, tagged bool) (cbor.RawMessage, error) {
	content, err := cbor.Marshal(witnesses)
	if err != nil {
		return nil, err
	}

	if !tagged {
		return content, nil
	}

	return cbor.Marshal(cbor.RawTag{Number: cborSetTag, Content: content})
}

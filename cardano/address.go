package cardanotx

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"golang.org/x/crypto/blake2b"
)

const (
	KeyHashSize    = 28
	ScriptHashSize = 28
)

// ScriptResolver computes hashes and addresses of parameterized scripts
type ScriptResolver struct{}

var _ core.ScriptResolver = (*ScriptResolver)(nil)

func NewScriptResolver() *ScriptResolver {
	return &ScriptResolver{}
}

// PolicyID implements core.ScriptResolver.
func (r *ScriptResolver) PolicyID(script *core.ScriptWitness) ([]byte, error) {
	return ScriptHash(script)
}

// ScriptAddress implements core.ScriptResolver.
func (r *ScriptResolver) ScriptAddress(script *core.ScriptWitness, network core.Network) (string, error) {
	hash, err := ScriptHash(script)
	if err != nil {
		return "", err
	}

	return NewScriptAddress(network, hash)
}

// PaymentKeyHash implements core.ScriptResolver.
func (r *ScriptResolver) PaymentKeyHash(address string) ([]byte, error) {
	return PaymentKeyHash(address)
}

// ScriptHash is blake2b-224 of the language tag followed by the script
func ScriptHash(script *core.ScriptWitness) ([]byte, error) {
	if script == nil || len(script.Code) == 0 {
		return nil, errors.New("empty script")
	}

	hasher, err := blake2b.New(ScriptHashSize, nil)
	if err != nil {
		return nil, err
	}

	_, _ = hasher.Write([]byte{script.Version.ScriptHashPrefix()})
	_, _ = hasher.Write(script.Code)

	return hasher.Sum(nil), nil
}

func KeyHash(verificationKey []byte) ([]byte, error) {
	keyHash, err := cardanowallet.GetKeyHash(verificationKey)
	if err != nil {
		return nil, err
	}

	return hex.DecodeString(keyHash)
}

func NewEnterpriseAddress(network core.Network, verificationKey []byte) (string, error) {
	addr, err := cardanowallet.NewEnterpriseAddress(toCardanoNetworkType(network), verificationKey)
	if err != nil {
		return "", err
	}

	return addr.String(), nil
}

func NewBaseAddress(network core.Network, verificationKey, stakeVerificationKey []byte) (string, error) {
	addr, err := cardanowallet.NewBaseAddress(toCardanoNetworkType(network), verificationKey, stakeVerificationKey)
	if err != nil {
		return "", err
	}

	return addr.String(), nil
}

// NewScriptAddress returns the enterprise address locked by the script
func NewScriptAddress(network core.Network, scriptHash []byte) (string, error) {
	if len(scriptHash) != ScriptHashSize {
		return "", fmt.Errorf("invalid script hash size: %d", len(scriptHash))
	}

	addr, err := cardanowallet.NewPolicyScriptAddress(toCardanoNetworkType(network), hex.EncodeToString(scriptHash))
	if err != nil {
		return "", err
	}

	return addr.String(), nil
}

// PaymentKeyHash returns payment credential of a shelley address when it is a key hash
func PaymentKeyHash(address string) ([]byte, error) {
	addr, err := cardanowallet.NewCardanoAddressFromString(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address %s: %w", address, err)
	}

	info := addr.GetInfo()
	if info.AddressType == cardanowallet.RewardAddress || info.Payment == nil || info.Payment.IsScript {
		return nil, fmt.Errorf("address %s has no payment key hash", address)
	}

	return bytes.Clone(info.Payment.Payload[:]), nil
}

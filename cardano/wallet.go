package cardanotx

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/Ethernal-Tech/cardano-infrastructure/secrets"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"github.com/tyler-smith/go-bip39"
)

const mnemonicEntropyBits = 256

// OwnerKeys are the payment key (signer and owner of the policy) and an optional stake key
type OwnerKeys struct {
	Payment *ExtendedKey `json:"payment"`
	Stake   *ExtendedKey `json:"stake,omitempty"`
}

func NewOwnerKeysFromMnemonic(mnemonic string) (*OwnerKeys, error) {
	root, err := NewKeyFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}

	payment, err := root.DerivePath(PaymentKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payment key: %w", err)
	}

	stake, err := root.DerivePath(StakeKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stake key: %w", err)
	}

	return &OwnerKeys{
		Payment: payment,
		Stake:   stake,
	}, nil
}

// NewOwnerKeysFromCliKeys accepts hex or cbor hex (cardano-cli skey) encoded keys. Stake key is optional.
func NewOwnerKeysFromCliKeys(paymentKeyRaw, stakeKeyRaw string) (*OwnerKeys, error) {
	bytes, err := GetCardanoPrivateKeyBytes(paymentKeyRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid payment key: %w", err)
	}

	payment, err := NewKeyFromCardanoCliKey(bytes)
	if err != nil {
		return nil, fmt.Errorf("invalid payment key: %w", err)
	}

	keys := &OwnerKeys{Payment: payment}

	if stakeKeyRaw != "" {
		bytes, err := GetCardanoPrivateKeyBytes(stakeKeyRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid stake key: %w", err)
		}

		keys.Stake, err = NewKeyFromCardanoCliKey(bytes)
		if err != nil {
			return nil, fmt.Errorf("invalid stake key: %w", err)
		}
	}

	return keys, nil
}

// GenerateOwnerKeys creates keys from a fresh mnemonic and stores them. The mnemonic is returned only
// when new keys have been generated.
func GenerateOwnerKeys(
	mngr secrets.SecretsManager, name string, forceRegenerate bool,
) (*OwnerKeys, string, error) {
	keyName := ownerKeySecretName(name)

	if mngr.HasSecret(keyName) {
		if !forceRegenerate {
			keys, err := LoadOwnerKeys(mngr, name)

			return keys, "", err
		}

		if err := mngr.RemoveSecret(keyName); err != nil {
			return nil, "", err
		}
	}

	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	keys, err := NewOwnerKeysFromMnemonic(mnemonic)
	if err != nil {
		return nil, "", err
	}

	bytes, err := json.Marshal(keys)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal owner keys: %w", err)
	}

	if err := mngr.SetSecret(keyName, bytes); err != nil {
		return nil, "", fmt.Errorf("failed to store owner keys: %w", err)
	}

	return keys, mnemonic, nil
}

func LoadOwnerKeys(mngr secrets.SecretsManager, name string) (*OwnerKeys, error) {
	bytes, err := mngr.GetSecret(ownerKeySecretName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to load owner keys: %w", err)
	}

	var keys *OwnerKeys

	if err := json.Unmarshal(bytes, &keys); err != nil {
		return nil, fmt.Errorf("failed to load owner keys: %w", err)
	}

	if keys == nil || keys.Payment == nil {
		return nil, errors.New("failed to load owner keys: payment key missing")
	}

	return keys, nil
}

// GetAddress returns base address when the stake key exists, otherwise the enterprise address
func GetAddress(network core.Network, keys *OwnerKeys) (string, error) {
	if keys.Stake == nil {
		return NewEnterpriseAddress(network, keys.Payment.PublicKey())
	}

	return NewBaseAddress(network, keys.Payment.PublicKey(), keys.Stake.PublicKey())
}

func GetCardanoPrivateKeyBytes(str string) ([]byte, error) {
	bytes, err := cardanowallet.GetKeyBytes(str)
	if err != nil {
		bytes, err = common.DecodeHex(str)
		if err != nil {
			return nil, err
		}
	}

	return bytes, nil
}

func ownerKeySecretName(name string) string {
	return fmt.Sprintf("%s%s_key", secrets.CardanoKeyLocalPrefix, name)
}

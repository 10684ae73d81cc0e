package cardanotx

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"github.com/fivebinaries/go-cardano-serialization/bip32"
	"github.com/tyler-smith/go-bip39"
)

const (
	SeedKeySize       = 32
	ExtendedKeySize   = 64
	ChainCodeSize     = 32
	ExtendedKeyCCSize = ExtendedKeySize + ChainCodeSize
	PublicKeySize     = 32
	SignatureSize     = 64
	HardenedKeyStart  = uint32(0x80000000)
)

var (
	PaymentKeyPath = []uint32{Harden(1852), Harden(1815), Harden(0), 0, 0}
	StakeKeyPath   = []uint32{Harden(1852), Harden(1815), Harden(0), 2, 0}

	errInvalidMnemonic = errors.New("invalid mnemonic")
)

func Harden(index uint32) uint32 {
	return index | HardenedKeyStart
}

// ExtendedKey is a BIP32-Ed25519 private key or a plain 32 byte ed25519 signing key
type ExtendedKey struct {
	xprv         bip32.XPrv // kL || kR || chain code, nil for plain keys
	hasChainCode bool
	seed         []byte
	publicKey    []byte
}

// NewKeyFromMnemonic creates the icarus root key of a bip39 mnemonic
func NewKeyFromMnemonic(mnemonic string, password string) (*ExtendedKey, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidMnemonic, err)
	}

	return newKeyFromXPrv(bip32.FromBip39Entropy(entropy, []byte(password)), true), nil
}

// NewKeyFromSeed wraps a plain ed25519 signing key, the format of `cardano-cli address key-gen`
func NewKeyFromSeed(seed []byte) (*ExtendedKey, error) {
	if len(seed) != SeedKeySize {
		return nil, fmt.Errorf("invalid seed size: %d", len(seed))
	}

	return &ExtendedKey{
		seed:      append([]byte{}, seed...),
		publicKey: cardanowallet.GetVerificationKeyFromSigningKey(seed),
	}, nil
}

// NewExtendedKey accepts kL || kR with an optional trailing chain code
func NewExtendedKey(raw []byte) (*ExtendedKey, error) {
	if len(raw) != ExtendedKeySize && len(raw) != ExtendedKeyCCSize {
		return nil, fmt.Errorf("invalid extended key size: %d", len(raw))
	}

	xprv := make([]byte, ExtendedKeyCCSize)
	copy(xprv, raw)

	return newKeyFromXPrv(xprv, len(raw) == ExtendedKeyCCSize), nil
}

// NewKeyFromCardanoCliKey accepts keys in the formats used by cardano-cli skey files
func NewKeyFromCardanoCliKey(raw []byte) (*ExtendedKey, error) {
	switch len(raw) {
	case SeedKeySize:
		return NewKeyFromSeed(raw)
	case ExtendedKeySize, ExtendedKeyCCSize:
		return NewExtendedKey(raw)
	case ExtendedKeySize + PublicKeySize + ChainCodeSize:
		// kL || kR || public key || chain code
		return NewExtendedKey(append(append([]byte{}, raw[:ExtendedKeySize]...), raw[96:]...))
	default:
		return nil, fmt.Errorf("unsupported key size: %d", len(raw))
	}
}

func newKeyFromXPrv(xprv bip32.XPrv, hasChainCode bool) *ExtendedKey {
	return &ExtendedKey{
		xprv:         xprv,
		hasChainCode: hasChainCode,
		publicKey:    xprv.Public().PublicKey(),
	}
}

func (k *ExtendedKey) PublicKey() []byte {
	return append([]byte{}, k.publicKey...)
}

func (k *ExtendedKey) KeyHash() ([]byte, error) {
	return KeyHash(k.publicKey)
}

func (k *ExtendedKey) Bytes() []byte {
	switch {
	case k.xprv == nil:
		return append([]byte{}, k.seed...)
	case k.hasChainCode:
		return append([]byte{}, k.xprv[:ExtendedKeyCCSize]...)
	default:
		return append([]byte{}, k.xprv[:ExtendedKeySize]...)
	}
}

func (k *ExtendedKey) Sign(message []byte) ([]byte, error) {
	if k.xprv == nil {
		return cardanowallet.SignMessage(k.seed, k.publicKey, message)
	}

	return k.xprv.Sign(message), nil
}

// Derive returns child key using BIP32-Ed25519 (V2) derivation
func (k *ExtendedKey) Derive(index uint32) (*ExtendedKey, error) {
	if !k.hasChainCode {
		return nil, errors.New("key without chain code can not be derived")
	}

	return newKeyFromXPrv(k.xprv.Derive(index), true), nil
}

func (k *ExtendedKey) DerivePath(path []uint32) (*ExtendedKey, error) {
	key := k

	for _, index := range path {
		child, err := key.Derive(index)
		if err != nil {
			return nil, err
		}

		key = child
	}

	return key, nil
}

func (k *ExtendedKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(k.Bytes()))
}

func (k *ExtendedKey) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	raw, err := hex.DecodeString(str)
	if err != nil {
		return err
	}

	key, err := NewKeyFromCardanoCliKey(raw)
	if err != nil {
		return err
	}

	*k = *key

	return nil
}

package core

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const TxHashSize = 32

type Action string

const (
	ActionMint Action = "mint"
	ActionBurn Action = "burn"
	ActionEdit Action = "edit"
)

type PlutusVersion string

const (
	PlutusV2 PlutusVersion = "V2"
	PlutusV3 PlutusVersion = "V3"
)

// ScriptHashPrefix returns the language tag that is prepended to a script before hashing
func (v PlutusVersion) ScriptHashPrefix() byte {
	if v == PlutusV2 {
		return 0x02
	}

	return 0x03
}

func (v PlutusVersion) EnvelopeType() string {
	return "PlutusScript" + string(v)
}

// AssetIdentity holds the CIP-68 pair derived from a single human readable name.
type AssetIdentity struct {
	PolicyID      []byte
	Name          []byte
	RefTokenName  []byte
	UserTokenName []byte
}

func (a AssetIdentity) RefUnit() string {
	return Unit(a.PolicyID, a.RefTokenName)
}

func (a AssetIdentity) UserUnit() string {
	return Unit(a.PolicyID, a.UserTokenName)
}

func (a AssetIdentity) PlainUnit() string {
	return Unit(a.PolicyID, a.Name)
}

// Unit is the hex encoded concatenation of a policy id and an asset name
func Unit(policyID, assetName []byte) string {
	return hex.EncodeToString(policyID) + hex.EncodeToString(assetName)
}

type Asset struct {
	PolicyID []byte
	Name     []byte
	Quantity uint64
}

func (a Asset) Unit() string {
	return Unit(a.PolicyID, a.Name)
}

type Utxo struct {
	TxHash      [TxHashSize]byte
	OutputIndex uint32
	Address     string
	Lovelace    uint64
	Assets      []Asset
}

func (u Utxo) Ref() string {
	return fmt.Sprintf("%s#%d", hex.EncodeToString(u.TxHash[:]), u.OutputIndex)
}

func (u Utxo) HasUnit(unit string) bool {
	unit = strings.ToLower(unit)

	for _, x := range u.Assets {
		if x.Quantity > 0 && x.Unit() == unit {
			return true
		}
	}

	return false
}

func (u Utxo) IsAdaOnly() bool {
	for _, x := range u.Assets {
		if x.Quantity > 0 {
			return false
		}
	}

	return true
}

func NewTxHashFromHex(s string) ([TxHashSize]byte, error) {
	var result [TxHashSize]byte

	bytes, err := hex.DecodeString(s)
	if err != nil {
		return result, fmt.Errorf("invalid tx hash %s: %w", s, err)
	}

	if len(bytes) != TxHashSize {
		return result, fmt.Errorf("invalid tx hash %s: expected %d bytes, got %d", s, TxHashSize, len(bytes))
	}

	copy(result[:], bytes)

	return result, nil
}

type ScriptTemplate struct {
	Title   string
	Code    []byte
	Version PlutusVersion
}

// ScriptWitness is the parameterized validator. A single instance is shared by every
// directive of a plan that spends or mints under its policy.
type ScriptWitness struct {
	Code    []byte
	Version PlutusVersion
}

type Redeemer struct {
	Tag    uint
	Fields []PlutusData
}

type Metadata struct {
	Name        string
	Image       string
	MediaType   string
	Description string
	Extra       map[string]string
}

// ScriptSpend binds a script-governed input to its witness triple
type ScriptSpend struct {
	InlineDatumPresent bool
	Redeemer           Redeemer
	Witness            *ScriptWitness
}

type PlanInput struct {
	Utxo   Utxo
	Script *ScriptSpend
}

func (p PlanInput) IsScript() bool {
	return p.Script != nil
}

type MintDirective struct {
	Quantity  int64
	PolicyID  []byte
	AssetName []byte
	Witness   *ScriptWitness
	Redeemer  Redeemer
}

func (m MintDirective) Unit() string {
	return Unit(m.PolicyID, m.AssetName)
}

type PlanOutput struct {
	Address     string
	Lovelace    uint64 // zero means the balancer fills in the minimum
	Assets      []Asset
	InlineDatum PlutusData
}

type Network string

const (
	NetworkPreprod Network = "preprod"
	NetworkPreview Network = "preview"
	NetworkMainnet Network = "mainnet"
)

func (n Network) IsValid() bool {
	return n == NetworkPreprod || n == NetworkPreview || n == NetworkMainnet
}

func (n Network) ID() byte {
	if n == NetworkMainnet {
		return 1
	}

	return 0
}

func (n Network) Magic() uint32 {
	switch n {
	case NetworkMainnet:
		return 764824073
	case NetworkPreview:
		return 2
	default:
		return 1
	}
}

// TransactionPlan is everything needed to balance a transaction. It is produced by the
// plan builder and must not be modified afterwards.
type TransactionPlan struct {
	Action          Action
	Inputs          []PlanInput
	Mints           []MintDirective
	Outputs         []PlanOutput
	RequiredSigners [][]byte
	Collateral      *Utxo
	SelectFrom      []Utxo
	ChangeAddress   string
	Network         Network
}

// Witnesses returns distinct script witnesses in the order they first appear
func (p *TransactionPlan) Witnesses() []*ScriptWitness {
	var result []*ScriptWitness

	add := func(w *ScriptWitness) {
		for _, x := range result {
			if x == w {
				return
			}
		}

		result = append(result, w)
	}

	for _, x := range p.Inputs {
		if x.Script != nil {
			add(x.Script.Witness)
		}
	}

	for _, x := range p.Mints {
		add(x.Witness)
	}

	return result
}

type UnsignedTx struct {
	Raw  []byte
	Hash string
}

type SignedTx struct {
	Raw  []byte
	Hash string
}

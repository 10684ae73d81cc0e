package core

import "context"

type ChainProvider interface {
	// FetchUtxosAt returns utxos of the address holding unit. Empty unit returns all of them.
	FetchUtxosAt(ctx context.Context, address string, unit string) ([]Utxo, error)
	Submit(ctx context.Context, tx SignedTx) (string, error)
}

type Wallet interface {
	GetUtxos(ctx context.Context) ([]Utxo, error)
	GetCollateral(ctx context.Context) ([]Utxo, error)
	// CreateCollateral requests a new collateral output. It may become visible much later.
	CreateCollateral(ctx context.Context) error
	GetChangeAddress(ctx context.Context) (string, error)
	Sign(ctx context.Context, tx UnsignedTx, partial bool) (SignedTx, error)
}

type ScriptCompiler interface {
	ApplyParams(ctx context.Context, template ScriptTemplate, params [][]byte) (*ScriptWitness, error)
}

type Balancer interface {
	Complete(ctx context.Context, plan *TransactionPlan) (UnsignedTx, error)
}

// ScriptResolver computes policy ids and script addresses
type ScriptResolver interface {
	PolicyID(script *ScriptWitness) ([]byte, error)
	ScriptAddress(script *ScriptWitness, network Network) (string, error)
	PaymentKeyHash(address string) ([]byte, error)
}

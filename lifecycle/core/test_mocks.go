package core

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ChainProviderMock struct {
	mock.Mock
}

var _ ChainProvider = (*ChainProviderMock)(nil)

// FetchUtxosAt implements ChainProvider.
func (m *ChainProviderMock) FetchUtxosAt(ctx context.Context, address string, unit string) ([]Utxo, error) {
	args := m.Called(ctx, address, unit)

	arg0, _ := args.Get(0).([]Utxo)

	return arg0, args.Error(1)
}

// Submit implements ChainProvider.
func (m *ChainProviderMock) Submit(ctx context.Context, tx SignedTx) (string, error) {
	args := m.Called(ctx, tx)

	return args.String(0), args.Error(1)
}

type WalletMock struct {
	mock.Mock
}

var _ Wallet = (*WalletMock)(nil)

// GetUtxos implements Wallet.
func (m *WalletMock) GetUtxos(ctx context.Context) ([]Utxo, error) {
	args := m.Called(ctx)

	arg0, _ := args.Get(0).([]Utxo)

	return arg0, args.Error(1)
}

// GetCollateral implements Wallet.
func (m *WalletMock) GetCollateral(ctx context.Context) ([]Utxo, error) {
	args := m.Called(ctx)

	arg0, _ := args.Get(0).([]Utxo)

	return arg0, args.Error(1)
}

// CreateCollateral implements Wallet.
func (m *WalletMock) CreateCollateral(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// GetChangeAddress implements Wallet.
func (m *WalletMock) GetChangeAddress(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	return args.String(0), args.Error(1)
}

// Sign implements Wallet.
func (m *WalletMock) Sign(ctx context.Context, tx UnsignedTx, partial bool) (SignedTx, error) {
	args := m.Called(ctx, tx, partial)

	arg0, _ := args.Get(0).(SignedTx)

	return arg0, args.Error(1)
}

type ScriptCompilerMock struct {
	mock.Mock
}

var _ ScriptCompiler = (*ScriptCompilerMock)(nil)

// ApplyParams implements ScriptCompiler.
func (m *ScriptCompilerMock) ApplyParams(
	ctx context.Context, template ScriptTemplate, params [][]byte,
) (*ScriptWitness, error) {
	args := m.Called(ctx, template, params)

	arg0, _ := args.Get(0).(*ScriptWitness)

	return arg0, args.Error(1)
}

type BalancerMock struct {
	mock.Mock
}

var _ Balancer = (*BalancerMock)(nil)

// Complete implements Balancer.
func (m *BalancerMock) Complete(ctx context.Context, plan *TransactionPlan) (UnsignedTx, error) {
	args := m.Called(ctx, plan)

	arg0, _ := args.Get(0).(UnsignedTx)

	return arg0, args.Error(1)
}

type ScriptResolverMock struct {
	mock.Mock
}

var _ ScriptResolver = (*ScriptResolverMock)(nil)

// PolicyID implements ScriptResolver.
func (m *ScriptResolverMock) PolicyID(script *ScriptWitness) ([]byte, error) {
	args := m.Called(script)

	arg0, _ := args.Get(0).([]byte)

	return arg0, args.Error(1)
}

// ScriptAddress implements ScriptResolver.
func (m *ScriptResolverMock) ScriptAddress(script *ScriptWitness, network Network) (string, error) {
	args := m.Called(script, network)

	return args.String(0), args.Error(1)
}

// PaymentKeyHash implements ScriptResolver.
func (m *ScriptResolverMock) PaymentKeyHash(address string) ([]byte, error) {
	args := m.Called(address)

	arg0, _ := args.Get(0).([]byte)

	return arg0, args.Error(1)
}

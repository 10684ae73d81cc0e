package cardanotx

import (
	"context"

	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"github.com/stretchr/testify/mock"
)

// testProtocolParameters is a trimmed preprod protocol parameters file
const testProtocolParameters = `{"collateralPercentage":150,"maxCollateralInputs":3,` +
	`"executionUnitPrices":{"priceMemory":0.0577,"priceSteps":0.0000721},` +
	`"maxTxExecutionUnits":{"memory":14000000,"steps":10000000000},` +
	`"maxTxSize":16384,"maxValueSize":5000,"protocolVersion":{"major":9,"minor":0},` +
	`"txFeeFixed":155381,"txFeePerByte":44,"utxoCostPerByte":4310}`

// TxProviderTestMock is a cardano tx provider for adapter tests.
// With ReturnDefaultParameters set protocol parameters are served without an expectation.
type TxProviderTestMock struct {
	mock.Mock
	ReturnDefaultParameters bool
}

var _ cardanowallet.ITxProvider = (*TxProviderTestMock)(nil)

func (m *TxProviderTestMock) SubmitTx(ctx context.Context, txSigned []byte) error {
	return m.Called(ctx, txSigned).Error(0)
}

func (m *TxProviderTestMock) GetTxByHash(ctx context.Context, hash string) (map[string]interface{}, error) {
	args := m.Called(ctx, hash)

	arg0, _ := args.Get(0).(map[string]interface{})

	return arg0, args.Error(1)
}

func (m *TxProviderTestMock) GetSlot(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)

	arg0, _ := args.Get(0).(uint64)

	return arg0, args.Error(1)
}

func (m *TxProviderTestMock) GetProtocolParameters(ctx context.Context) ([]byte, error) {
	if m.ReturnDefaultParameters {
		return []byte(testProtocolParameters), nil
	}

	args := m.Called(ctx)

	arg0, _ := args.Get(0).([]byte)

	return arg0, args.Error(1)
}

func (m *TxProviderTestMock) GetUtxos(ctx context.Context, addr string) ([]cardanowallet.Utxo, error) {
	args := m.Called(ctx, addr)

	arg0, _ := args.Get(0).([]cardanowallet.Utxo)

	return arg0, args.Error(1)
}

func (m *TxProviderTestMock) Dispose() {
	m.Called()
}

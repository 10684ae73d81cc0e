package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtxo(t *testing.T) {
	hash, err := NewTxHashFromHex("e99a5bde15aa05f24fcc04b7eabc1520d3397283b1ee720de9fe2653abbb0c9f")
	require.NoError(t, err)

	utxo := Utxo{
		TxHash:      hash,
		OutputIndex: 3,
		Lovelace:    2_000_000,
		Assets: []Asset{
			{PolicyID: []byte{0x01, 0x02}, Name: []byte("A"), Quantity: 1},
			{PolicyID: []byte{0x01, 0x02}, Name: []byte("B"), Quantity: 0},
		},
	}

	assert.Equal(t, "e99a5bde15aa05f24fcc04b7eabc1520d3397283b1ee720de9fe2653abbb0c9f#3", utxo.Ref())
	assert.True(t, utxo.HasUnit("010241"))
	assert.False(t, utxo.HasUnit("010242"))
	assert.False(t, utxo.IsAdaOnly())
	assert.True(t, Utxo{Lovelace: 5}.IsAdaOnly())

	_, err = NewTxHashFromHex("abcd")
	require.ErrorContains(t, err, "expected 32 bytes")

	_, err = NewTxHashFromHex("zz")
	require.Error(t, err)
}

func TestNetwork(t *testing.T) {
	assert.True(t, NetworkPreprod.IsValid())
	assert.False(t, Network("sanchonet").IsValid())
	assert.Equal(t, byte(0), NetworkPreprod.ID())
	assert.Equal(t, byte(1), NetworkMainnet.ID())
	assert.Equal(t, uint32(1), NetworkPreprod.Magic())
	assert.Equal(t, uint32(2), NetworkPreview.Magic())
}

func TestTransactionPlanWitnesses(t *testing.T) {
	w1 := &ScriptWitness{Code: []byte{1}, Version: PlutusV3}
	w2 := &ScriptWitness{Code: []byte{1}, Version: PlutusV3}

	plan := &TransactionPlan{
		Inputs: []PlanInput{
			{Utxo: Utxo{}},
			{Utxo: Utxo{}, Script: &ScriptSpend{Witness: w1}},
		},
		Mints: []MintDirective{
			{Witness: w1},
			{Witness: w2},
			{Witness: w1},
		},
	}

	witnesses := plan.Witnesses()
	require.Len(t, witnesses, 2)
	assert.Same(t, w1, witnesses[0])
	assert.Same(t, w2, witnesses[1])
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "collateral_unavailable", ErrorKind(ErrCollateralUnavailable))
	assert.Equal(t, "signing", ErrorKind(errors.Join(errors.New("x"), ErrSigningFailure)))
	assert.Equal(t, "unknown", ErrorKind(errors.New("x")))
}

func TestRequestValidate(t *testing.T) {
	req := Request{
		Action:     ActionMint,
		TokenName:  DefaultTokenName,
		Network:    NetworkPreprod,
		Collateral: NewDefaultCollateralConfig(),
	}

	require.NoError(t, req.Validate())

	invalid := req
	invalid.Action = "transfer"
	require.ErrorContains(t, invalid.Validate(), "unknown action")

	invalid = req
	invalid.TokenName = ""
	require.ErrorContains(t, invalid.Validate(), "token name")

	invalid = req
	invalid.Collateral.MaxRetries = 0
	require.ErrorContains(t, invalid.Validate(), "collateral max retries")
}

func TestCollateralConfigValidate(t *testing.T) {
	require.NoError(t, NewDefaultCollateralConfig().Validate())
	require.NoError(t, NewFailFastCollateralConfig().Validate())

	require.ErrorContains(t, CollateralConfig{MaxRetries: 3}.Validate(), "retry wait")
}

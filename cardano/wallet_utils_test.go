package cardanotx

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTxHash   = "0b1e2b7d2c9a3f4e5d6c7b8a99887766554433221100ffeeddccbbaa99887766"
	testPolicyID = "29f8873beb52e126f207a2dfd50f7cff556806b5b4cba9834a7b26a8"
)

func TestConvertUtxo(t *testing.T) {
	infraUtxo := cardanowallet.Utxo{
		Hash:   testTxHash,
		Index:  3,
		Amount: 2_000_000,
		Tokens: []cardanowallet.TokenAmount{
			cardanowallet.NewTokenAmount(cardanowallet.NewToken(testPolicyID, "\x00\x06\x43\xb0TEST"), 1),
		},
	}

	utxo, err := ConvertUtxo("addr_test1vz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzerspjrlsz", infraUtxo)
	require.NoError(t, err)

	assert.Equal(t, testTxHash+"#3", utxo.Ref())
	assert.Equal(t, uint64(2_000_000), utxo.Lovelace)
	require.Len(t, utxo.Assets, 1)
	assert.True(t, utxo.HasUnit(testPolicyID+"000643b054455354"))
	assert.False(t, utxo.IsAdaOnly())

	assert.Equal(t, infraUtxo, ToInfraUtxo(utxo))

	t.Run("invalid hash", func(t *testing.T) {
		_, err := ConvertUtxos("addr", []cardanowallet.Utxo{{Hash: "xx"}})
		require.ErrorContains(t, err, "invalid tx hash")
	})

	t.Run("invalid policy", func(t *testing.T) {
		_, err := ConvertUtxo("addr", cardanowallet.Utxo{
			Hash: testTxHash,
			Tokens: []cardanowallet.TokenAmount{
				cardanowallet.NewTokenAmount(cardanowallet.NewToken("zz", "TEST"), 1),
			},
		})
		require.ErrorContains(t, err, "invalid policy id")
	})
}

func TestTokenValue(t *testing.T) {
	policyID, _ := hex.DecodeString(testPolicyID)

	assert.Equal(t, "1 "+testPolicyID+".54455354", tokenValue(1, policyID, []byte("TEST")))
	assert.Equal(t, "-1 "+testPolicyID+".000de14054455354",
		tokenValue(-1, policyID, append([]byte{0x00, 0x0d, 0xe1, 0x40}, "TEST"...)))

	out := txOutValue(core.PlanOutput{
		Address: "addr_test1wrphkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gtcl6szpr",
		Assets:  []core.Asset{{PolicyID: policyID, Name: []byte("A"), Quantity: 1}},
	}, 1_500_000)
	assert.True(t, strings.HasSuffix(out, "+1500000+1 "+testPolicyID+".41"))
}

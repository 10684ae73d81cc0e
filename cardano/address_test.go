package cardanotx

import (
	"encoding/hex"
	"testing"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPaymentKeyHash    = "9493315cd92eb5d8c4304e67b7e16ae36d61d34502694657811a2c8e"
	testStakeKeyHash      = "337b62cfff6403a06a3acbc34f8c46003c69fe79a3628cefa9c47251"
	testScriptHash        = "c37b1b5dc0669f1d3c61a6fddb2e8fde96be87b881c60bce8e8d542f"
	testEnterpriseAddress = "addr_test1vz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzerspjrlsz"
	testBaseAddress       = "addr_test1qz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3n0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgs68faae"
)

func TestAddressEncoding(t *testing.T) {
	keys, err := NewOwnerKeysFromMnemonic(cip19Mnemonic)
	require.NoError(t, err)

	paymentKey, stakeKey := keys.Payment.PublicKey(), keys.Stake.PublicKey()
	scriptHash, _ := hex.DecodeString(testScriptHash)

	t.Run("key hash", func(t *testing.T) {
		pkh, err := KeyHash(paymentKey)
		require.NoError(t, err)
		assert.Equal(t, testPaymentKeyHash, hex.EncodeToString(pkh))
	})

	t.Run("enterprise", func(t *testing.T) {
		addr, err := NewEnterpriseAddress(core.NetworkPreprod, paymentKey)
		require.NoError(t, err)
		assert.Equal(t, testEnterpriseAddress, addr)

		addr, err = NewEnterpriseAddress(core.NetworkMainnet, paymentKey)
		require.NoError(t, err)
		assert.Equal(t, "addr1vx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzers66hrl8", addr)
	})

	t.Run("base", func(t *testing.T) {
		addr, err := NewBaseAddress(core.NetworkPreview, paymentKey, stakeKey)
		require.NoError(t, err)
		assert.Equal(t, testBaseAddress, addr)
	})

	t.Run("script", func(t *testing.T) {
		addr, err := NewScriptAddress(core.NetworkPreprod, scriptHash)
		require.NoError(t, err)
		assert.Equal(t, "addr_test1wrphkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gtcl6szpr", addr)

		_, err = NewScriptAddress(core.NetworkPreprod, scriptHash[:27])
		require.ErrorContains(t, err, "invalid script hash size")
	})
}

func TestPaymentKeyHash(t *testing.T) {
	for _, addr := range []string{
		testEnterpriseAddress,
		testBaseAddress,
		"addr1vx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzers66hrl8",
	} {
		pkh, err := PaymentKeyHash(addr)
		require.NoError(t, err, addr)
		assert.Equal(t, testPaymentKeyHash, hex.EncodeToString(pkh))
	}

	_, err := PaymentKeyHash("addr_test1wrphkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gtcl6szpr")
	require.ErrorContains(t, err, "has no payment key hash")

	_, err = PaymentKeyHash("stake_test1uqehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gssrtvn")
	require.Error(t, err)

	_, err = PaymentKeyHash("addr1dummy")
	require.Error(t, err)
}

func TestScriptResolver(t *testing.T) {
	resolver := NewScriptResolver()
	script := &core.ScriptWitness{Code: []byte{0x49, 0x48, 0x01, 0x00, 0x00}, Version: core.PlutusV2}

	policyID, err := resolver.PolicyID(script)
	require.NoError(t, err)
	require.Len(t, policyID, ScriptHashSize)

	policyV3, err := resolver.PolicyID(&core.ScriptWitness{Code: script.Code, Version: core.PlutusV3})
	require.NoError(t, err)
	assert.NotEqual(t, policyID, policyV3)

	addr, err := resolver.ScriptAddress(script, core.NetworkPreprod)
	require.NoError(t, err)
	assert.True(t, IsValidOutputAddress(addr, core.NetworkPreprod))

	cardanoAddr, err := cardanowallet.NewCardanoAddressFromString(addr)
	require.NoError(t, err)

	info := cardanoAddr.GetInfo()
	require.NotNil(t, info.Payment)
	assert.True(t, info.Payment.IsScript)
	assert.Equal(t, policyID, info.Payment.Payload[:])

	mainnetAddr, err := resolver.ScriptAddress(script, core.NetworkMainnet)
	require.NoError(t, err)
	assert.Contains(t, mainnetAddr, "addr1w")

	_, err = resolver.PolicyID(&core.ScriptWitness{})
	require.ErrorContains(t, err, "empty script")

	_, err = resolver.PaymentKeyHash(addr)
	require.Error(t, err)
}

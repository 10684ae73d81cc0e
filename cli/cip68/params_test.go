package clicip68

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cardanotx "github.com/Ethernal-Tech/cip68-lifecycle/cardano"
	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

func TestLifecycleParams_ValidateFlags(t *testing.T) {
	valid := func(action core.Action) *lifecycleParams {
		p := newLifecycleParams(action)
		p.token = core.DefaultTokenName

		return p
	}

	require.NoError(t, valid(core.ActionMint).ValidateFlags())

	t.Run("empty token", func(t *testing.T) {
		p := valid(core.ActionMint)
		p.token = "  "

		require.ErrorContains(t, p.ValidateFlags(), "--token")
	})

	t.Run("simple burn", func(t *testing.T) {
		p := valid(core.ActionBurn)
		p.simple = true

		require.NoError(t, p.ValidateFlags())

		p = valid(core.ActionEdit)
		p.simple = true

		require.ErrorContains(t, p.ValidateFlags(), "only allowed for burn")
	})

	t.Run("simple burn with collateral flags", func(t *testing.T) {
		p := valid(core.ActionBurn)
		p.simple = true
		p.maxRetries = 3

		require.ErrorContains(t, p.ValidateFlags(), "not allowed with --simple")

		p = valid(core.ActionBurn)
		p.simple = true
		p.noCreateCollateral = true

		require.ErrorContains(t, p.ValidateFlags(), "not allowed with --simple")

		p = valid(core.ActionBurn)
		p.maxRetries = 3
		p.noCreateCollateral = true

		require.NoError(t, p.ValidateFlags())
	})

	t.Run("negative retries", func(t *testing.T) {
		p := valid(core.ActionMint)
		p.maxRetries = -2

		require.ErrorContains(t, p.ValidateFlags(), "--max-retries")
	})

	t.Run("stake key without payment key", func(t *testing.T) {
		p := valid(core.ActionMint)
		p.stakeKey = "5820aa"

		require.ErrorContains(t, p.ValidateFlags(), "requires --key")
	})

	t.Run("invalid meta", func(t *testing.T) {
		p := valid(core.ActionEdit)
		p.meta = []string{"artist=me", "broken"}

		require.ErrorContains(t, p.ValidateFlags(), "invalid --meta")
	})
}

func TestLifecycleParams_RegisterFlags(t *testing.T) {
	burn := newLifecycleCommand(core.ActionBurn, "")

	assert.NotNil(t, burn.Flags().Lookup(simpleFlag))
	assert.Nil(t, burn.Flags().Lookup(imageFlag))

	for _, cmd := range []*cobra.Command{GetMintCommand(), GetEditCommand()} {
		assert.Nil(t, cmd.Flags().Lookup(simpleFlag))
		assert.NotNil(t, cmd.Flags().Lookup(metaFlag))

		token := cmd.Flags().Lookup(tokenFlag)
		require.NotNil(t, token)
		assert.Equal(t, core.DefaultTokenName, token.DefValue)
	}
}

func TestLifecycleParams_Request(t *testing.T) {
	config := newTestAppConfig()

	p := newLifecycleParams(core.ActionMint)
	p.token = "NFT"
	p.image = "ipfs://image"
	p.meta = []string{"artist=me"}
	p.dryRun = true

	req := p.request(config)

	assert.Equal(t, core.ActionMint, req.Action)
	assert.Equal(t, "NFT", req.TokenName)
	assert.True(t, req.RequiresOwnerKey)
	assert.True(t, req.DryRun)
	assert.Equal(t, core.NetworkPreprod, req.Network)
	assert.Equal(t, "NFT", req.Metadata.Name)
	assert.Equal(t, "ipfs://image", req.Metadata.Image)
	assert.Equal(t, map[string]string{"artist": "me"}, req.Metadata.Extra)
	assert.Equal(t, config.Collateral.ToCollateralConfig(false), req.Collateral)
	require.NoError(t, req.Validate())

	p = newLifecycleParams(core.ActionBurn)
	p.token = "NFT"
	p.simple = true

	req = p.request(config)

	assert.False(t, req.RequiresOwnerKey)
	assert.Equal(t, core.NewFailFastCollateralConfig(), req.Collateral)
}

func TestLifecycleParams_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "cip68_config.json")

	bytes, err := json.Marshal(map[string]interface{}{
		"cardanoChain": map[string]interface{}{
			"testnetMagic": cardanotx.PreviewNetworkMagic,
			"socketPath":   "/tmp/node.socket",
		},
		"blueprint": map[string]interface{}{
			"path": "plutus.json",
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, bytes, 0600))

	t.Setenv(blockfrostAPIKeyEnv, "preview123")

	p := newLifecycleParams(core.ActionMint)
	p.config = configPath
	p.maxRetries = 2
	p.noCreateCollateral = true
	p.verbose = true

	config, err := p.loadConfig()
	require.NoError(t, err)

	assert.Equal(t, core.NetworkPreview, config.CardanoChain.Network())
	assert.Equal(t, 2, config.Collateral.MaxRetries)
	assert.True(t, config.Collateral.DisableCreation)
	assert.Equal(t, hclog.Debug, config.Logger.LogLevel)
	assert.Equal(t, "preview123", config.CardanoChain.BlockfrostAPIKey)
	assert.Equal(t, defaultOwnerKeyName, config.OwnerKeyName)

	p.config = filepath.Join(dir, "missing.json")

	_, err = p.loadConfig()
	require.ErrorContains(t, err, "failed to load config")
}

func TestLifecycleParams_LoadOwnerKeys(t *testing.T) {
	config := newTestAppConfig()

	entropy := make([]byte, 32)
	for i := range entropy {
		entropy[i] = byte(i * 3)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	require.NoError(t, err)

	t.Run("mnemonic environment variable", func(t *testing.T) {
		t.Setenv("TEST_CIP68_MNEMONIC", mnemonic)

		p := newLifecycleParams(core.ActionMint)
		p.mnemonicEnv = "TEST_CIP68_MNEMONIC"

		keys, err := p.loadOwnerKeys(config)
		require.NoError(t, err)

		expected, err := cardanotx.NewOwnerKeysFromMnemonic(mnemonic)
		require.NoError(t, err)

		assert.Equal(t, expected, keys)
	})

	t.Run("secrets directory", func(t *testing.T) {
		secretsDir := filepath.Join(t.TempDir(), "secrets")

		secretsManager, err := common.GetSecretsManager(secretsDir, "", true)
		require.NoError(t, err)

		generated, newMnemonic, err := cardanotx.GenerateOwnerKeys(secretsManager, config.OwnerKeyName, false)
		require.NoError(t, err)
		require.Len(t, strings.Fields(newMnemonic), 24)

		t.Setenv("TEST_CIP68_MNEMONIC", mnemonic)

		p := newLifecycleParams(core.ActionMint)
		p.mnemonicEnv = "TEST_CIP68_MNEMONIC"
		p.secretsDir = secretsDir

		keys, err := p.loadOwnerKeys(config)
		require.NoError(t, err)

		assert.Equal(t, generated, keys)
	})

	t.Run("no source", func(t *testing.T) {
		p := newLifecycleParams(core.ActionMint)
		p.mnemonicEnv = "TEST_CIP68_MNEMONIC_MISSING"

		_, err := p.loadOwnerKeys(config)
		require.ErrorContains(t, err, "owner key not found")
	})
}

func TestCmdResult_GetOutput(t *testing.T) {
	policyID := []byte{1, 2, 3}
	identity := core.AssetIdentity{
		PolicyID:      policyID,
		Name:          []byte("NFT"),
		RefTokenName:  append([]byte{0x00, 0x06, 0x43, 0xb0}, []byte("NFT")...),
		UserTokenName: append([]byte{0x00, 0x0d, 0xe1, 0x40}, []byte("NFT")...),
	}

	result := newCmdResult(&core.Result{
		TxHash:   "abcd",
		Action:   core.ActionMint,
		Identity: identity,
		TxSize:   1234,
		Plan: &core.TransactionPlan{
			Inputs:  make([]core.PlanInput, 2),
			Outputs: make([]core.PlanOutput, 1),
			Mints: []core.MintDirective{
				{Quantity: 1, PolicyID: policyID, AssetName: identity.RefTokenName},
			},
		},
	}, core.Request{TokenName: "NFT", RequiresOwnerKey: true}, "addr_test1")

	assert.Equal(t, "010203", result.PolicyID)
	assert.Equal(t, identity.RefUnit(), result.ReferenceUnit)
	assert.Equal(t, 2, result.Inputs)
	assert.Equal(t, []string{"1 " + identity.RefUnit()}, result.Mints)

	output := result.GetOutput()

	assert.Contains(t, output, "[CIP-68 mint]")
	assert.Contains(t, output, "abcd")
	assert.Contains(t, output, identity.UserUnit())
	assert.Contains(t, output, "[Mint]")
	assert.NotContains(t, output, "Unsigned Tx Size")

	result.DryRun = true

	assert.Contains(t, result.GetOutput(), "Unsigned Tx Size")
}

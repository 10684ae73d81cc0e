package cliwalletcreate

import (
	"context"
	"encoding/hex"
	"fmt"

	cardanotx "github.com/Ethernal-Tech/cip68-lifecycle/cardano"
	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/spf13/cobra"
)

const (
	secretsDirFlag      = "secrets-dir"
	secretsConfigFlag   = "secrets-config"
	keyNameFlag         = "key-name"
	networkFlag         = "network"
	forceRegenerateFlag = "force"
	showPrivateKeyFlag  = "show-pk"

	secretsDirFlagDesc      = "(mandatory secrets-config not specified) path to the directory of the local secrets manager"
	secretsConfigFlagDesc   = "(mandatory secrets-dir not specified) path to the secrets manager config file"
	keyNameFlagDesc         = "name of the owner key inside the secrets manager"
	networkFlagDesc         = "network of the wallet address (preprod, preview, mainnet)"
	forceRegenerateFlagDesc = "force regenerating keys even if they exist in specified secrets manager"
	showPrivateKeyFlagDesc  = "show private keys in output"

	defaultKeyName = "cip68_owner"
)

type walletCreateParams struct {
	secretsDir      string
	secretsConfig   string
	keyName         string
	network         string
	forceRegenerate bool
	showPrivateKey  bool
}

var _ common.CliCommandExecutor = (*walletCreateParams)(nil)

func (ip *walletCreateParams) ValidateFlags() error {
	if ip.secretsDir == "" && ip.secretsConfig == "" {
		return fmt.Errorf("specify at least one of: %s, %s", secretsDirFlag, secretsConfigFlag)
	}

	if ip.keyName == "" {
		return fmt.Errorf("--%s flag not specified", keyNameFlag)
	}

	if !core.Network(ip.network).IsValid() {
		return fmt.Errorf("invalid --%s: %s", networkFlag, ip.network)
	}

	return nil
}

func (ip *walletCreateParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&ip.secretsDir,
		secretsDirFlag,
		"",
		secretsDirFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.secretsConfig,
		secretsConfigFlag,
		"",
		secretsConfigFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.keyName,
		keyNameFlag,
		defaultKeyName,
		keyNameFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.network,
		networkFlag,
		string(core.NetworkPreprod),
		networkFlagDesc,
	)

	cmd.Flags().BoolVar(
		&ip.forceRegenerate,
		forceRegenerateFlag,
		false,
		forceRegenerateFlagDesc,
	)

	cmd.Flags().BoolVar(
		&ip.showPrivateKey,
		showPrivateKeyFlag,
		false,
		showPrivateKeyFlagDesc,
	)

	cmd.MarkFlagsMutuallyExclusive(secretsDirFlag, secretsConfigFlag)
}

func (ip *walletCreateParams) Execute(_ context.Context, _ common.OutputFormatter) (common.ICommandResult, error) {
	secretsManager, err := common.GetSecretsManager(ip.secretsDir, ip.secretsConfig, true)
	if err != nil {
		return nil, err
	}

	keys, mnemonic, err := cardanotx.GenerateOwnerKeys(secretsManager, ip.keyName, ip.forceRegenerate)
	if err != nil {
		return nil, err
	}

	address, err := cardanotx.GetAddress(core.Network(ip.network), keys)
	if err != nil {
		return nil, err
	}

	keyHash, err := keys.Payment.KeyHash()
	if err != nil {
		return nil, err
	}

	result := &CmdResult{
		KeyName:        ip.keyName,
		Address:        address,
		VerifyingKey:   hex.EncodeToString(keys.Payment.PublicKey()),
		KeyHash:        hex.EncodeToString(keyHash),
		Mnemonic:       mnemonic,
		showPrivateKey: ip.showPrivateKey,
	}

	if ip.showPrivateKey {
		result.SigningKey = hex.EncodeToString(keys.Payment.Bytes())
	}

	if keys.Stake != nil {
		stakeKeyHash, err := keys.Stake.KeyHash()
		if err != nil {
			return nil, err
		}

		result.StakeKeyHash = hex.EncodeToString(stakeKeyHash)
	}

	return result, nil
}

package clicip68

import (
	"context"
	"fmt"
	"strings"
	"time"

	cardanotx "github.com/Ethernal-Tech/cip68-lifecycle/cardano"
	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/Ethernal-Tech/cip68-lifecycle/telemetry"
	"github.com/Ethernal-Tech/cardano-infrastructure/logger"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

const (
	configFlag             = "config"
	tokenFlag              = "token"
	keyFlag                = "key"
	stakeKeyFlag           = "stake-key"
	mnemonicEnvFlag        = "mnemonic-env"
	secretsDirFlag         = "secrets-dir"
	secretsConfigFlag      = "secrets-config"
	imageFlag              = "image"
	mediaTypeFlag          = "media-type"
	descriptionFlag        = "description"
	metaFlag               = "meta"
	simpleFlag             = "simple"
	noCreateCollateralFlag = "no-create-collateral"
	maxRetriesFlag         = "max-retries"
	dryRunFlag             = "dry-run"
	waitFlag               = "wait"
	verboseFlag            = "verbose"

	configFlagDesc             = "path to config json file (default cip68_config.json next to the executable)"
	tokenFlagDesc              = "human readable token name"
	keyFlagDesc                = "owner payment signing key (hex or cardano-cli cbor hex)"
	stakeKeyFlagDesc           = "owner stake signing key (hex or cardano-cli cbor hex)"
	mnemonicEnvFlagDesc        = "environment variable holding the owner mnemonic"
	secretsDirFlagDesc         = "path to the local secrets directory holding the owner key"
	secretsConfigFlagDesc      = "path to the secrets manager config file holding the owner key"
	imageFlagDesc              = "image uri stored in the reference datum"
	mediaTypeFlagDesc          = "media type of the image"
	descriptionFlagDesc        = "description stored in the reference datum"
	metaFlagDesc               = "additional metadata entry key=value (can be repeated)"
	simpleFlagDesc             = "burn a plain asset under the unparameterized script, no owner key involved. " +
		"Collateral must already exist, collateral settings are ignored"
	noCreateCollateralFlagDesc = "do not create a collateral output when none is available"
	maxRetriesFlagDesc         = "number of collateral polls before giving up"
	dryRunFlagDesc             = "build and balance only, nothing is signed or submitted"
	waitFlagDesc               = "wait until the transaction is included in a block"
	verboseFlagDesc            = "log every step including the rendered cardano-cli arguments"

	defaultMnemonicEnv    = "MNEMONIC"
	blockfrostAPIKeyEnv   = "BLOCKFROST_PROJECT_ID"
	telemetryCloseTimeout = 30 * time.Second
)

type lifecycleParams struct {
	action core.Action

	config             string
	token              string
	key                string
	stakeKey           string
	mnemonicEnv        string
	secretsDir         string
	secretsConfig      string
	image              string
	mediaType          string
	description        string
	meta               []string
	simple             bool
	noCreateCollateral bool
	maxRetries         int
	dryRun             bool
	wait               bool
	verbose            bool
}

var _ common.CliCommandExecutor = (*lifecycleParams)(nil)

func newLifecycleParams(action core.Action) *lifecycleParams {
	return &lifecycleParams{action: action}
}

func (p *lifecycleParams) ValidateFlags() error {
	if strings.TrimSpace(p.token) == "" {
		return fmt.Errorf("--%s flag not specified", tokenFlag)
	}

	if p.simple && p.action != core.ActionBurn {
		return fmt.Errorf("--%s is only allowed for burn", simpleFlag)
	}

	if p.maxRetries < 0 {
		return fmt.Errorf("invalid --%s: %d", maxRetriesFlag, p.maxRetries)
	}

	// a simple burn never creates nor waits for collateral
	if p.simple && (p.maxRetries > 0 || p.noCreateCollateral) {
		return fmt.Errorf("--%s and --%s are not allowed with --%s",
			maxRetriesFlag, noCreateCollateralFlag, simpleFlag)
	}

	if p.stakeKey != "" && p.key == "" {
		return fmt.Errorf("--%s requires --%s", stakeKeyFlag, keyFlag)
	}

	if _, err := common.ParseKeyValues(p.meta); err != nil {
		return fmt.Errorf("invalid --%s: %w", metaFlag, err)
	}

	return nil
}

func (p *lifecycleParams) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.config, configFlag, "", configFlagDesc)
	cmd.Flags().StringVar(&p.token, tokenFlag, core.DefaultTokenName, tokenFlagDesc)
	cmd.Flags().StringVar(&p.key, keyFlag, "", keyFlagDesc)
	cmd.Flags().StringVar(&p.stakeKey, stakeKeyFlag, "", stakeKeyFlagDesc)
	cmd.Flags().StringVar(&p.mnemonicEnv, mnemonicEnvFlag, defaultMnemonicEnv, mnemonicEnvFlagDesc)
	cmd.Flags().StringVar(&p.secretsDir, secretsDirFlag, "", secretsDirFlagDesc)
	cmd.Flags().StringVar(&p.secretsConfig, secretsConfigFlag, "", secretsConfigFlagDesc)
	cmd.Flags().BoolVar(&p.noCreateCollateral, noCreateCollateralFlag, false, noCreateCollateralFlagDesc)
	cmd.Flags().IntVar(&p.maxRetries, maxRetriesFlag, 0, maxRetriesFlagDesc)
	cmd.Flags().BoolVar(&p.dryRun, dryRunFlag, false, dryRunFlagDesc)
	cmd.Flags().BoolVar(&p.wait, waitFlag, false, waitFlagDesc)
	cmd.Flags().BoolVar(&p.verbose, verboseFlag, false, verboseFlagDesc)

	if p.action != core.ActionBurn {
		cmd.Flags().StringVar(&p.image, imageFlag, "", imageFlagDesc)
		cmd.Flags().StringVar(&p.mediaType, mediaTypeFlag, "", mediaTypeFlagDesc)
		cmd.Flags().StringVar(&p.description, descriptionFlag, "", descriptionFlagDesc)
		cmd.Flags().StringArrayVar(&p.meta, metaFlag, nil, metaFlagDesc)
	} else {
		cmd.Flags().BoolVar(&p.simple, simpleFlag, false, simpleFlagDesc)
	}

	cmd.MarkFlagsMutuallyExclusive(secretsDirFlag, secretsConfigFlag)
	cmd.MarkFlagsMutuallyExclusive(keyFlag, secretsDirFlag)
	cmd.MarkFlagsMutuallyExclusive(keyFlag, secretsConfigFlag)
}

func (p *lifecycleParams) Execute(ctx context.Context, outputter common.OutputFormatter) (common.ICommandResult, error) {
	config, err := p.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logger.NewLogger(config.Logger)
	if err != nil {
		return nil, err
	}

	tel, err := telemetry.NewTelemetry(config.Telemetry, logger.Named("telemetry"))
	if err != nil {
		return nil, err
	}

	if err := tel.Start(); err != nil {
		return nil, err
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), telemetryCloseTimeout)
		defer cancel()

		if err := tel.Close(closeCtx); err != nil {
			logger.Warn("Failed to close telemetry", "err", err)
		}
	}()

	keys, err := p.loadOwnerKeys(config)
	if err != nil {
		return nil, err
	}

	components, err := newComponents(config, keys, logger)
	if err != nil {
		return nil, err
	}

	defer components.Dispose()

	_, _ = outputter.Write([]byte(fmt.Sprintf("%s %s from %s...", p.action, p.token, components.wallet.Address())))

	request := p.request(config)

	result, err := components.workflow.Run(ctx, request)
	if err != nil {
		return nil, err
	}

	cmdResult := newCmdResult(result, request, components.wallet.Address())

	if p.wait && !p.dryRun {
		_, _ = outputter.Write([]byte(fmt.Sprintf("transaction has been submitted: %s", result.TxHash)))

		if err := components.provider.AwaitConfirmation(ctx, components.wallet.Address(), result.TxHash); err != nil {
			return nil, err
		}

		cmdResult.Confirmed = true
	}

	cmdResult.Counters = tel.Counters()

	return cmdResult, nil
}

func (p *lifecycleParams) loadConfig() (*AppConfig, error) {
	config, err := common.LoadConfig[AppConfig](p.config, "cip68")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.FillOut()

	if p.maxRetries > 0 {
		config.Collateral.MaxRetries = p.maxRetries
	}

	if p.noCreateCollateral {
		config.Collateral.DisableCreation = true
	}

	if p.verbose {
		config.Logger.LogLevel = hclog.Debug
	}

	config.CardanoChain.BlockfrostAPIKey = common.ValueOrEnv(config.CardanoChain.BlockfrostAPIKey, blockfrostAPIKeyEnv)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadOwnerKeys takes the first of: --key, the mnemonic environment variable, the secrets manager
func (p *lifecycleParams) loadOwnerKeys(config *AppConfig) (*cardanotx.OwnerKeys, error) {
	if p.key != "" {
		return cardanotx.NewOwnerKeysFromCliKeys(p.key, p.stakeKey)
	}

	secretsDir, secretsConfig := p.secretsDir, p.secretsConfig
	if secretsDir == "" && secretsConfig == "" {
		if mnemonic := common.ValueOrEnv("", p.mnemonicEnv); mnemonic != "" {
			return cardanotx.NewOwnerKeysFromMnemonic(mnemonic)
		}

		secretsDir, secretsConfig = config.SecretsDir, config.SecretsConfigPath
	}

	if secretsDir == "" && secretsConfig == "" {
		return nil, fmt.Errorf("owner key not found: use --%s, $%s or a secrets manager", keyFlag, p.mnemonicEnv)
	}

	secretsManager, err := common.GetSecretsManager(secretsDir, secretsConfig, true)
	if err != nil {
		return nil, err
	}

	return cardanotx.LoadOwnerKeys(secretsManager, config.OwnerKeyName)
}

func (p *lifecycleParams) request(config *AppConfig) core.Request {
	extra, _ := common.ParseKeyValues(p.meta)
	metadata := lifecycle.MetadataWithDefaults(p.action, p.token, core.Metadata{
		Image:       p.image,
		MediaType:   p.mediaType,
		Description: p.description,
		Extra:       extra,
	})

	return core.Request{
		Action:           p.action,
		TokenName:        p.token,
		RequiresOwnerKey: !p.simple,
		Metadata:         metadata,
		Collateral:       config.Collateral.ToCollateralConfig(p.simple),
		Network:          config.CardanoChain.Network(),
		DryRun:           p.dryRun,
	}
}

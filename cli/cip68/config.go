package clicip68

import (
	"errors"
	"fmt"
	"time"

	cardanotx "github.com/Ethernal-Tech/cip68-lifecycle/cardano"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/Ethernal-Tech/cip68-lifecycle/telemetry"
	"github.com/Ethernal-Tech/cardano-infrastructure/logger"
	"github.com/hashicorp/go-hclog"
)

const (
	defaultMintValidator       = "2"
	defaultSpendValidator      = "3"
	defaultSimpleBurnValidator = "0"
	defaultOwnerKeyName        = "cip68_owner"
)

// BlueprintConfig points to the aiken blueprint and selects validators by title or index
type BlueprintConfig struct {
	Path                string   `json:"path"`
	MintValidator       string   `json:"mintValidator"`
	SpendValidator      string   `json:"spendValidator"`
	SimpleBurnValidator string   `json:"simpleBurnValidator"`
	ApplyParamsCommand  []string `json:"applyParamsCommand"`
}

type CollateralSettings struct {
	MaxRetries      int    `json:"maxRetries"`
	RetryWaitMilis  uint64 `json:"retryWait"`
	DisableCreation bool   `json:"disableCreation"`
}

// ToCollateralConfig returns the fail fast configuration for simple burns, ignoring the settings
func (s CollateralSettings) ToCollateralConfig(simpleBurn bool) core.CollateralConfig {
	if simpleBurn {
		return core.NewFailFastCollateralConfig()
	}

	return core.CollateralConfig{
		MaxRetries:      s.MaxRetries,
		RetryWait:       time.Duration(s.RetryWaitMilis) * time.Millisecond,
		CreateIfMissing: !s.DisableCreation,
	}
}

type AppConfig struct {
	CardanoChain      cardanotx.CardanoChainConfig `json:"cardanoChain"`
	Blueprint         BlueprintConfig              `json:"blueprint"`
	Collateral        CollateralSettings           `json:"collateral"`
	SecretsDir        string                       `json:"secretsDir"`
	SecretsConfigPath string                       `json:"secretsConfigPath"`
	OwnerKeyName      string                       `json:"ownerKeyName"`
	Logger            logger.LoggerConfig          `json:"logger"`
	Telemetry         telemetry.TelemetryConfig    `json:"telemetry"`
}

func (c *AppConfig) FillOut() {
	if c.Blueprint.MintValidator == "" {
		c.Blueprint.MintValidator = defaultMintValidator
	}

	if c.Blueprint.SpendValidator == "" {
		c.Blueprint.SpendValidator = defaultSpendValidator
	}

	if c.Blueprint.SimpleBurnValidator == "" {
		c.Blueprint.SimpleBurnValidator = defaultSimpleBurnValidator
	}

	defaultCollateral := core.NewDefaultCollateralConfig()

	if c.Collateral.MaxRetries == 0 {
		c.Collateral.MaxRetries = defaultCollateral.MaxRetries
	}

	if c.Collateral.RetryWaitMilis == 0 {
		c.Collateral.RetryWaitMilis = uint64(defaultCollateral.RetryWait.Milliseconds())
	}

	if c.OwnerKeyName == "" {
		c.OwnerKeyName = defaultOwnerKeyName
	}

	if c.Logger.LogLevel == hclog.NoLevel {
		c.Logger.LogLevel = hclog.Info
	}
}

func (c *AppConfig) Validate() error {
	if err := c.CardanoChain.Validate(); err != nil {
		return fmt.Errorf("invalid cardano chain config: %w", err)
	}

	if c.CardanoChain.SocketPath == "" {
		return errors.New("socket path is required for transaction building")
	}

	if c.Blueprint.Path == "" {
		return errors.New("blueprint path not specified")
	}

	return c.Collateral.ToCollateralConfig(false).Validate()
}

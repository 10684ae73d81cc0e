package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultTokenName         = "TEST"
	DefaultCollateralRetries = 10
	DefaultCollateralWait    = time.Second * 5
)

type CollateralConfig struct {
	MaxRetries      int           `json:"maxRetries"`
	RetryWait       time.Duration `json:"retryWait"`
	CreateIfMissing bool          `json:"createIfMissing"`
}

func NewDefaultCollateralConfig() CollateralConfig {
	return CollateralConfig{
		MaxRetries:      DefaultCollateralRetries,
		RetryWait:       DefaultCollateralWait,
		CreateIfMissing: true,
	}
}

// NewFailFastCollateralConfig polls once and never asks the wallet for a new collateral
func NewFailFastCollateralConfig() CollateralConfig {
	return CollateralConfig{
		MaxRetries:      1,
		RetryWait:       DefaultCollateralWait,
		CreateIfMissing: false,
	}
}

func (c CollateralConfig) Validate() error {
	if c.MaxRetries <= 0 {
		return fmt.Errorf("invalid collateral max retries: %d", c.MaxRetries)
	}

	if c.RetryWait <= 0 {
		return fmt.Errorf("invalid collateral retry wait: %s", c.RetryWait)
	}

	return nil
}

type Request struct {
	Action           Action
	TokenName        string
	RequiresOwnerKey bool
	Metadata         Metadata
	Collateral       CollateralConfig
	Network          Network
	DryRun           bool
}

func (r Request) Validate() error {
	switch r.Action {
	case ActionMint, ActionBurn, ActionEdit:
	default:
		return fmt.Errorf("unknown action: %s", r.Action)
	}

	if r.TokenName == "" {
		return errors.New("token name not specified")
	}

	if !r.Network.IsValid() {
		return fmt.Errorf("unknown network: %s", r.Network)
	}

	return r.Collateral.Validate()
}

type Result struct {
	TxHash   string
	Action   Action
	Identity AssetIdentity
	Plan     *TransactionPlan
	TxSize   int
}

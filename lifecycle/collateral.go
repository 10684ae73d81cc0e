package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/Ethernal-Tech/cip68-lifecycle/telemetry"
	"github.com/hashicorp/go-hclog"
	"github.com/sethvargo/go-retry"
)

type CollateralState int

const (
	CollateralPolling CollateralState = iota
	CollateralFound
	CollateralExhausted
)

func (s CollateralState) String() string {
	switch s {
	case CollateralPolling:
		return "polling"
	case CollateralFound:
		return "found"
	case CollateralExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep waits for d or until ctx is done
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CollateralAcquirer polls the wallet until a collateral utxo becomes visible.
// Each Step is a single poll followed by a transition.
type CollateralAcquirer struct {
	wallet  core.Wallet
	config  core.CollateralConfig
	action  core.Action
	backoff retry.Backoff
	sleep   SleepFunc
	logger  hclog.Logger

	state      CollateralState
	attempt    int
	collateral core.Utxo
}

func NewCollateralAcquirer(
	wallet core.Wallet, config core.CollateralConfig, action core.Action, sleep SleepFunc, logger hclog.Logger,
) (*CollateralAcquirer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if sleep == nil {
		sleep = ContextSleep
	}

	return &CollateralAcquirer{
		wallet: wallet,
		config: config,
		action: action,
		// delays only happen between polls so there is one less than the number of polls
		backoff: retry.WithMaxRetries(uint64(config.MaxRetries-1), retry.NewConstant(config.RetryWait)),
		sleep:   sleep,
		logger:  logger,
		state:   CollateralPolling,
	}, nil
}

func (c *CollateralAcquirer) State() CollateralState {
	return c.state
}

// Attempts returns number of polls issued so far
func (c *CollateralAcquirer) Attempts() int {
	return c.attempt
}

func (c *CollateralAcquirer) Collateral() (core.Utxo, bool) {
	return c.collateral, c.state == CollateralFound
}

// Step polls the wallet once. Terminal states are returned without touching the wallet.
func (c *CollateralAcquirer) Step(ctx context.Context) (CollateralState, error) {
	if c.state != CollateralPolling {
		return c.state, nil
	}

	c.attempt++

	telemetry.UpdateCollateralPollCounter(string(c.action), 1)

	utxos, err := c.wallet.GetCollateral(ctx)
	if err != nil {
		return c.state, fmt.Errorf("failed to retrieve collateral: %w", err)
	}

	if len(utxos) > 0 {
		c.collateral = utxos[0]
		c.state = CollateralFound

		c.logger.Debug("Collateral found", "attempt", c.attempt, "utxo", c.collateral.Ref())

		return c.state, nil
	}

	delay, stop := c.backoff.Next()
	if stop || c.attempt >= c.config.MaxRetries {
		c.state = CollateralExhausted

		telemetry.UpdateCollateralExhaustedCounter(string(c.action))
		c.logger.Warn("Max retries reached. No collateral found", "attempts", c.attempt)

		return c.state, nil
	}

	c.logger.Info("No collateral yet. Retrying...", "attempt", c.attempt, "delay", delay)

	if c.config.CreateIfMissing {
		// creation is best effort, the next poll decides
		if err := c.wallet.CreateCollateral(ctx); err != nil {
			c.logger.Warn("Failed to create collateral", "attempt", c.attempt, "err", err)
		} else {
			telemetry.UpdateCollateralCreateCounter(string(c.action), 1)
		}
	}

	if err := c.sleep(ctx, delay); err != nil {
		return c.state, err
	}

	return c.state, nil
}

// Acquire runs the state machine until a collateral is found or the retry budget is exhausted
func (c *CollateralAcquirer) Acquire(ctx context.Context) (core.Utxo, error) {
	for {
		state, err := c.Step(ctx)
		if err != nil {
			return core.Utxo{}, err
		}

		switch state {
		case CollateralFound:
			return c.collateral, nil
		case CollateralExhausted:
			return core.Utxo{}, fmt.Errorf("%w: nothing found after %d attempts",
				core.ErrCollateralUnavailable, c.attempt)
		}
	}
}

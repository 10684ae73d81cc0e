package lifecycle

import (
	"context"
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/hashicorp/go-hclog"
)

// Finalizer balances, signs and submits a plan. Nothing is retried here.
type Finalizer struct {
	balancer core.Balancer
	wallet   core.Wallet
	provider core.ChainProvider
	logger   hclog.Logger
}

func NewFinalizer(
	balancer core.Balancer, wallet core.Wallet, provider core.ChainProvider, logger hclog.Logger,
) *Finalizer {
	return &Finalizer{
		balancer: balancer,
		wallet:   wallet,
		provider: provider,
		logger:   logger,
	}
}

func (f *Finalizer) Balance(ctx context.Context, plan *core.TransactionPlan) (core.UnsignedTx, error) {
	tx, err := f.balancer.Complete(ctx, plan)
	if err != nil {
		return core.UnsignedTx{}, fmt.Errorf("%w: %w", core.ErrBalancingFailure, err)
	}

	f.logger.Debug("Transaction balanced", "hash", tx.Hash, "size", len(tx.Raw))

	return tx, nil
}

// SignAndSubmit signs with script witnesses kept in place and returns the submitted transaction id
func (f *Finalizer) SignAndSubmit(ctx context.Context, tx core.UnsignedTx) (string, error) {
	signed, err := f.wallet.Sign(ctx, tx, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrSigningFailure, err)
	}

	txHash, err := f.provider.Submit(ctx, signed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrSubmissionRejected, err)
	}

	f.logger.Info("Transaction submitted", "hash", txHash)

	return txHash, nil
}

func (f *Finalizer) Finalize(ctx context.Context, plan *core.TransactionPlan) (string, error) {
	tx, err := f.Balance(ctx, plan)
	if err != nil {
		return "", err
	}

	return f.SignAndSubmit(ctx, tx)
}

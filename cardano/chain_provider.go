package cardanotx

import (
	"context"
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	infracommon "github.com/Ethernal-Tech/cardano-infrastructure/common"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"github.com/hashicorp/go-hclog"
)

const confirmationRetryCount = 60

// ChainProvider reads utxos and submits transactions through a cardano tx provider
type ChainProvider struct {
	txProvider cardanowallet.ITxProvider
	logger     hclog.Logger
}

var _ core.ChainProvider = (*ChainProvider)(nil)

func NewChainProvider(txProvider cardanowallet.ITxProvider, logger hclog.Logger) *ChainProvider {
	return &ChainProvider{
		txProvider: txProvider,
		logger:     logger,
	}
}

// FetchUtxosAt implements core.ChainProvider.
func (p *ChainProvider) FetchUtxosAt(ctx context.Context, address string, unit string) ([]core.Utxo, error) {
	utxos, err := infracommon.ExecuteWithRetry(ctx, func(ctx context.Context) ([]cardanowallet.Utxo, error) {
		return p.txProvider.GetUtxos(ctx, address)
	})
	if err != nil {
		return nil, err
	}

	converted, err := ConvertUtxos(address, utxos)
	if err != nil {
		return nil, err
	}

	if unit == "" {
		return converted, nil
	}

	result := make([]core.Utxo, 0, 1)

	for _, x := range converted {
		if x.HasUnit(unit) {
			result = append(result, x)
		}
	}

	p.logger.Debug("Utxos fetched", "addr", address, "unit", unit, "all", len(converted), "matched", len(result))

	return result, nil
}

// Submit implements core.ChainProvider.
func (p *ChainProvider) Submit(ctx context.Context, tx core.SignedTx) (string, error) {
	txHash, err := TxHash(tx.Raw)
	if err != nil {
		return "", err
	}

	if err := p.txProvider.SubmitTx(ctx, tx.Raw); err != nil {
		return "", err
	}

	p.logger.Info("Transaction has been submitted", "hash", txHash)

	return txHash, nil
}

// AwaitConfirmation waits until an output of the transaction shows up at the address
func (p *ChainProvider) AwaitConfirmation(ctx context.Context, address string, txHash string) error {
	_, err := infracommon.ExecuteWithRetry(ctx, func(ctx context.Context) (bool, error) {
		utxos, err := p.txProvider.GetUtxos(ctx, address)
		if err != nil {
			return false, err
		}

		for _, x := range utxos {
			if x.Hash == txHash {
				return true, nil
			}
		}

		return false, infracommon.ErrRetryTryAgain
	}, infracommon.WithRetryCount(confirmationRetryCount))
	if err != nil {
		return fmt.Errorf("transaction %s not included: %w", txHash, err)
	}

	p.logger.Info("Transaction has been included in block", "hash", txHash)

	return nil
}

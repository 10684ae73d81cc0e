package cardanotx

import (
	"context"
	"encoding/hex"
	"fmt"
	"slices"
	"sync"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	infracommon "github.com/Ethernal-Tech/cardano-infrastructure/common"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"github.com/hashicorp/go-hclog"
)

const (
	CollateralAmount    = uint64(5_000_000)
	MaxCollateralAmount = uint64(50_000_000)

	maxInputs = 40
)

// Wallet is the owner wallet backed by a cardano tx provider
type Wallet struct {
	keys       *OwnerKeys
	address    string
	config     *CardanoChainConfig
	txProvider cardanowallet.ITxProvider
	logger     hclog.Logger

	lock              sync.Mutex
	pendingCollateral string
}

var _ core.Wallet = (*Wallet)(nil)

func NewWallet(
	keys *OwnerKeys, config *CardanoChainConfig, txProvider cardanowallet.ITxProvider, logger hclog.Logger,
) (*Wallet, error) {
	address, err := GetAddress(config.Network(), keys)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet address: %w", err)
	}

	return &Wallet{
		keys:       keys,
		address:    address,
		config:     config,
		txProvider: txProvider,
		logger:     logger,
	}, nil
}

func (w *Wallet) Address() string {
	return w.address
}

// GetUtxos implements core.Wallet.
func (w *Wallet) GetUtxos(ctx context.Context) ([]core.Utxo, error) {
	utxos, err := w.getInfraUtxos(ctx)
	if err != nil {
		return nil, err
	}

	return ConvertUtxos(w.address, utxos)
}

// GetCollateral implements core.Wallet. Candidates are ada only utxos between 5 and 50 ada, smallest first.
func (w *Wallet) GetCollateral(ctx context.Context) ([]core.Utxo, error) {
	utxos, err := w.GetUtxos(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]core.Utxo, 0, len(utxos))

	for _, x := range utxos {
		if x.IsAdaOnly() && x.Lovelace >= CollateralAmount && x.Lovelace <= MaxCollateralAmount {
			result = append(result, x)
		}
	}

	slices.SortStableFunc(result, func(a, b core.Utxo) int {
		switch {
		case a.Lovelace < b.Lovelace:
			return -1
		case a.Lovelace > b.Lovelace:
			return 1
		default:
			return 0
		}
	})

	w.lock.Lock()
	defer w.lock.Unlock()

	for _, x := range result {
		if hex.EncodeToString(x.TxHash[:]) == w.pendingCollateral {
			w.pendingCollateral = ""
		}
	}

	return result, nil
}

// CreateCollateral implements core.Wallet. It sends 5 ada to the wallet itself.
// While a previous request is still not visible nothing is sent again.
func (w *Wallet) CreateCollateral(ctx context.Context) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.pendingCollateral != "" {
		w.logger.Debug("Collateral creation already requested", "hash", w.pendingCollateral)

		return nil
	}

	txRaw, txHash, err := w.createCollateralTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to create collateral tx: %w", err)
	}

	txSigned, err := AddTxWitness(txRaw, w.keys.Payment, false)
	if err != nil {
		return fmt.Errorf("failed to sign collateral tx: %w", err)
	}

	if err := w.txProvider.SubmitTx(ctx, txSigned); err != nil {
		return fmt.Errorf("failed to submit collateral tx: %w", err)
	}

	w.pendingCollateral = txHash

	w.logger.Info("Collateral transaction has been submitted", "hash", txHash, "amount", CollateralAmount)

	return nil
}

// GetChangeAddress implements core.Wallet.
func (w *Wallet) GetChangeAddress(_ context.Context) (string, error) {
	return w.address, nil
}

// Sign implements core.Wallet.
func (w *Wallet) Sign(_ context.Context, tx core.UnsignedTx, partial bool) (core.SignedTx, error) {
	txSigned, err := AddTxWitness(tx.Raw, w.keys.Payment, partial)
	if err != nil {
		return core.SignedTx{}, err
	}

	txHash, err := TxHash(txSigned)
	if err != nil {
		return core.SignedTx{}, err
	}

	return core.SignedTx{Raw: txSigned, Hash: txHash}, nil
}

func (w *Wallet) createCollateralTx(ctx context.Context) ([]byte, string, error) {
	builder, err := cardanowallet.NewTxBuilder(cardanowallet.ResolveCardanoCliBinary(w.config.NetworkID))
	if err != nil {
		return nil, "", err
	}

	defer builder.Dispose()

	builder.SetTestNetMagic(uint(w.config.TestNetMagic))

	_, err = infracommon.ExecuteWithRetry(ctx, func(ctx context.Context) (bool, error) {
		return true, builder.SetProtocolParametersAndTTL(ctx, w.txProvider, w.config.TTLSlotNumberInc)
	})
	if err != nil {
		return nil, "", err
	}

	allUtxos, err := w.getInfraUtxos(ctx)
	if err != nil {
		return nil, "", err
	}

	// change keeps every token of the wallet so its min utxo depends on the whole sum
	potentialMinUtxo, err := cardanowallet.GetMinUtxoForSumMap(
		builder, w.address, cardanowallet.GetUtxosSum(allUtxos))
	if err != nil {
		return nil, "", err
	}

	changeMinUtxo := max(potentialMinUtxo, MinUtxoAmountDefault)
	desiredLovelaceAmount := CollateralAmount + w.config.GetPotentialFee() + changeMinUtxo

	inputs, err := cardanowallet.GetUTXOsForAmount(
		allUtxos, cardanowallet.AdaTokenName, desiredLovelaceAmount, maxInputs)
	if err != nil {
		return nil, "", err
	}

	senderTokens, err := cardanowallet.GetTokensFromSumMap(inputs.Sum)
	if err != nil {
		return nil, "", err
	}

	builder.AddInputs(inputs.Inputs...)
	builder.AddOutputs(
		cardanowallet.NewTxOutput(w.address, CollateralAmount),
		cardanowallet.TxOutput{
			Addr:   w.address,
			Tokens: senderTokens,
		},
	)

	fee, err := builder.CalculateFee(1)
	if err != nil {
		return nil, "", err
	}

	change, err := collateralChange(inputs.Sum[cardanowallet.AdaTokenName], fee, changeMinUtxo)
	if err != nil {
		return nil, "", err
	}

	builder.UpdateOutputAmount(-1, change)
	builder.SetFee(fee)

	return builder.Build()
}

// collateralChange is what remains after the collateral output and the fee
func collateralChange(lovelaceInputAmount, fee, changeMinUtxo uint64) (uint64, error) {
	change := lovelaceInputAmount - fee - CollateralAmount
	// handle overflow or insufficient amount
	if change > lovelaceInputAmount || change < changeMinUtxo {
		return 0, fmt.Errorf("insufficient amount: %d", change)
	}

	return change, nil
}

func (w *Wallet) getInfraUtxos(ctx context.Context) ([]cardanowallet.Utxo, error) {
	return infracommon.ExecuteWithRetry(ctx, func(ctx context.Context) ([]cardanowallet.Utxo, error) {
		return w.txProvider.GetUtxos(ctx, w.address)
	})
}

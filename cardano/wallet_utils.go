package cardanotx

import (
	"encoding/hex"
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
)

// ConvertUtxo maps a provider utxo. Token names of the provider are raw (not hex encoded).
func ConvertUtxo(address string, utxo cardanowallet.Utxo) (core.Utxo, error) {
	txHash, err := core.NewTxHashFromHex(utxo.Hash)
	if err != nil {
		return core.Utxo{}, err
	}

	assets := make([]core.Asset, 0, len(utxo.Tokens))

	for _, token := range utxo.Tokens {
		policyID, err := hex.DecodeString(token.PolicyID)
		if err != nil {
			return core.Utxo{}, fmt.Errorf("invalid policy id %s: %w", token.PolicyID, err)
		}

		assets = append(assets, core.Asset{
			PolicyID: policyID,
			Name:     []byte(token.Name),
			Quantity: token.Amount,
		})
	}

	return core.Utxo{
		TxHash:      txHash,
		OutputIndex: utxo.Index,
		Address:     address,
		Lovelace:    utxo.Amount,
		Assets:      assets,
	}, nil
}

func ConvertUtxos(address string, utxos []cardanowallet.Utxo) ([]core.Utxo, error) {
	result := make([]core.Utxo, len(utxos))

	for i, x := range utxos {
		utxo, err := ConvertUtxo(address, x)
		if err != nil {
			return nil, err
		}

		result[i] = utxo
	}

	return result, nil
}

// ToInfraUtxo is the inverse of ConvertUtxo
func ToInfraUtxo(utxo core.Utxo) cardanowallet.Utxo {
	tokens := make([]cardanowallet.TokenAmount, len(utxo.Assets))

	for i, x := range utxo.Assets {
		tokens[i] = cardanowallet.NewTokenAmount(
			cardanowallet.NewToken(hex.EncodeToString(x.PolicyID), string(x.Name)), x.Quantity)
	}

	return cardanowallet.Utxo{
		Hash:   hex.EncodeToString(utxo.TxHash[:]),
		Index:  utxo.OutputIndex,
		Amount: utxo.Lovelace,
		Tokens: tokens,
	}
}

// tokenValue renders an asset the way cardano-cli expects it inside a value: "<quantity> <policy>.<name hex>"
func tokenValue(quantity int64, policyID, assetName []byte) string {
	return fmt.Sprintf("%d %s.%s", quantity, hex.EncodeToString(policyID), hex.EncodeToString(assetName))
}

package cardanotx

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
)

const (
	PreprodNetworkMagic = 1
	PreviewNetworkMagic = 2

	PotentialFeeDefault  = uint64(400_000)
	MinUtxoAmountDefault = uint64(1_000_000)
)

type CardanoChainConfig struct {
	NetworkID        cardanowallet.CardanoNetworkType `json:"networkID"`
	TestNetMagic     uint32                           `json:"testnetMagic"`
	OgmiosURL        string                           `json:"ogmiosUrl,omitempty"`
	BlockfrostURL    string                           `json:"blockfrostUrl,omitempty"`
	BlockfrostAPIKey string                           `json:"blockfrostApiKey,omitempty"`
	SocketPath       string                           `json:"socketPath,omitempty"`
	PotentialFee     uint64                           `json:"potentialFee"`
	TTLSlotNumberInc uint64                           `json:"ttlSlotNumberIncrement"`
}

func NewCardanoChainConfig(rawMessage json.RawMessage) (*CardanoChainConfig, error) {
	var cardanoChainConfig CardanoChainConfig
	if err := json.Unmarshal(rawMessage, &cardanoChainConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Cardano configuration: %w", err)
	}

	return &cardanoChainConfig, nil
}

func (config CardanoChainConfig) Serialize() ([]byte, error) {
	return json.Marshal(config)
}

// Network maps network id and testnet magic to the lifecycle network. Unknown testnets are treated as preprod.
func (config CardanoChainConfig) Network() core.Network {
	if config.NetworkID == cardanowallet.MainNetNetwork {
		return core.NetworkMainnet
	}

	if config.TestNetMagic == PreviewNetworkMagic {
		return core.NetworkPreview
	}

	return core.NetworkPreprod
}

func (config CardanoChainConfig) GetPotentialFee() uint64 {
	if config.PotentialFee == 0 {
		return PotentialFeeDefault
	}

	return config.PotentialFee
}

func (config CardanoChainConfig) Validate() error {
	if config.NetworkID != cardanowallet.MainNetNetwork && config.TestNetMagic == 0 {
		return errors.New("testnet magic not specified")
	}

	if config.OgmiosURL == "" && config.SocketPath == "" && config.BlockfrostURL == "" {
		return errors.New("neither a blockfrost nor a ogmios nor a socket path is specified")
	}

	if config.OgmiosURL != "" && !common.IsValidURL(config.OgmiosURL) {
		return fmt.Errorf("invalid ogmios url: %s", config.OgmiosURL)
	}

	if config.BlockfrostURL != "" && !common.IsValidURL(config.BlockfrostURL) {
		return fmt.Errorf("invalid blockfrost url: %s", config.BlockfrostURL)
	}

	return nil
}

func (config CardanoChainConfig) CreateTxProvider() (cardanowallet.ITxProvider, error) {
	if config.OgmiosURL != "" {
		return cardanowallet.NewTxProviderOgmios(config.OgmiosURL), nil
	}

	if config.SocketPath != "" {
		return cardanowallet.NewTxProviderCli(
			uint(config.TestNetMagic), config.SocketPath, cardanowallet.ResolveCardanoCliBinary(config.NetworkID))
	}

	if config.BlockfrostURL != "" {
		return cardanowallet.NewTxProviderBlockFrost(config.BlockfrostURL, config.BlockfrostAPIKey), nil
	}

	return nil, errors.New("neither a blockfrost nor a ogmios nor a socket path is specified")
}

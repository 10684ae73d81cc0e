package cardanotx

import (
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/Ethernal-Tech/cardano-infrastructure/wallet"
)

// IsValidOutputAddress returns true for payment addresses (not reward ones) of the network
func IsValidOutputAddress(addr string, network core.Network) bool {
	cardAddr, err := wallet.NewCardanoAddressFromString(addr)

	return err == nil && cardAddr.GetInfo().AddressType != wallet.RewardAddress &&
		cardAddr.GetInfo().Network == toCardanoNetworkType(network)
}

func toCardanoNetworkType(network core.Network) wallet.CardanoNetworkType {
	if network == core.NetworkMainnet {
		return wallet.MainNetNetwork
	}

	return wallet.TestNetNetwork
}

package cliwalletcreate

import (
	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/spf13/cobra"
)

var walletCreateParamsData = &walletCreateParams{}

func GetWalletCreateCommand() *cobra.Command {
	walletCreateCmd := &cobra.Command{
		Use:     "wallet-create",
		Short:   "creates the owner wallet of CIP-68 policies",
		PreRunE: common.GetCliPreRunCommand(walletCreateParamsData),
		Run:     common.GetCliRunCommand(walletCreateParamsData),
	}

	walletCreateParamsData.setFlags(walletCreateCmd)

	return walletCreateCmd
}

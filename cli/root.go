package cli

import (
	"fmt"
	"os"

	clicip68 "github.com/Ethernal-Tech/cip68-lifecycle/cli/cip68"
	cliversion "github.com/Ethernal-Tech/cip68-lifecycle/cli/version"
	cliwalletcreate "github.com/Ethernal-Tech/cip68-lifecycle/cli/walletcreate"
	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:   "cip68",
			Short: "cli commands for minting, burning and editing CIP-68 tokens",
		},
	}

	rootCommand.baseCmd.PersistentFlags().String(common.OutputFlag, "", common.OutputFlagDesc)

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		clicip68.GetMintCommand(),
		clicip68.GetBurnCommand(),
		clicip68.GetEditCommand(),
		cliwalletcreate.GetWalletCreateCommand(),
		cliversion.GetVersionCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}

package clicip68

import (
	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/spf13/cobra"
)

func GetMintCommand() *cobra.Command {
	return newLifecycleCommand(core.ActionMint, "mints the reference and user token of a CIP-68 pair")
}

func GetBurnCommand() *cobra.Command {
	return newLifecycleCommand(core.ActionBurn, "burns both tokens of a CIP-68 pair or a plain asset with --simple")
}

func GetEditCommand() *cobra.Command {
	return newLifecycleCommand(core.ActionEdit, "replaces the metadata datum held by the reference token")
}

func newLifecycleCommand(action core.Action, short string) *cobra.Command {
	params := newLifecycleParams(action)

	cmd := &cobra.Command{
		Use:     string(action),
		Short:   short,
		Args:    cobra.NoArgs,
		PreRunE: common.GetCliPreRunCommand(params),
		Run:     common.GetCliRunCommand(params),
	}

	params.RegisterFlags(cmd)

	return cmd
}

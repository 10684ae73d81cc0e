package lifecycle

import (
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
)

const (
	RedeemerTagMint uint = 0
	RedeemerTagBurn uint = 1
	RedeemerTagEdit uint = 2
)

// RedeemerFor returns the validator redeemer for an action. Every action uses an empty constructor.
func RedeemerFor(action core.Action) (core.Redeemer, error) {
	switch action {
	case core.ActionMint:
		return core.Redeemer{Tag: RedeemerTagMint}, nil
	case core.ActionBurn:
		return core.Redeemer{Tag: RedeemerTagBurn}, nil
	case core.ActionEdit:
		return core.Redeemer{Tag: RedeemerTagEdit}, nil
	default:
		return core.Redeemer{}, fmt.Errorf("no redeemer for action: %s", action)
	}
}

package lifecycle

import (
	"encoding/hex"
	"testing"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/stretchr/testify/require"
)

func TestRedeemerFor(t *testing.T) {
	cases := []struct {
		action core.Action
		tag    uint
		prefix string
	}{
		{core.ActionMint, 0, "d879"},
		{core.ActionBurn, 1, "d87a"},
		{core.ActionEdit, 2, "d87b"},
	}

	for _, c := range cases {
		t.Run(string(c.action), func(t *testing.T) {
			redeemer, err := RedeemerFor(c.action)
			require.NoError(t, err)
			require.Equal(t, c.tag, redeemer.Tag)
			require.Empty(t, redeemer.Fields)

			data, err := redeemer.MarshalCBOR()
			require.NoError(t, err)
			require.Equal(t, c.prefix, hex.EncodeToString(data[:2]))
		})
	}

	_, err := RedeemerFor("transfer")
	require.Error(t, err)
}

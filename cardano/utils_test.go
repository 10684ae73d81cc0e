package cardanotx

import (
	"testing"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/stretchr/testify/assert"
)

func Test_IsValidOutputAddress(t *testing.T) {
	listValidMain := []string{
		"addr1qx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3n0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgse35a3x",
		"addr1z8phkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gten0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgs9yc0hh",
		"addr1vx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzers66hrl8",
		"addr1w8phkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gtcyjy7wx",
	}
	listValidTest := []string{
		"addr_test1qz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3n0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgs68faae",
		"addr_test1zrphkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gten0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgsxj90mg",
		"addr_test1vz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzerspjrlsz",
		"addr_test1wrphkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gtcl6szpr",
	}
	listInvalid := []string{
		"stake1uyehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gh6ffgw",
		"stake_test1uqehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gssrtvn",
		"addr1dummy",
		"",
	}

	for _, network := range []core.Network{core.NetworkPreprod, core.NetworkPreview} {
		for _, x := range listValidMain {
			assert.False(t, IsValidOutputAddress(x, network))
		}

		for _, x := range listValidTest {
			assert.True(t, IsValidOutputAddress(x, network))
		}

		for _, x := range listInvalid {
			assert.False(t, IsValidOutputAddress(x, network))
		}
	}

	for _, x := range listValidMain {
		assert.True(t, IsValidOutputAddress(x, core.NetworkMainnet))
	}

	for _, x := range listValidTest {
		assert.False(t, IsValidOutputAddress(x, core.NetworkMainnet))
	}

	for _, x := range listInvalid {
		assert.False(t, IsValidOutputAddress(x, core.NetworkMainnet))
	}
}

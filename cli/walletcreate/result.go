package cliwalletcreate

import (
	"bytes"
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/common"
)

type CmdResult struct {
	KeyName        string `json:"keyName"`
	Address        string `json:"address"`
	SigningKey     string `json:"signingKey,omitempty"`
	VerifyingKey   string `json:"verifyingKey"`
	KeyHash        string `json:"keyHash"`
	StakeKeyHash   string `json:"stakeKeyHash,omitempty"`
	Mnemonic       string `json:"mnemonic,omitempty"`
	showPrivateKey bool
}

func (r CmdResult) GetOutput() string {
	var (
		buffer bytes.Buffer
		vals   []string
	)

	vals = append(vals, fmt.Sprintf("Address|%s", r.Address))

	if r.showPrivateKey {
		vals = append(vals, fmt.Sprintf("Signing Key|%s", r.SigningKey))
	}

	vals = append(vals,
		fmt.Sprintf("Verifying Key|%s", r.VerifyingKey),
		fmt.Sprintf("Key Hash|%s", r.KeyHash))

	if r.StakeKeyHash != "" {
		vals = append(vals, fmt.Sprintf("Stake Key Hash|%s", r.StakeKeyHash))
	}

	buffer.WriteString("\n[SECRETS ")
	buffer.WriteString(r.KeyName)
	buffer.WriteString("]\n")
	buffer.WriteString(common.FormatKV(vals))
	buffer.WriteString("\n")

	// the mnemonic is printed once, right after the keys are generated
	if r.Mnemonic != "" {
		buffer.WriteString("[Mnemonic]\n")
		buffer.WriteString(r.Mnemonic)
		buffer.WriteString("\n")
	}

	return buffer.String()
}

package clicip68

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
)

type CmdResult struct {
	Action        core.Action        `json:"action"`
	TokenName     string             `json:"tokenName"`
	PolicyID      string             `json:"policyId"`
	ReferenceUnit string             `json:"referenceUnit,omitempty"`
	UserUnit      string             `json:"userUnit,omitempty"`
	Wallet        string             `json:"wallet"`
	TxHash        string             `json:"txHash,omitempty"`
	TxSize        int                `json:"txSize"`
	DryRun        bool               `json:"dryRun"`
	Confirmed     bool               `json:"confirmed"`
	Inputs        int                `json:"inputs"`
	Mints         []string           `json:"mints"`
	Outputs       int                `json:"outputs"`
	Counters      map[string]float64 `json:"counters,omitempty"`
}

func newCmdResult(result *core.Result, request core.Request, wallet string) *CmdResult {
	cmdResult := &CmdResult{
		Action:    result.Action,
		TokenName: request.TokenName,
		PolicyID:  hex.EncodeToString(result.Identity.PolicyID),
		Wallet:    wallet,
		TxHash:    result.TxHash,
		TxSize:    result.TxSize,
		DryRun:    request.DryRun,
	}

	if request.RequiresOwnerKey {
		cmdResult.ReferenceUnit = result.Identity.RefUnit()
		cmdResult.UserUnit = result.Identity.UserUnit()
	}

	if plan := result.Plan; plan != nil {
		cmdResult.Inputs = len(plan.Inputs)
		cmdResult.Outputs = len(plan.Outputs)

		for _, mint := range plan.Mints {
			cmdResult.Mints = append(cmdResult.Mints, fmt.Sprintf("%d %s", mint.Quantity, mint.Unit()))
		}
	}

	return cmdResult
}

func (r CmdResult) GetOutput() string {
	var buffer bytes.Buffer

	vals := []string{
		fmt.Sprintf("Action|%s", r.Action),
		fmt.Sprintf("Token|%s", r.TokenName),
		fmt.Sprintf("Policy ID|%s", r.PolicyID),
	}

	if r.ReferenceUnit != "" {
		vals = append(vals,
			fmt.Sprintf("Reference Unit|%s", r.ReferenceUnit),
			fmt.Sprintf("User Unit|%s", r.UserUnit))
	}

	vals = append(vals, fmt.Sprintf("Wallet|%s", r.Wallet))

	if r.DryRun {
		vals = append(vals, fmt.Sprintf("Unsigned Tx Size|%d", r.TxSize))
	} else {
		vals = append(vals,
			fmt.Sprintf("Tx Hash|%s", r.TxHash),
			fmt.Sprintf("Tx Size|%d", r.TxSize),
			fmt.Sprintf("Confirmed|%t", r.Confirmed))
	}

	buffer.WriteString("\n[CIP-68 ")
	buffer.WriteString(string(r.Action))
	buffer.WriteString("]\n")
	buffer.WriteString(common.FormatKV(vals))
	buffer.WriteString("\n")

	buffer.WriteString("[Plan]\n")
	buffer.WriteString(common.FormatKV([]string{
		fmt.Sprintf("Inputs|%d", r.Inputs),
		fmt.Sprintf("Outputs|%d", r.Outputs),
	}))
	buffer.WriteString("\n")

	if len(r.Mints) > 0 {
		buffer.WriteString("[Mint]\n")
		buffer.WriteString(common.FormatList(r.Mints))
		buffer.WriteString("\n")
	}

	if len(r.Counters) > 0 {
		names := make([]string, 0, len(r.Counters))
		for name := range r.Counters {
			names = append(names, name)
		}

		sort.Strings(names)

		counters := make([]string, len(names))
		for i, name := range names {
			counters[i] = fmt.Sprintf("%s|%v", name, r.Counters[name])
		}

		buffer.WriteString("[Counters]\n")
		buffer.WriteString(common.FormatKV(counters))
		buffer.WriteString("\n")
	}

	return buffer.String()
}

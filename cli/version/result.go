package cliversion

import (
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/common"
)

type versionCmdResult struct {
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"buildTime"`
}

func (r *versionCmdResult) GetOutput() string {
	return common.FormatKV([]string{
		fmt.Sprintf("Commit|%s", r.Commit),
		fmt.Sprintf("Branch|%s", r.Branch),
		fmt.Sprintf("Build Time|%s", r.BuildTime),
	})
}

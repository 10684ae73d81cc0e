package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

const (
	OutputFlag     = "output"
	OutputFlagDesc = "output format: text or json"

	outputText = "text"
	outputJSON = "json"
)

type ICommandResult interface {
	GetOutput() string
}

// OutputFormatter collects the result (or the error) of a command and prints it once at the end.
// Progress messages written through io.Writer are printed immediately.
type OutputFormatter interface {
	io.Writer
	SetError(err error)
	SetCommandResult(result ICommandResult)
	WriteOutput()
	HasError() bool
}

// InitializeOutputter returns json outputter when --output json is set on the command or any parent
func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	format, _ := cmd.Flags().GetString(OutputFlag)

	if strings.EqualFold(format, outputJSON) {
		return newJSONOutput(os.Stdout, os.Stderr)
	}

	return newCLIOutput(os.Stdout, os.Stderr)
}

type commonOutputFormatter struct {
	errorOutput   error
	commandOutput ICommandResult
}

func (c *commonOutputFormatter) SetError(err error) {
	c.errorOutput = err
}

func (c *commonOutputFormatter) SetCommandResult(result ICommandResult) {
	c.commandOutput = result
}

func (c *commonOutputFormatter) HasError() bool {
	return c.errorOutput != nil
}

type cliOutput struct {
	commonOutputFormatter
	out    io.Writer
	errOut io.Writer
}

func newCLIOutput(out, errOut io.Writer) *cliOutput {
	return &cliOutput{out: out, errOut: errOut}
}

func (o *cliOutput) WriteOutput() {
	if o.errorOutput != nil {
		_, _ = fmt.Fprintln(o.errOut, o.errorOutput.Error())

		return
	}

	if o.commandOutput != nil {
		_, _ = fmt.Fprintln(o.out, o.commandOutput.GetOutput())
	}
}

func (o *cliOutput) Write(p []byte) (int, error) {
	return fmt.Fprintln(o.out, string(p))
}

type jsonOutput struct {
	commonOutputFormatter
	out    io.Writer
	errOut io.Writer
}

func newJSONOutput(out, errOut io.Writer) *jsonOutput {
	return &jsonOutput{out: out, errOut: errOut}
}

func (o *jsonOutput) WriteOutput() {
	if o.errorOutput != nil {
		data, _ := json.Marshal(map[string]string{"error": o.errorOutput.Error()})
		_, _ = fmt.Fprintln(o.errOut, string(data))

		return
	}

	if o.commandOutput == nil {
		return
	}

	data, err := json.MarshalIndent(o.commandOutput, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(o.errOut, "failed to marshal result: %v\n", err)

		return
	}

	_, _ = fmt.Fprintln(o.out, string(data))
}

// Write keeps stdout a valid json document so progress goes to stderr
func (o *jsonOutput) Write(p []byte) (int, error) {
	return fmt.Fprintln(o.errOut, string(p))
}

// FormatKV renders "key|value" rows as an aligned table
func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}

// FormatList renders "a|b|c" rows as aligned columns
func FormatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"

	return columnize.Format(in, columnConf)
}

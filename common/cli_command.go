package common

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type CliCommandValidator interface {
	ValidateFlags() error
}

type CliCommandExecutor interface {
	CliCommandValidator
	Execute(ctx context.Context, outputter OutputFormatter) (ICommandResult, error)
}

// GetCliRunCommand runs the executor with a context cancelled on interrupt and
// reports its result through the outputter. The process exits with 1 on failure.
func GetCliRunCommand(executor CliCommandExecutor) func(cmd *cobra.Command, _ []string) {
	return func(cmd *cobra.Command, _ []string) {
		outputter := InitializeOutputter(cmd)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		runCommand(ctx, executor, outputter)
		cancel()

		outputter.WriteOutput()

		if outputter.HasError() {
			os.Exit(1)
		}
	}
}

// GetCliPreRunCommand validates flags of the executor
func GetCliPreRunCommand(validator CliCommandValidator) func(cmd *cobra.Command, _ []string) error {
	return func(_ *cobra.Command, _ []string) error {
		return validator.ValidateFlags()
	}
}

func runCommand(ctx context.Context, executor CliCommandExecutor, outputter OutputFormatter) {
	defer func() {
		if r := recover(); r != nil {
			outputter.SetError(fmt.Errorf("%v", r))
		}
	}()

	result, err := executor.Execute(ctx, outputter)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/causaltower/internal/cli"
	perrors "github.com/matzehuels/causaltower/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(err)
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, perrors.UserMessage(err))
		}
		os.Exit(code)
	}
}

// Exit codes. Scripts can tell a bad graph or query apart from a failure.
const (
	exitFailure     = 1
	exitBadInput    = 2
	exitInterrupted = 130 // shell convention for SIGINT
)

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch perrors.GetCode(perrors.Classify(err)) {
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidGraph, perrors.ErrCodeUnknownNode,
		perrors.ErrCodeInvalidSyntax, perrors.ErrCodeInvalidMode, perrors.ErrCodeInvalidFormat,
		perrors.ErrCodeFileNotFound:
		return exitBadInput
	}
	return exitFailure
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Apply the log level before the root's own pre-run loads the config.
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

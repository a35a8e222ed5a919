package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pacefig/internal/cli"
	"github.com/matzehuels/pacefig/pkg/errors"
)

// Exit statuses.
const (
	exitOK        = 0
	exitFailure   = 1
	exitBadOption = 2
	exitInterrupt = 130 // shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	cancel()
	os.Exit(exitStatus(os.Stderr, err))
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"also log skipped PE layout rows, unreported run times and the resolved stacking policy")

	// -v lowers the level before the root's own pre-run logs anything.
	rootPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if rootPreRun == nil {
			return nil
		}
		return rootPreRun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitStatus reports err on w and maps it to a process exit status. Rejected
// options (INVALID_* codes) exit 2 so scripts can tell them from a bad log.
func exitStatus(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return exitInterrupt
	}
	msg := errors.UserMessage(err)
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	fmt.Fprintln(w, "Error:", msg)
	if strings.HasPrefix(string(errors.GetCode(err)), "INVALID_") {
		return exitBadOption
	}
	return exitFailure
}

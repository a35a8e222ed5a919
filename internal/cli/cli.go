package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pacefig/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the binary name used in help and completion scripts.
const appName = "pacefig"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives tables and result lines. Logs go to the logger's writer.
	Out io.Writer
}

// New creates a new CLI instance logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself renders a figure.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.figureCommand()
	root.Version = buildinfo.Resolved()
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetVersionTemplate(buildinfo.Template())

	// Runs before every command, after main has set the log level.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.summaryCommand())
	root.AddCommand(c.completionCommand())

	return root
}

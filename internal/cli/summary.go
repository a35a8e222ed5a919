package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pacefig/pkg/layout"
	"github.com/matzehuels/pacefig/pkg/pipeline"
)

// summaryCommand creates the command that prints parsed timing data.
func (c *CLI) summaryCommand() *cobra.Command {
	var flags figureFlags

	cmd := &cobra.Command{
		Use:   "summary <timing-file>",
		Short: "Print the component table of a timing log",
		Long: `Print the component table of a timing log without rendering.

For every component the table shows its processor range, task count and run
time as they would be drawn in the PACE figure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args[0])
			if err != nil {
				return err
			}
			return c.runSummary(cmd, opts)
		},
	}

	flags.addParseFlags(cmd)
	return cmd
}

func (c *CLI) runSummary(cmd *cobra.Command, opts pipeline.Options) error {
	logger := loggerFromContext(cmd.Context())
	opts.Logger = logger

	l, err := pipeline.NewRunner(logger).Parse(opts)
	if err != nil {
		return err
	}
	policy, err := layout.ResolvePolicy(layout.PolicyAuto, l.Components)
	if err != nil {
		return err
	}

	var processors int
	for _, comp := range l.Components {
		processors = max(processors, l.Ranges[comp].End)
	}

	printComponentTable(c.Out, l)
	warnMissingRunTimes(c.Out, l)
	printKeyValue(c.Out, "Log", l.Path)
	printKeyValue(c.Out, "Processors", strconv.Itoa(processors))
	printKeyValue(c.Out, "Stacking", policy.Name())
	return nil
}

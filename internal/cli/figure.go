package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pacefig/pkg/layout"
	"github.com/matzehuels/pacefig/pkg/pipeline"
	"github.com/matzehuels/pacefig/pkg/timing"
)

// figureFlags holds the command-line flags shared by the figure and summary
// commands. They only override config-file values when set explicitly.
type figureFlags struct {
	config     string
	components []string
	blockStart int
	blockLines int

	output   string
	format   string
	stacking string
	width    float64
	height   float64
	dpi      int
	margin   float64
	quiet    bool
}

// addParseFlags registers the flags that locate and filter the timing data.
func (f *figureFlags) addParseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.config, "config", "", "TOML config file")
	cmd.Flags().StringSliceVar(&f.components, "components", nil, "component codes to include (default all seven)")
	cmd.Flags().IntVar(&f.blockStart, "block-start", timing.DefaultBlockStart, "first line of the PE layout table")
	cmd.Flags().IntVar(&f.blockLines, "block-lines", timing.DefaultBlockLines, "number of lines in the PE layout table")
}

// addRenderFlags registers the flags that shape the figure.
func (f *figureFlags) addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", pipeline.DefaultOutput, "output file")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: png, svg, pdf (default from output extension)")
	cmd.Flags().StringVar(&f.stacking, "stacking", pipeline.DefaultStacking, "stacking policy: auto, canonical, root-pe")
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "figure width in inches")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "figure height in inches")
	cmd.Flags().IntVar(&f.dpi, "dpi", pipeline.DefaultDPI, "PNG resolution")
	cmd.Flags().Float64Var(&f.margin, "margin", layout.DefaultMargin, "headroom in seconds above the tallest column")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "do not print the component table")
}

// options loads the config file, if any, and applies explicitly set flags
// on top.
func (f *figureFlags) options(cmd *cobra.Command, input string) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		loaded, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}
	opts.Input = input

	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}
	if changed("components") {
		opts.Components = f.components
	}
	if changed("block-start") {
		opts.BlockStart = f.blockStart
	}
	if changed("block-lines") {
		opts.BlockLines = f.blockLines
	}
	if changed("output") {
		opts.Output = f.output
	}
	if changed("format") {
		opts.Format = f.format
	}
	if changed("stacking") {
		opts.Stacking = f.stacking
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("dpi") {
		opts.DPI = f.dpi
	}
	if changed("margin") {
		m := f.margin
		opts.Margin = &m
	}
	return opts, nil
}

// figureCommand creates the command that renders a PACE figure.
func (c *CLI) figureCommand() *cobra.Command {
	var flags figureFlags

	cmd := &cobra.Command{
		Use:   appName + " <timing-file>",
		Short: "Render a PACE figure from an E3SM timing log",
		Long: `Render a PACE figure from an E3SM timing log.

Each model component becomes a rectangle spanning its processor range on the
x axis and its run time on the y axis. The seven standard components are
stacked the way E3SM runs them concurrently; other component sets stack on
components that share a root PE.

The figure is written to PACE_figure.png in the working directory unless
--output is given. Flags override values from --config.`,
		Example: `  pacefig e3sm_timing.piControl
  pacefig -o pace.svg --stacking root-pe e3sm_timing.piControl
  pacefig --config pacefig.toml --dpi 200 e3sm_timing.piControl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args[0])
			if err != nil {
				return err
			}
			return c.runFigure(cmd.Context(), opts, flags.quiet)
		},
	}

	flags.addParseFlags(cmd)
	flags.addRenderFlags(cmd)
	return cmd
}

// runFigure executes the pipeline and reports the result.
func (c *CLI) runFigure(ctx context.Context, opts pipeline.Options, quiet bool) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	prog := newProgress(logger)
	result, err := pipeline.NewRunner(logger).Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated PACE figure for %d components", result.Stats.Components))

	if !quiet {
		printComponentTable(c.Out, result.Log)
	}
	warnMissingRunTimes(c.Out, result.Log)

	printSuccess(c.Out, "Wrote %s figure", result.Format)
	printFile(c.Out, result.OutputPath)
	printDetail(c.Out, "%s stacking · parse %s · layout %s · render %s",
		result.Layout.Policy,
		result.Stats.ParseTime.Round(time.Microsecond),
		result.Stats.LayoutTime.Round(time.Microsecond),
		result.Stats.RenderTime.Round(time.Microsecond))
	return nil
}

// warnMissingRunTimes flags components drawn with zero height because the
// log has no run-time line for them.
func warnMissingRunTimes(w io.Writer, l *timing.Log) {
	for _, comp := range l.Components {
		if !l.Reported[comp] {
			printWarning(w, "%s has no run time in %s; drawn with zero height", comp, l.Path)
		}
	}
}

// Package pipeline runs the parse → layout → render → write sequence that
// turns an E3SM timing log into a PACE figure.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: Extract run times and processor ranges with [timing.Parse]
//  2. Layout: Stack the components into rectangles with [layout.Compute]
//  3. Render: Draw and encode the figure with [render.Figure]
//  4. Write: Store the image at the output path
//
// The output file is only touched after the first three stages succeed, so a
// failed run never leaves a partial figure behind.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "e3sm_timing.piControl",
//	    Output: "PACE_figure.png",
//	})
//
// Options can also be loaded from a TOML file with [LoadConfig]:
//
//	output   = "figures/pace.svg"
//	stacking = "canonical"
//	width    = 12.0
//	margin   = 100.0
//
//	[colors]
//	OCN = "#1f77b4"
//
// [timing.Parse]: github.com/matzehuels/pacefig/pkg/timing.Parse
// [layout.Compute]: github.com/matzehuels/pacefig/pkg/layout.Compute
// [render.Figure]: github.com/matzehuels/pacefig/pkg/render.Figure
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/pacefig/pkg/errors"
	"github.com/matzehuels/pacefig/pkg/layout"
	"github.com/matzehuels/pacefig/pkg/render"
	"github.com/matzehuels/pacefig/pkg/timing"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutput is the figure path used when none is given.
	DefaultOutput = "PACE_figure.png"

	// DefaultFormat is used when the output extension names no known format.
	DefaultFormat = render.FormatPNG

	// DefaultStacking picks the stacking policy from the component set.
	DefaultStacking = layout.PolicyAuto

	// DefaultWidth and DefaultHeight are the figure size in inches.
	DefaultWidth  = 10.0
	DefaultHeight = 6.0

	// DefaultDPI is the PNG resolution.
	DefaultDPI = render.DefaultDPI
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. Fields with toml
// tags can be set from a config file (see [LoadConfig]).
type Options struct {
	// Input is the timing log to read.
	Input string `toml:"-"`

	// Output is the figure path. Relative paths resolve against the working
	// directory.
	Output string `toml:"output"`

	// Format is png, svg or pdf. Defaults to the output extension, else png.
	Format string `toml:"format"`

	// Stacking is the stacking policy name: auto, canonical or root-pe.
	Stacking string `toml:"stacking"`

	// Components restricts the figure to these codes. Defaults to all seven.
	Components []string `toml:"components"`

	// BlockStart and BlockLines locate the PE layout table (1-indexed).
	BlockStart int `toml:"block_start"`
	BlockLines int `toml:"block_lines"`

	// Figure size in inches and PNG resolution.
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	DPI    int     `toml:"dpi"`

	// Margin is the headroom in seconds above the tallest column. Nil means
	// layout.DefaultMargin.
	Margin *float64 `toml:"margin"`

	// Colors overrides palette entries, keyed by component code.
	Colors map[string]string `toml:"colors"`

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-"`

	components []timing.Component
	palette    render.Palette
	validated  bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Log is the parsed timing log.
	Log *timing.Log

	// Layout is the computed figure geometry.
	Layout layout.Layout

	// Image is the encoded figure.
	Image []byte

	// Format is the encoding of Image.
	Format string

	// OutputPath is the absolute path the figure was written to.
	OutputPath string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components int
	ImageBytes int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
	WriteTime  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults. It is
// idempotent: calling it multiple times has the same effect as calling it
// once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the input path, component list and block location.
func (o *Options) ValidateForParse() error {
	if err := errors.ValidatePath(o.Input); err != nil {
		return err
	}
	if o.BlockStart < 0 || o.BlockLines < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "block_start and block_lines must not be negative")
	}

	o.components = nil
	for _, code := range o.Components {
		c, ok := timing.ParseComponent(code)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown component %q", code)
		}
		o.components = append(o.components, c)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForLayout sets the stacking default and checks the policy and
// margin.
func (o *Options) ValidateForLayout() error {
	if o.Stacking == "" {
		o.Stacking = DefaultStacking
	}
	if err := layout.ValidatePolicy(o.Stacking); err != nil {
		return err
	}
	if o.Margin != nil && *o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin must not be negative: %g", *o.Margin)
	}
	return nil
}

// ValidateForRender sets output defaults and checks the output path, format,
// size and colors.
func (o *Options) ValidateForRender() error {
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if err := errors.ValidatePath(o.Output); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = render.FormatFromPath(o.Output)
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := render.ValidateFormat(o.Format); err != nil {
		return err
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Width < 0 || o.Height < 0 || o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid figure size %gx%g in at %d dpi", o.Width, o.Height, o.DPI)
	}

	palette, err := render.DefaultPalette().With(o.Colors)
	if err != nil {
		return err
	}
	o.palette = palette
	return nil
}

// ParseOptions returns the parser options derived from o.
func (o *Options) ParseOptions() timing.Options {
	return timing.Options{
		Components: o.components,
		BlockStart: o.BlockStart,
		BlockLines: o.BlockLines,
		Logger:     o.Logger,
	}
}

// LayoutOptions returns the layout options derived from o.
func (o *Options) LayoutOptions() []layout.Option {
	if o.Margin == nil {
		return nil
	}
	return []layout.Option{layout.WithMargin(*o.Margin)}
}

// RenderOptions returns the renderer options derived from o.
func (o *Options) RenderOptions() []render.Option {
	opts := []render.Option{
		render.WithFormat(o.Format),
		render.WithSize(vg.Length(o.Width)*vg.Inch, vg.Length(o.Height)*vg.Inch),
		render.WithDPI(o.DPI),
	}
	if o.palette != nil {
		opts = append(opts, render.WithPalette(o.palette))
	}
	return opts
}

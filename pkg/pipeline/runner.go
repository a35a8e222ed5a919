package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pacefig/pkg/errors"
	"github.com/matzehuels/pacefig/pkg/layout"
	"github.com/matzehuels/pacefig/pkg/observability"
	"github.com/matzehuels/pacefig/pkg/render"
	"github.com/matzehuels/pacefig/pkg/timing"
)

// Runner executes the pipeline. It holds no per-run state, so one Runner can
// serve several runs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete parse → layout → render → write pipeline. The
// context is checked between stages; on cancellation ctx.Err() is returned
// and nothing is written.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Format: opts.Format}
	hooks := observability.Pipeline()

	// Stage 1: Parse
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks.OnParseStart(ctx, opts.Input)
	parseStart := time.Now()
	l, err := r.Parse(opts)
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Input, 0, result.Stats.ParseTime, err)
		return nil, err
	}
	result.Log = l
	result.Stats.Components = len(l.Components)
	hooks.OnParseComplete(ctx, opts.Input, len(l.Components), result.Stats.ParseTime, nil)

	r.Logger.Info("parsed timing log",
		"path", l.Path,
		"components", len(l.Components),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks.OnLayoutStart(ctx, opts.Stacking, len(l.Components))
	layoutStart := time.Now()
	lay, err := r.ComputeLayout(l, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, lay.Policy, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}
	result.Layout = lay

	r.Logger.Info("computed layout",
		"policy", lay.Policy,
		"rects", len(lay.Rects),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks.OnRenderStart(ctx, opts.Format)
	renderStart := time.Now()
	img, err := r.Render(lay, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Format, len(img), result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Image = img
	result.Stats.ImageBytes = len(img)

	r.Logger.Info("rendered figure",
		"format", opts.Format,
		"bytes", len(img),
		"duration", result.Stats.RenderTime)

	// Stage 4: Write
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	writeStart := time.Now()
	path, err := r.Write(img, opts)
	result.Stats.WriteTime = time.Since(writeStart)
	hooks.OnWriteComplete(ctx, path, result.Stats.WriteTime, err)
	if err != nil {
		return nil, err
	}
	result.OutputPath = path

	r.Logger.Info("wrote figure", "path", path, "duration", result.Stats.WriteTime)
	return result, nil
}

// Parse reads the timing log named by opts.Input.
func (r *Runner) Parse(opts Options) (*timing.Log, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	return timing.Parse(opts.Input, opts.ParseOptions())
}

// ComputeLayout stacks l with the policy named by opts.Stacking.
func (r *Runner) ComputeLayout(l *timing.Log, opts Options) (layout.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, err
	}
	policy, err := layout.ResolvePolicy(opts.Stacking, l.Components)
	if err != nil {
		return layout.Layout{}, err
	}
	r.Logger.Debug("resolved stacking policy", "requested", opts.Stacking, "policy", policy.Name())
	return layout.Compute(l, policy, opts.LayoutOptions()...)
}

// Render draws lay in the format and size given by opts.
func (r *Runner) Render(lay layout.Layout, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return render.Figure(lay, opts.RenderOptions()...)
}

// Write stores img at opts.Output, replacing any existing file, and returns
// the absolute path written.
func (r *Runner) Write(img []byte, opts Options) (string, error) {
	if err := opts.ValidateForRender(); err != nil {
		return "", err
	}
	path, err := filepath.Abs(opts.Output)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeOutputWrite, err, "resolve output path %s", opts.Output)
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeOutputWrite, err, "write figure to %s", path)
	}
	return path, nil
}

package layout

import (
	"slices"

	"github.com/matzehuels/pacefig/pkg/errors"
	"github.com/matzehuels/pacefig/pkg/timing"
)

// DefaultMargin is the headroom in seconds added above the tallest column.
const DefaultMargin = 200.0

// Layout is the complete geometry of a figure.
type Layout struct {
	// Policy is the name of the stacking policy that produced Rects.
	Policy string

	// Rects holds one rectangle per component, in draw order.
	Rects []Rect

	// XTicks are processor indices: every range start, then every range end,
	// deduplicated in first-seen order.
	XTicks []float64

	// YTicks are the policy's tick positions in seconds, ascending.
	YTicks []float64

	// XMax and YMax are the upper axis limits; both axes start at 0.
	XMax, YMax float64
}

// Rect returns the rectangle of component c.
func (l Layout) Rect(c timing.Component) (Rect, bool) {
	i := slices.IndexFunc(l.Rects, func(r Rect) bool { return r.Component == c })
	if i < 0 {
		return Rect{}, false
	}
	return l.Rects[i], true
}

// Option configures Compute.
type Option func(*config)

type config struct {
	margin float64
}

// WithMargin sets the headroom above the tallest column (default 200s).
func WithMargin(m float64) Option {
	return func(c *config) { c.margin = m }
}

// Compute stacks l's components with p and derives ticks and axis limits.
func Compute(l *timing.Log, p StackingPolicy, opts ...Option) (Layout, error) {
	cfg := config{margin: DefaultMargin}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.margin < 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "margin must not be negative: %g", cfg.margin)
	}
	if p == nil {
		return Layout{}, errors.New(errors.ErrCodeInvalidPolicy, "no stacking policy")
	}

	s, err := p.Stack(l)
	if err != nil {
		return Layout{}, err
	}

	out := Layout{
		Policy: p.Name(),
		Rects:  s.Rects,
		XTicks: xTicks(l),
		YTicks: s.YTicks,
	}

	var top float64
	for _, r := range s.Rects {
		out.XMax = max(out.XMax, r.Right)
		top = max(top, r.Top())
	}
	// An empty x range cannot be drawn.
	if out.XMax <= 0 {
		out.XMax = 1
	}
	out.YMax = top + cfg.margin
	if out.YMax <= 0 {
		out.YMax = 1
	}
	return out, nil
}

// xTicks lists range starts followed by range ends in component order,
// keeping the first occurrence of each value.
func xTicks(l *timing.Log) []float64 {
	seen := make(map[float64]bool, 2*len(l.Components))
	var ticks []float64
	add := func(v float64) {
		if !seen[v] {
			seen[v] = true
			ticks = append(ticks, v)
		}
	}
	for _, c := range l.Components {
		add(float64(l.Ranges[c].Start))
	}
	for _, c := range l.Components {
		add(float64(l.Ranges[c].End))
	}
	return ticks
}

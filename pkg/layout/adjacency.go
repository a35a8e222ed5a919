package layout

import "github.com/matzehuels/pacefig/pkg/timing"

// RootPEAdjacency stacks a component on the previous one when both start on
// the same root PE, and resets to 0 otherwise. Components are visited in the
// log's order, so a run of same-root components forms a single column.
type RootPEAdjacency struct{}

// Name implements StackingPolicy.
func (RootPEAdjacency) Name() string { return PolicyRootPE }

// Stack implements StackingPolicy.
func (RootPEAdjacency) Stack(l *timing.Log) (Stacking, error) {
	rects := make([]Rect, 0, len(l.Components))
	yticks := []float64{0}

	for i, c := range l.Components {
		rng := l.Ranges[c]
		bottom := 0.0
		if i > 0 {
			prev := rects[i-1]
			if l.Ranges[prev.Component].Start == rng.Start {
				bottom = prev.Top()
			}
		}
		r := newRect(c, rng, bottom, l.RunTime[c])
		rects = append(rects, r)
		yticks = append(yticks, r.Bottom, r.Top())
	}

	return Stacking{Rects: rects, YTicks: sortedUnique(yticks)}, nil
}

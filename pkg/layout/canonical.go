package layout

import (
	"github.com/matzehuels/pacefig/pkg/errors"
	"github.com/matzehuels/pacefig/pkg/timing"
)

// baseComponents run concurrently from t=0 in the canonical layout.
var baseComponents = []timing.Component{timing.ICE, timing.LND, timing.OCN, timing.WAV}

// CanonicalSevenComponent stacks the seven E3SM components by their known
// dependency order:
//
//	ICE, LND, OCN, WAV  at 0
//	ROF                 on top of LND
//	ATM                 at max(LND+ROF, ICE)
//	CPL                 on top of ATM
type CanonicalSevenComponent struct{}

// Name implements StackingPolicy.
func (CanonicalSevenComponent) Name() string { return PolicyCanonical }

// Stack implements StackingPolicy. It fails unless l holds all seven
// components.
func (CanonicalSevenComponent) Stack(l *timing.Log) (Stacking, error) {
	for _, c := range timing.Components {
		if !l.Has(c) {
			return Stacking{}, errors.New(errors.ErrCodeInvalidInput,
				"canonical stacking needs all of CPL, ATM, ICE, LND, OCN, WAV, ROF; %s is missing", c)
		}
	}

	t := l.RunTime
	rng := l.Ranges

	rects := make([]Rect, 0, len(timing.Components))
	for _, c := range baseComponents {
		rects = append(rects, newRect(c, rng[c], 0, t[c]))
	}

	baseROF := t[timing.LND]
	rects = append(rects, newRect(timing.ROF, rng[timing.ROF], baseROF, t[timing.ROF]))

	baseATM := max(t[timing.LND]+t[timing.ROF], t[timing.ICE])
	rects = append(rects, newRect(timing.ATM, rng[timing.ATM], baseATM, t[timing.ATM]))

	baseCPL := baseATM + t[timing.ATM]
	rects = append(rects, newRect(timing.CPL, rng[timing.CPL], baseCPL, t[timing.CPL]))

	yticks := sortedUnique([]float64{
		0,
		baseATM,
		baseCPL,
		t[timing.OCN],
		t[timing.WAV],
		baseCPL + t[timing.CPL],
	})

	return Stacking{Rects: rects, YTicks: yticks}, nil
}

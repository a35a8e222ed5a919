package layout

import (
	"slices"

	"github.com/matzehuels/pacefig/pkg/errors"
	"github.com/matzehuels/pacefig/pkg/timing"
)

// Policy names accepted by [ResolvePolicy].
const (
	PolicyAuto      = "auto"
	PolicyCanonical = "canonical"
	PolicyRootPE    = "root-pe"
)

// ValidPolicies is the set of accepted policy names.
var ValidPolicies = map[string]bool{
	PolicyAuto:      true,
	PolicyCanonical: true,
	PolicyRootPE:    true,
}

// Stacking is the result of applying a policy: rectangles in draw order and
// the y tick positions that make the stacking readable.
type Stacking struct {
	Rects  []Rect
	YTicks []float64
}

// StackingPolicy decides the vertical placement of each component.
type StackingPolicy interface {
	// Name returns the policy name as accepted by ResolvePolicy.
	Name() string
	// Stack places every component of l.
	Stack(l *timing.Log) (Stacking, error)
}

// ValidatePolicy checks that name is a known policy.
func ValidatePolicy(name string) error {
	if !ValidPolicies[name] {
		return errors.New(errors.ErrCodeInvalidPolicy, "invalid stacking policy: %q (must be one of: auto, canonical, root-pe)", name)
	}
	return nil
}

// ResolvePolicy returns the policy called name. For [PolicyAuto] the
// canonical table wins when comps is exactly the seven known components.
func ResolvePolicy(name string, comps []timing.Component) (StackingPolicy, error) {
	if err := ValidatePolicy(name); err != nil {
		return nil, err
	}
	switch name {
	case PolicyCanonical:
		return CanonicalSevenComponent{}, nil
	case PolicyRootPE:
		return RootPEAdjacency{}, nil
	}
	if timing.IsCanonical(comps) {
		return CanonicalSevenComponent{}, nil
	}
	return RootPEAdjacency{}, nil
}

// sortedUnique sorts vs and removes duplicates in place.
func sortedUnique(vs []float64) []float64 {
	slices.Sort(vs)
	return slices.Compact(vs)
}

package timing

import (
	"fmt"
	"slices"
	"strings"
)

// Component is the short uppercase code of a coupled model component.
type Component string

// Known components.
const (
	CPL Component = "CPL"
	ATM Component = "ATM"
	ICE Component = "ICE"
	LND Component = "LND"
	OCN Component = "OCN"
	WAV Component = "WAV"
	ROF Component = "ROF"
)

// Components lists every known component in declared order. Parsing, tick
// derivation and the root-PE stacking rule all follow this order.
var Components = []Component{CPL, ATM, ICE, LND, OCN, WAV, ROF}

var componentNames = map[Component]string{
	CPL: "coupler",
	ATM: "atmosphere",
	ICE: "ice",
	LND: "land",
	OCN: "ocean",
	WAV: "wave",
	ROF: "river-routing",
}

// Name returns the human-readable name, e.g. "river-routing" for ROF.
func (c Component) Name() string {
	if n, ok := componentNames[c]; ok {
		return n
	}
	return strings.ToLower(string(c))
}

// Known reports whether c is one of [Components].
func (c Component) Known() bool {
	_, ok := componentNames[c]
	return ok
}

// ParseComponent converts a code in any case ("rof", "ROF") to a Component.
func ParseComponent(s string) (Component, bool) {
	c := Component(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Known()
}

// IsCanonical reports whether comps is exactly the set of known components,
// in any order and without duplicates.
func IsCanonical(comps []Component) bool {
	if len(comps) != len(Components) {
		return false
	}
	seen := make(map[Component]bool, len(comps))
	for _, c := range comps {
		if !c.Known() || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// ProcessorRange is the half-open interval of PEs [Start, End) a component
// ran on.
type ProcessorRange struct {
	Start int
	End   int
}

// Tasks returns the number of PEs in the range.
func (r ProcessorRange) Tasks() int { return r.End - r.Start }

// String formats the range as "start-end".
func (r ProcessorRange) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// Log holds what was extracted from one timing file.
type Log struct {
	// Path is the file the log was read from.
	Path string

	// Components is the ordered list of components that were extracted.
	Components []Component

	// RunTime maps each component to its run time in seconds. Components that
	// did not report a run time map to 0.
	RunTime map[Component]float64

	// Reported is true for components whose run time appeared in the log,
	// which tells a reported 0.0 apart from a missing line.
	Reported map[Component]bool

	// Ranges maps each component to its processor range.
	Ranges map[Component]ProcessorRange
}

// Has reports whether c was extracted.
func (l *Log) Has(c Component) bool {
	return slices.Contains(l.Components, c)
}

// Package layout turns parsed timing data into chart geometry.
//
// # Overview
//
// Every component becomes one [Rect]. Its horizontal extent is its processor
// range [Start, End); its height is its run time in seconds. Where a
// rectangle sits vertically is decided by a [StackingPolicy]:
//
//   - [CanonicalSevenComponent] encodes the known E3SM execution order. Ice,
//     land, ocean and wave run concurrently from t=0; river routing waits for
//     land; the atmosphere waits for the slower of land+river and ice; the
//     coupler runs last.
//
//   - [RootPEAdjacency] is the generic rule. Walking components in order, a
//     component that starts on the same root PE as the previous one is drawn
//     on top of it; otherwise it starts at t=0.
//
// [ResolvePolicy] maps a policy name to an implementation. The default,
// "auto", uses the canonical table whenever the component set is exactly the
// seven known components and falls back to root-PE adjacency otherwise.
//
// # Building a Layout
//
//	policy, err := layout.ResolvePolicy(layout.PolicyAuto, log.Components)
//	if err != nil {
//	    return err
//	}
//	l, err := layout.Compute(log, policy, layout.WithMargin(200))
//
// The returned [Layout] carries rectangles in draw order, x and y tick
// positions, and the axis limits the renderer should use.
package layout

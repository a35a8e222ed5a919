// Package render draws PACE figures.
//
// # Overview
//
// [Figure] takes a computed [layout.Layout] and produces an encoded image
// using gonum/plot:
//
//   - One filled rectangle per component, colored from a [Palette]
//   - The component code, bold and centered on its rectangle
//   - Processor indices on the x axis (labels rotated 45°), seconds on the y
//     axis, both using the layout's tick positions
//   - A light-gray plotting area with only the left and bottom axes drawn
//
// Usage:
//
//	img, err := render.Figure(l,
//	    render.WithFormat(render.FormatPNG),
//	    render.WithSize(10*vg.Inch, 6*vg.Inch),
//	)
//
// # Formats
//
// PNG is the default and honors [WithDPI]. SVG and PDF are produced by the
// corresponding gonum/plot backends and ignore the DPI setting.
//
// Rendering is deterministic for PNG and SVG: the same layout and options
// always give the same bytes.
//
// [layout.Layout]: github.com/matzehuels/pacefig/pkg/layout.Layout
package render

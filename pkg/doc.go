// Package pkg provides the libraries behind pacefig, which draws PACE
// figures from E3SM timing logs.
//
// # Overview
//
// A PACE figure shows how a coupled climate simulation spent its processors:
// every model component is a rectangle spanning the processor indices it ran
// on and the seconds it ran for. The pkg directory is organized by stage:
//
//  1. [timing] - Parse run times and processor ranges from a timing log
//  2. [layout] - Stack components into rectangles and derive axis ticks
//  3. [render] - Draw and encode the figure with gonum/plot
//  4. [pipeline] - Orchestration (parse → layout → render → write)
//
// Supporting packages: [errors] (coded errors), [observability] (stage
// hooks) and [buildinfo] (version information).
//
// # Architecture
//
//	e3sm_timing.<case>
//	         ↓
//	    [timing] package (Log: run time + processor range per component)
//	         ↓
//	    [layout] package (StackingPolicy → Rects, ticks, axis limits)
//	         ↓
//	    [render] package (PNG/SVG/PDF bytes)
//	         ↓
//	    PACE_figure.png
//
// # Quick Start
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input: "e3sm_timing.piControl",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println("wrote", result.OutputPath)
//
// [timing]: github.com/matzehuels/pacefig/pkg/timing
// [layout]: github.com/matzehuels/pacefig/pkg/layout
// [render]: github.com/matzehuels/pacefig/pkg/render
// [pipeline]: github.com/matzehuels/pacefig/pkg/pipeline
// [errors]: github.com/matzehuels/pacefig/pkg/errors
// [observability]: github.com/matzehuels/pacefig/pkg/observability
// [buildinfo]: github.com/matzehuels/pacefig/pkg/buildinfo
package pkg

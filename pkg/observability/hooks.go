// Package observability provides hooks for instrumenting pipeline runs.
//
// Consumers register hooks at startup to receive an event before and after
// each pipeline stage. The default hooks do nothing, so the pipeline carries
// no dependency on a metrics or tracing backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// The pipeline emits events around each stage:
//
//	observability.Pipeline().OnParseStart(ctx, path)
//	// ... parse ...
//	observability.Pipeline().OnParseComplete(ctx, path, components, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the figure pipeline.
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, path string)
	OnParseComplete(ctx context.Context, path string, components int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, policy string, components int)
	OnLayoutComplete(ctx context.Context, policy string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)

	// Write events
	OnWriteComplete(ctx context.Context, path string, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnWriteComplete(context.Context, string, time.Duration, error)       {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the no-op hooks. This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}

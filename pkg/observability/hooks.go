// Package observability provides hooks for metrics, tracing, and logging.
//
// Library code emits events through the registered hooks; by default they
// are no-ops. Register hooks once at startup, before running a pipeline:
//
//	observability.SetPipelineHooks(&myPipelineHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
//
// The pipeline emits, for one run:
//
//	observability.Pipeline().OnParseComplete(ctx, "report", records, took, err)
//	observability.Pipeline().OnBuildComplete(ctx, alignments, edges, took, err)
//	observability.Pipeline().OnSolveComplete(ctx, sweeps, converged, took, err)
//	observability.Pipeline().OnRenderComplete(ctx, "path", "svg", size, took, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the chaining pipeline.
type PipelineHooks interface {
	// OnParseComplete reports a parsed input. input is "report" or "graph";
	// count is records or fragments read.
	OnParseComplete(ctx context.Context, input string, count int, duration time.Duration, err error)

	// OnBuildComplete reports the successor build.
	OnBuildComplete(ctx context.Context, alignments, edges int, duration time.Duration, err error)

	// OnSolveStart and OnSolveComplete bracket the relaxation.
	OnSolveStart(ctx context.Context, alignments int)
	OnSolveComplete(ctx context.Context, sweeps int, converged bool, duration time.Duration, err error)

	// OnRenderComplete reports one rendered artifact.
	OnRenderComplete(ctx context.Context, kind, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is "result"
// or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnSolveStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnSolveComplete(context.Context, int, bool, time.Duration, error)  {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}

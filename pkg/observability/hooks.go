// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through small hook interfaces; the application
// registers implementations at startup. Nothing here depends on a specific
// metrics backend.
//
// # Hook families
//
//   - [EngineHooks]: commands, pipeline passes and recovered problems of a
//     diagram engine. Engine calls are synchronous and carry no context.
//   - [PipelineHooks]: batch layout and render runs.
//   - [CacheHooks]: layout cache hits, misses and writes.
//   - [ServerHooks]: inbound HTTP requests of the diagram API.
//
// # Usage
//
//	func main() {
//	    observability.SetEngineHooks(observability.NewLogHooks(logger))
//	    observability.SetCacheHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cache().OnCacheHit(ctx, "layout")
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from a diagram engine.
type EngineHooks interface {
	// OnCommand records a handled command and its outcome.
	OnCommand(kind string, duration time.Duration, err error)

	// OnPipeline records one reconcile → merge pass.
	OnPipeline(policy string, nodeCount, hiddenCount int, duration time.Duration)

	// OnWarning records a problem the engine recovered from.
	OnWarning(err error)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from batch layout and render runs.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, preset string, nodeCount int)
	OnLayoutComplete(ctx context.Context, preset string, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnCommand(string, time.Duration, error)     {}
func (NoopEngineHooks) OnPipeline(string, int, int, time.Duration) {}
func (NoopEngineHooks) OnWarning(error)                            {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook family. Loads are lock-free so engines
// can fetch hooks on every command.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) set(h T) {
	if any(h) != nil {
		s.p.Store(&h)
	}
}

func (s *slot[T]) get() T {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return s.noop
}

var (
	engineSlot   = slot[EngineHooks]{noop: NoopEngineHooks{}}
	pipelineSlot = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheSlot    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	serverSlot   = slot[ServerHooks]{noop: NoopServerHooks{}}
)

// SetEngineHooks registers engine hooks. Engines created afterwards
// without explicit hooks use them. Nil is ignored, as for every setter.
func SetEngineHooks(h EngineHooks) { engineSlot.set(h) }

func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }
func SetCacheHooks(h CacheHooks)       { cacheSlot.set(h) }
func SetServerHooks(h ServerHooks)     { serverSlot.set(h) }

// Engine returns the registered engine hooks.
func Engine() EngineHooks { return engineSlot.get() }

func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func Server() ServerHooks     { return serverSlot.get() }

// Reset restores the no-op hooks. Tests use it to undo registrations.
func Reset() {
	engineSlot.p.Store(nil)
	pipelineSlot.p.Store(nil)
	cacheSlot.p.Store(nil)
	serverSlot.p.Store(nil)
}

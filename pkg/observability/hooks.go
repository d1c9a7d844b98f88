// Package observability lets callers watch conversions without the
// libraries depending on a metrics or tracing backend.
//
// Three hook interfaces cover the three places figslides does work:
// [PipelineHooks] for planning and rendering, [CacheHooks] for plan and
// artifact lookups, and [HTTPHooks] for the server. Until something is
// registered every call lands on a no-op.
//
// Hooks are registered once at startup:
//
//	hooks := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//
// and fetched at the call site:
//
//	observability.Pipeline().OnConvertStart(ctx, doc.FileName, len(doc.Slides))
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PlanStats summarizes a planned deck for hooks.
type PlanStats struct {
	Slides  int
	Placed  int
	Skipped int
}

// PipelineHooks receives events from the conversion pipeline.
type PipelineHooks interface {
	// OnConvertStart and OnConvertComplete bracket one conversion request.
	OnConvertStart(ctx context.Context, fileName string, slides int)
	OnConvertComplete(ctx context.Context, fileName string, duration time.Duration, err error)

	// OnPlanComplete fires after planning, including cache hits. err is set
	// when the document could not be planned at all.
	OnPlanComplete(ctx context.Context, stats PlanStats, duration time.Duration, err error)

	// OnLayerSkipped fires once per layer that produced no shape.
	OnLayerSkipped(ctx context.Context, slide, layer, reason string)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is "plan" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet reports a write of size bytes.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server. route is the matched
// route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)

	// OnResponse fires after the handler returns with the status and body
	// size actually written.
	OnResponse(ctx context.Context, method, route string, statusCode, bytes int, duration time.Duration)

	// OnError fires before a coded error is written to the client.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Hooks
// =============================================================================

// NoopPipelineHooks ignores every event. Embed it to implement only the
// events you care about.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnConvertStart(context.Context, string, int)                      {}
func (NoopPipelineHooks) OnConvertComplete(context.Context, string, time.Duration, error)  {}
func (NoopPipelineHooks) OnPlanComplete(context.Context, PlanStats, time.Duration, error)  {}
func (NoopPipelineHooks) OnLayerSkipped(context.Context, string, string, string)           {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                           {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                      {}

// =============================================================================
// Registry
// =============================================================================

// registry is an immutable snapshot of the registered hooks. Setters copy
// the current snapshot and swap in the new one.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var defaults = registry{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset puts the no-op hooks back. Tests that register hooks defer it.
func Reset() {
	r := defaults
	current.Store(&r)
}

package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, errors at error
// level. It implements all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log under the "obs" prefix.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) OnConvertStart(_ context.Context, fileName string, slides int) {
	h.logger.Debug("convert start", "file", fileName, "slides", slides)
}

func (h *LogHooks) OnConvertComplete(_ context.Context, fileName string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("convert failed", "file", fileName, "duration", d, "err", err)
		return
	}
	h.logger.Debug("convert complete", "file", fileName, "duration", d)
}

func (h *LogHooks) OnPlanComplete(_ context.Context, st PlanStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("plan failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug("plan complete", "slides", st.Slides, "placed", st.Placed, "skipped", st.Skipped, "duration", d)
}

func (h *LogHooks) OnLayerSkipped(_ context.Context, slide, layer, reason string) {
	h.logger.Debug("layer skipped", "slide", slide, "layer", layer, "reason", reason)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status, bytes int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "bytes", bytes, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, route string, err error) {
	h.logger.Warn("request error", "method", method, "route", route, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

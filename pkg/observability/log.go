package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing to a charm logger.
// Routine events go to debug; recovered engine problems go to warn.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnCommand(kind string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("command rejected", "kind", kind, "err", err)
		return
	}
	h.Logger.Debug("command", "kind", kind, "took", d)
}

func (h *LogHooks) OnPipeline(policy string, nodes, hidden int, d time.Duration) {
	h.Logger.Debug("layout pass", "policy", policy, "nodes", nodes, "hidden", hidden, "took", d)
}

func (h *LogHooks) OnWarning(err error) {
	h.Logger.Warn("recovered", "err", err)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, preset string, nodes int) {
	h.Logger.Debug("layout start", "preset", preset, "nodes", nodes)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, preset string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("layout failed", "preset", preset, "err", err)
		return
	}
	h.Logger.Debug("layout done", "preset", preset, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.Logger.Debug("render done", "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "took", d)
}

var (
	_ EngineHooks   = (*LogHooks)(nil)
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)

package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log lines.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnGestureStart(kind, id string) {
	h.logger.Debug("gesture started", "kind", kind, "instance", id)
}

func (h *LogHooks) OnGestureBlocked(kind, id string) {
	h.logger.Debug("gesture blocked", "kind", kind, "instance", id)
}

func (h *LogHooks) OnGestureEnd(kind, id, outcome string, pushed int, d time.Duration) {
	h.logger.Debug("gesture ended", "kind", kind, "instance", id, "outcome", outcome,
		"pushed", pushed, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnLoad(_ context.Context, ws string, widgets int, migrated bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout load failed", "workspace", ws, "err", err)
		return
	}
	h.logger.Debug("layout loaded", "workspace", ws, "widgets", widgets, "migrated", migrated,
		"duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnSave(_ context.Context, ws string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout save failed", "workspace", ws, "err", err)
		return
	}
	h.logger.Debug("layout saved", "workspace", ws, "bytes", size, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path,
		"status", status, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ GestureHooks = (*LogHooks)(nil)
	_ StoreHooks   = (*LogHooks)(nil)
	_ HTTPHooks    = (*LogHooks)(nil)
)

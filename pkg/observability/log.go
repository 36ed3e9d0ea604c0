package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event at debug level on a charmbracelet logger.
// It implements LayoutHooks, CacheHooks, and ServerHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to the default logger
// when logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetLayoutHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, cards, columns int) {
	h.Logger.Debug("layout start", "cards", cards, "columns", columns)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, columns, rows int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("layout failed", "columns", columns, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("layout complete", "columns", columns, "rows", rows, "duration", d)
}

func (h *LogHooks) OnCardSkipped(_ context.Context, id, reason string) {
	h.Logger.Debug("card skipped", "id", id, "reason", reason)
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

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) OnRateLimited(_ context.Context, remoteAddr string) {
	h.Logger.Debug("rate limited", "remote", remoteAddr)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ ServerHooks = (*LogHooks)(nil)
)

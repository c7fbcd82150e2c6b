package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wireframe/pkg/observability"
)

// logHooks reports export, cache and outbound HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

// installHooks routes every observability event through logger.
func installHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetExportHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnExportStart(_ context.Context, project string, entries int) {
	h.logger.Debug("export started", "project", project, "previewed", entries)
}

func (h logHooks) OnExportComplete(_ context.Context, project string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "project", project, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("export complete", "project", project, "bytes", size, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

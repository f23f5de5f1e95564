package server

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"webdesk/pkg/desktop"
	"webdesk/pkg/kv"
	"webdesk/pkg/logging"
	"webdesk/pkg/metrics"
	"webdesk/pkg/router"
	"webdesk/pkg/vfs"
)

// HandlerConfig wires the HTTP surface.
type HandlerConfig struct {
	Hub   *desktop.Hub
	Trees desktop.TreeSource
	KV    kv.Store
	// StaticDir holds the browser renderer. Empty disables static serving.
	StaticDir string
	// RequestTimeout bounds each request's context. Zero means no bound.
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// NewHandler returns the router serving health checks, metrics, the JSON
// API and the static renderer.
func NewHandler(cfg HandlerConfig) http.Handler {
	logger := logging.OrNop(cfg.Logger)

	stack := []router.Middleware{
		router.RecoveryMiddleware(logger),
		router.RequestIDMiddleware(logger),
		router.LoggingMiddleware(logger),
		router.MetricsMiddleware(),
		router.CORSMiddleware(),
	}
	if cfg.RequestTimeout > 0 {
		stack = append(stack, router.TimeoutMiddleware(cfg.RequestTimeout))
	}

	r := router.New()
	r.Use(router.Chain(stack...))

	r.GET("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.GET("/ready", func(w http.ResponseWriter, _ *http.Request) {
		status := cfg.Trees.Current().Status()
		code := http.StatusOK
		if status != vfs.StatusReady {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]any{
			"status":   status.String(),
			"desktops": cfg.Hub.Len(),
		})
	})
	r.AddRoute(http.MethodGet, "/metrics", metrics.Handler())

	NewAPI(cfg.Hub, cfg.Trees, cfg.KV, logger).Register(r)

	var static http.Handler
	if cfg.StaticDir != "" {
		static = NewStaticFileHandler(cfg.StaticDir)
	}
	r.SetNotFoundHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if static == nil || strings.HasPrefix(req.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		static.ServeHTTP(w, req)
	}))
	r.SetMethodNotAllowedHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}))

	return r
}

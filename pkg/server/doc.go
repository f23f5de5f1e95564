// Package server exposes desktops over HTTP.
//
// NewHandler builds the full surface: health and readiness probes,
// Prometheus metrics, the JSON API under /api/v1 and the static browser
// renderer as a fallback for every other GET. Server runs a handler with
// optional TLS and shuts down gracefully when its context is cancelled:
//
//	h := server.NewHandler(server.HandlerConfig{Hub: hub, Trees: provider, KV: store})
//	srv, err := server.New(server.Config{Addr: ":8080", Handler: h})
//	if err != nil {
//		return err
//	}
//	return srv.Serve(ctx)
package server

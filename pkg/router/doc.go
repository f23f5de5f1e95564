// Package router provides an HTTP router with pattern matching,
// middleware support, and URL parameter extraction.
//
// The router supports the following patterns:
//   - Exact match: /health
//   - Named parameters: /api/v1/desktops/:id
//   - Nested parameters: /api/v1/desktops/:id/windows/:wid/terminal
//   - Wildcard matching: /static/*
//
// Middleware sees the request after routing, so Pattern(r) names the
// matched route.
//
//	r := router.New()
//	r.Use(router.RequestIDMiddleware(logger), router.LoggingMiddleware(logger))
//	r.GET("/api/v1/desktops/:id", getDesktop)
//	http.ListenAndServe(":8080", r)
package router

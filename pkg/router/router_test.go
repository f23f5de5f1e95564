package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"webdesk/pkg/logging"
)

func ok(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouter_ExactMatch(t *testing.T) {
	r := New()
	r.GET("/health", ok("healthy"))

	w := serve(r, http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "healthy" {
		t.Errorf("expected body 'healthy', got '%s'", w.Body.String())
	}

	if w := serve(r, http.MethodGet, "/health/extra"); w.Code != http.StatusNotFound {
		t.Errorf("expected status %d for a longer path, got %d", http.StatusNotFound, w.Code)
	}
}

func TestRouter_NotFoundVersusNotAllowed(t *testing.T) {
	r := New()
	r.GET("/api/v1/kv/:key", ok("get"))
	r.PUT("/api/v1/kv/:key", ok("put"))

	w := serve(r, http.MethodPost, "/api/v1/kv/theme")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
	if got := w.Header().Get("Allow"); got != "GET, PUT" {
		t.Errorf("expected Allow 'GET, PUT', got '%s'", got)
	}

	if w := serve(r, http.MethodPost, "/elsewhere"); w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestRouter_Parameters(t *testing.T) {
	r := New()
	var got Params
	r.GET("/api/v1/desktops/:id/windows/:wid/terminal", func(w http.ResponseWriter, req *http.Request) {
		got, _ = ParamsFromContext(req.Context())
		if Pattern(req) != "/api/v1/desktops/:id/windows/:wid/terminal" {
			t.Errorf("unexpected pattern %q", Pattern(req))
		}
	})

	w := serve(r, http.MethodGet, "/api/v1/desktops/d-1/windows/window-3/terminal")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got.Get("id") != "d-1" || got.Get("wid") != "window-3" {
		t.Errorf("unexpected params %v", got)
	}
}

func TestRouter_PatternIsLiteral(t *testing.T) {
	r := New()
	r.GET("/files/a.txt", ok("file"))

	if w := serve(r, http.MethodGet, "/files/abtxt"); w.Code != http.StatusNotFound {
		t.Errorf("dot must not match any character, got %d", w.Code)
	}
}

func TestRouter_Wildcard(t *testing.T) {
	r := New()
	var rest string
	r.GET("/static/*", func(w http.ResponseWriter, req *http.Request) {
		rest = Param(req, "wildcard")
	})

	tests := []struct {
		path string
		want string
	}{
		{"/static/css/app.css", "/css/app.css"},
		{"/static/", "/"},
		{"/static", ""},
	}
	for _, tt := range tests {
		rest = "unset"
		if w := serve(r, http.MethodGet, tt.path); w.Code != http.StatusOK {
			t.Errorf("%s: expected status %d, got %d", tt.path, http.StatusOK, w.Code)
		}
		if rest != tt.want {
			t.Errorf("%s: expected wildcard %q, got %q", tt.path, tt.want, rest)
		}
	}
}

func TestRouter_FirstMatchWins(t *testing.T) {
	r := New()
	r.GET("/api/v1/desktops/:id", ok("param"))
	r.GET("/api/v1/desktops/latest", ok("literal"))

	if w := serve(r, http.MethodGet, "/api/v1/desktops/latest"); w.Body.String() != "param" {
		t.Errorf("expected routes to match in registration order, got %q", w.Body.String())
	}
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	r := New()
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}
	r.Use(mark("outer"), mark("inner"))
	r.GET("/x", func(w http.ResponseWriter, req *http.Request) { order = append(order, "handler") })

	serve(r, http.MethodGet, "/x")
	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("expected %v, got %v", want, order)
		}
	}

	order = nil
	serve(r, http.MethodGet, "/missing")
	if len(order) != 2 {
		t.Errorf("middleware should wrap the not-found handler too, got %v", order)
	}
}

func TestRouter_CustomHandlers(t *testing.T) {
	r := New()
	r.GET("/x", ok("x"))
	r.SetNotFoundHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	r.SetMethodNotAllowedHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	if w := serve(r, http.MethodGet, "/y"); w.Code != http.StatusTeapot {
		t.Errorf("expected %d, got %d", http.StatusTeapot, w.Code)
	}
	if w := serve(r, http.MethodDelete, "/x"); w.Code != http.StatusConflict {
		t.Errorf("expected %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestRouter_MatchWithFuncFallbacks(t *testing.T) {
	r := New()
	r.GET("/x", ok("x"))
	r.SetNotFoundHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	r.SetMethodNotAllowedHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	w := serve(r, http.MethodGet, "/x")
	if w.Code != http.StatusOK || w.Body.String() != "x" {
		t.Errorf("expected the matched route to serve, got %d %q", w.Code, w.Body.String())
	}
}

func TestRouter_Routes(t *testing.T) {
	r := New()
	r.POST("/b", ok(""))
	r.GET("/b", ok(""))
	r.DELETE("/a/:id", ok(""))

	routes := r.Routes()
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(routes))
	}
	if routes[0].Pattern != "/a/:id" || routes[1].Method != http.MethodGet {
		t.Errorf("unexpected order: %+v", routes)
	}
	if len(routes[0].Params) != 1 || routes[0].Params[0] != "id" {
		t.Errorf("expected params [id], got %v", routes[0].Params)
	}
}

func TestParams(t *testing.T) {
	p := Params{"id": "1"}
	if p.Get("id") != "1" || p.Get("none") != "" {
		t.Errorf("unexpected Get results")
	}
	if !p.Has("id") || p.Has("none") {
		t.Errorf("unexpected Has results")
	}

	ctx := WithParams(context.Background(), p)
	got, found := ParamsFromContext(ctx)
	if !found || got.Get("id") != "1" {
		t.Errorf("params not stored in context")
	}
	if _, found := ParamsFromContext(context.Background()); found {
		t.Errorf("expected no params in empty context")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if Param(req, "id") != "" || Pattern(req) != "" {
		t.Errorf("expected empty values for an unrouted request")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := New()
	r.Use(RequestIDMiddleware(nil), LoggingMiddleware(zap.New(core)))
	r.GET("/api/v1/kv/:key", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("{}"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kv/theme", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["route"] != "/api/v1/kv/:key" {
		t.Errorf("expected route label, got %v", fields["route"])
	}
	if fields["status"] != int64(http.StatusCreated) {
		t.Errorf("expected status 201, got %v", fields["status"])
	}
	if fields["request_id"] != "req-1" {
		t.Errorf("expected request id, got %v", fields["request_id"])
	}
	if fields["bytes"] != int64(2) {
		t.Errorf("expected 2 bytes, got %v", fields["bytes"])
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := RecoveryMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := serve(h, http.MethodGet, "/")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if logs.Len() != 1 {
		t.Errorf("expected the panic to be logged")
	}
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware()(ok("body"))

	w := serve(h, http.MethodOptions, "/")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected preflight status %d, got %d", http.StatusNoContent, w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}

	if w := serve(h, http.MethodGet, "/"); w.Body.String() != "body" {
		t.Errorf("expected pass-through, got %q", w.Body.String())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
	}))

	w := serve(h, http.MethodGet, "/")
	if seen == "" || w.Header().Get("X-Request-ID") != seen {
		t.Errorf("expected a generated id echoed in the header, got %q / %q", seen, w.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "given" {
		t.Errorf("expected the client id to be kept, got %q", seen)
	}
}

func TestRequestIDMiddleware_TagsLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestIDMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.WithContext(r.Context()).Info("handled")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-7" {
		t.Errorf("expected request_id 'req-7' on the context logger, got %v", got)
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	var deadline bool
	h := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}))
	serve(h, http.MethodGet, "/")
	if !deadline {
		t.Errorf("expected a deadline on the request context")
	}
}

func TestChain(t *testing.T) {
	var order string
	step := func(s string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order += s
				next.ServeHTTP(w, r)
			})
		}
	}
	serve(Chain(step("a"), step("b"), step("c"))(ok("")), http.MethodGet, "/")
	if order != "abc" {
		t.Errorf("expected 'abc', got %q", order)
	}
}

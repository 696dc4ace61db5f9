package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/songsmith/internal/shared"
)

type pathsHandler struct {
	routes []string
}

func (p *pathsHandler) Routes() []string { return p.routes }

func (p *pathsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, "handled "+r.URL.Path)
}

func TestBasicRouter(t *testing.T) {
	t.Run("middleware runs in registration order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("expected first,second,handler, got %v", order)
		}
	})

	t.Run("Handle rejects other methods", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
			t.Errorf("expected Allow to list GET, got %q", allow)
		}
	})

	t.Run("Patterns lists registrations", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("get", "/health", http.NotFoundHandler())
		router.Handler(&pathsHandler{routes: []string{"/a"}})

		if got := strings.Join(router.Patterns(), ","); got != "GET /health,/a" {
			t.Errorf("expected GET /health,/a, got %s", got)
		}
	})

	t.Run("Handler registers every route", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(&pathsHandler{routes: []string{"/a", "/b"}})

		for _, path := range []string{"/a", "/b"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Body.String() != "handled "+path {
				t.Errorf("expected %s to be handled, got %q", path, rec.Body.String())
			}
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Logging records status without query", func(t *testing.T) {
		var buf strings.Builder
		logger := shared.NewLogger(&buf)

		handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/user-profile?access_token=secret", nil))

		out := buf.String()
		if !strings.Contains(out, "418") || !strings.Contains(out, "/user-profile") {
			t.Errorf("expected status and path in log, got %q", out)
		}
		if strings.Contains(out, "secret") {
			t.Errorf("expected tokens to stay out of logs, got %q", out)
		}
	})

	t.Run("Recover answers 500", func(t *testing.T) {
		handler := Recover(shared.NewLogger(io.Discard))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songsmith/internal/session"
	"github.com/desertthunder/songsmith/internal/shared"
)

// AuthSuccessPath is the client route the backend redirects to after authorization.
const AuthSuccessPath = "/auth-success"

// AuthSuccessHandler is the client's authorization-success route.
//
// It stores the tokens from the query string through [session.CompleteAuth] and reports the resulting
// navigation once. Later requests are rejected.
type AuthSuccessHandler struct {
	store       session.Store
	resultChan  chan session.Navigation
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

func NewAuthSuccessHandler(store session.Store) *AuthSuccessHandler {
	return &AuthSuccessHandler{
		store:      store,
		resultChan: make(chan session.Navigation, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthSuccessHandler) Routes() []string {
	return []string{AuthSuccessPath}
}

func (h *AuthSuccessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	nav := session.CompleteAuth(h.store, r.URL.Query())
	h.Send(nav)

	w.Header().Set("Content-Type", "text/html")
	if nav.Route != session.RouteDashboard {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, resultPage("Authorization Failed", "#e22134", "No tokens were received. Return to the terminal and try again."))
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, resultPage("✓ Authorization Successful", "#1DB954", "You can close this window and return to the terminal."))
}

// Send delivers the navigation through the result channel (only once).
func (h *AuthSuccessHandler) Send(nav session.Navigation) {
	h.once.Do(func() {
		h.resultChan <- nav
		close(h.resultChan)
	})
}

// Result returns the channel receiving the callback's navigation.
//
// Channel will receive exactly one result and then be closed.
func (h *AuthSuccessHandler) Result() <-chan session.Navigation {
	return h.resultChan
}

func resultPage(title, color, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>songsmith</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: %s; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`, color, title, message)
}

// CallbackServer listens for the single /auth-success request of a login.
type CallbackServer struct {
	handler    *AuthSuccessHandler
	httpServer *http.Server
	listener   net.Listener
	errs       chan error
	logger     *log.Logger
}

// NewCallbackServer prepares a listener on addr that stores received tokens in store.
func NewCallbackServer(addr string, store session.Store, logger *log.Logger) *CallbackServer {
	handler := NewAuthSuccessHandler(store)
	router := NewBasicRouter()
	router.Use(Logging(logger))
	router.Handler(handler)

	return &CallbackServer{
		handler:    handler,
		httpServer: &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second},
		errs:       make(chan error, 1),
		logger:     logger,
	}
}

// Start binds the listener and serves in the background.
func (c *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", c.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.httpServer.Addr, err)
	}
	c.listener = ln

	go func() {
		c.logger.Info("waiting for authorization callback", "addr", ln.Addr().String())
		if err := c.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.errs <- err
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before [CallbackServer.Start].
func (c *CallbackServer) Addr() string {
	if c.listener != nil {
		return c.listener.Addr().String()
	}
	return c.httpServer.Addr
}

// Wait blocks until the callback arrives, the server fails, timeout elapses or ctx is done.
func (c *CallbackServer) Wait(ctx context.Context, timeout time.Duration) (session.Navigation, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case nav := <-c.handler.Result():
		return nav, nil
	case err := <-c.errs:
		return session.Navigation{}, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return session.Navigation{}, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return session.Navigation{}, ctx.Err()
	}
}

// Shutdown stops the listener.
func (c *CallbackServer) Shutdown(ctx context.Context) error {
	return c.httpServer.Shutdown(ctx)
}

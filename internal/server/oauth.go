package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songsmith/internal/services"
	"github.com/desertthunder/songsmith/internal/shared"
)

// StateTTL bounds how long an authorization state stays redeemable.
const StateTTL = 10 * time.Minute

// stateStore remembers issued OAuth states until they are consumed or expire.
type stateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func newStateStore(ttl time.Duration) *stateStore {
	return &stateStore{states: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

// Issue generates and records a new state.
func (s *stateStore) Issue() (string, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(s.ttl)
	return state, nil
}

// Consume reports whether state was issued and unexpired, and forgets it either way.
func (s *stateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return !s.now().After(exp)
}

// OAuthHandler runs the backend side of the Spotify authorization code flow.
//
// /spotify/login redirects the browser to Spotify with a fresh state. /spotify/callback checks that state,
// exchanges the code and hands both tokens to the client's /auth-success route.
type OAuthHandler struct {
	service     services.Service
	frontendURL string
	states      *stateStore
	logger      *log.Logger
}

// NewOAuthHandler creates a handler redirecting successful authorizations to frontendURL.
func NewOAuthHandler(service services.Service, frontendURL string, logger *log.Logger) *OAuthHandler {
	return &OAuthHandler{
		service:     service,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		states:      newStateStore(StateTTL),
		logger:      logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{services.LoginPath, services.CallbackPath}
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case services.LoginPath:
		h.login(w, r)
	case services.CallbackPath:
		h.callback(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *OAuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state, err := h.states.Issue()
	if err != nil {
		h.logger.Error("failed to generate state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start authorization")
		return
	}

	http.Redirect(w, r, h.service.AuthURL(state), http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		h.logger.Warn("authorization denied", "error", errParam)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Authorization error: %s", errParam))
		return
	}

	if state := q.Get("state"); state == "" || !h.states.Consume(state) {
		writeError(w, http.StatusBadRequest, "Invalid state parameter")
		return
	}

	code := q.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	token, err := h.service.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("token exchange failed", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to retrieve access token")
		return
	}

	redirect := h.frontendURL + "/auth-success?" + url.Values{
		"access_token":  {token.AccessToken},
		"refresh_token": {token.RefreshToken},
	}.Encode()

	h.logger.Info("authorization complete, redirecting to client")
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}

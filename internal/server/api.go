package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songsmith/internal/services"
	"github.com/desertthunder/songsmith/internal/shared"
)

// errorBody is the JSON error shape returned by every backend endpoint.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// statusFor maps a service error onto the response status the client classifies.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrAuthExpired):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// APIHandler serves the token refresh and data endpoints.
//
// The backend keeps no per-user state: every request carries its token in the query string.
type APIHandler struct {
	service services.Service
	logger  *log.Logger
}

func NewAPIHandler(service services.Service, logger *log.Logger) *APIHandler {
	return &APIHandler{service: service, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{services.RefreshTokenPath, services.UserProfilePath, services.MusicTastePath}
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case services.RefreshTokenPath:
		h.refreshToken(w, r)
	case services.UserProfilePath:
		h.userProfile(w, r)
	case services.MusicTastePath:
		h.musicTaste(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *APIHandler) refreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.URL.Query().Get("refresh_token")
	if refreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	token, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.logger.Warn("refresh failed", "error", err)
		writeError(w, statusFor(err), "Failed to refresh access token")
		return
	}

	resp := services.TokenResponse{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		resp.ExpiresIn = int(time.Until(token.Expiry).Round(time.Second).Seconds())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) userProfile(w http.ResponseWriter, r *http.Request) {
	accessToken := r.URL.Query().Get("access_token")
	if accessToken == "" {
		writeError(w, http.StatusBadRequest, "access_token is required")
		return
	}

	user, err := h.service.Profile(r.Context(), accessToken)
	if err != nil {
		h.logger.Warn("profile fetch failed", "error", err)
		writeError(w, statusFor(err), "Failed to fetch data from /me")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *APIHandler) musicTaste(w http.ResponseWriter, r *http.Request) {
	accessToken := r.URL.Query().Get("access_token")
	if accessToken == "" {
		writeError(w, http.StatusBadRequest, "access_token is required")
		return
	}

	report, err := h.service.MusicTaste(r.Context(), accessToken)
	if err != nil {
		h.logger.Warn("music taste fetch failed", "error", err)
		writeError(w, statusFor(err), "Failed to fetch music taste data")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

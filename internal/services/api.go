// Backend API client for the songsmith HTTP contract
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/songsmith/internal/models"
	"github.com/desertthunder/songsmith/internal/shared"
)

const defaultBackendURL = "http://127.0.0.1:8000"

// Backend endpoint paths.
const (
	LoginPath        = "/spotify/login"
	CallbackPath     = "/spotify/callback"
	UserProfilePath  = "/user-profile"
	MusicTastePath   = "/music-taste"
	RefreshTokenPath = "/refresh-token"
)

// BackendClient calls the songsmith backend and classifies its responses.
//
// A 401 becomes [shared.ErrAuthExpired], any other non-2xx status [shared.ErrResourceFetch] and a network
// failure [shared.ErrTransport].
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendClient creates a client for the backend at baseURL.
func NewBackendClient(baseURL string, client *http.Client) *BackendClient {
	if baseURL == "" {
		baseURL = defaultBackendURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &BackendClient{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// APIResponse is a raw backend response.
type APIResponse struct {
	StatusCode int
	Body       []byte
}

// TokenResponse is the body of a successful /refresh-token call.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LoginURL is the backend address that starts the authorization flow.
func (c *BackendClient) LoginURL() string {
	return c.baseURL + LoginPath
}

// Get performs a GET request to path with the given query and returns the raw response.
//
// Only transport failures are returned as errors; status codes are left to the caller.
func (c *BackendClient) Get(ctx context.Context, path string, query url.Values) (*APIResponse, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrTransport, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrTransport, err)
	}

	return &APIResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// classify maps a response status onto the error taxonomy.
func classify(resp *APIResponse, path string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrAuthExpired, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s returned status %d", shared.ErrResourceFetch, path, resp.StatusCode)
	default:
		return nil
	}
}

func (c *BackendClient) fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if err := classify(resp, path); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// UserProfile fetches the profile for accessToken.
func (c *BackendClient) UserProfile(ctx context.Context, accessToken string) (*models.Profile, error) {
	body, err := c.fetch(ctx, UserProfilePath, url.Values{"access_token": {accessToken}})
	if err != nil {
		return nil, err
	}

	profile, err := models.DecodeProfile(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrResourceFetch, err)
	}
	return profile, nil
}

// MusicTaste fetches the taste snapshot for accessToken.
func (c *BackendClient) MusicTaste(ctx context.Context, accessToken string) (*models.Snapshot, error) {
	body, err := c.fetch(ctx, MusicTastePath, url.Values{"access_token": {accessToken}})
	if err != nil {
		return nil, err
	}

	snapshot, err := models.DecodeSnapshot(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrResourceFetch, err)
	}
	return snapshot, nil
}

// RefreshToken exchanges refreshToken for a new access token.
func (c *BackendClient) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	body, err := c.fetch(ctx, RefreshTokenPath, url.Values{"refresh_token": {refreshToken}})
	if err != nil {
		return "", err
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: failed to decode token: %w", shared.ErrResourceFetch, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: response has no access_token", shared.ErrResourceFetch)
	}
	return token.AccessToken, nil
}

// IsTransport reports whether err is a network-level failure rather than an error status.
func IsTransport(err error) bool {
	return errors.Is(err, shared.ErrTransport)
}

package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Session errors
	ErrNoSession      = fmt.Errorf("no active session")
	ErrAuthExpired    = fmt.Errorf("access token expired")
	ErrRefreshFailed  = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken = fmt.Errorf("no refresh token available")
	ErrSessionExpired = fmt.Errorf("session expired")
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// API and service errors
	ErrResourceFetch      = fmt.Errorf("resource fetch failed")
	ErrTransport          = fmt.Errorf("%w: transport error", ErrResourceFetch)
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

package session

import (
	"net/url"
)

// Route is a client-side location.
type Route string

const (
	RouteHome      Route = "/"
	RouteDashboard Route = "/dashboard"
)

// ErrorAuthenticationFailed is the error indicator attached to [RouteHome] after a failed callback.
const ErrorAuthenticationFailed = "authentication_failed"

// Navigation is a request to move the client to Route, optionally carrying an error indicator.
type Navigation struct {
	Route Route
	Error string
}

// String renders the navigation as a path with its query string.
func (n Navigation) String() string {
	if n.Error == "" {
		return string(n.Route)
	}
	return string(n.Route) + "?" + url.Values{"error": {n.Error}}.Encode()
}

// Navigator performs navigations requested by the session layer.
type Navigator interface {
	Navigate(Navigation)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(Navigation)

func (f NavigatorFunc) Navigate(n Navigation) { f(n) }

// CompleteAuth handles the authorization-success callback query.
//
// Both access_token and refresh_token must be present; they are stored and the client moves to the dashboard.
// Anything else sends the client home with [ErrorAuthenticationFailed].
func CompleteAuth(store Store, query url.Values) Navigation {
	failed := Navigation{Route: RouteHome, Error: ErrorAuthenticationFailed}

	accessToken := query.Get("access_token")
	refreshToken := query.Get("refresh_token")
	if accessToken == "" || refreshToken == "" {
		return failed
	}

	if err := store.Set(accessToken, refreshToken); err != nil {
		return failed
	}
	return Navigation{Route: RouteDashboard}
}

// Logout removes both tokens and returns the navigation home.
func Logout(store Store) (Navigation, error) {
	if err := store.Clear(); err != nil {
		return Navigation{Route: RouteHome}, err
	}
	return Navigation{Route: RouteHome}, nil
}

// package services defines interface Service for the music provider behind the backend and the client for
// the backend itself
package services

import (
	"context"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

// Service is the music provider the backend serves from.
type Service interface {
	// AuthURL returns the provider authorization URL carrying state.
	AuthURL(state string) string

	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Refresh runs a refresh-token grant.
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)

	// Profile fetches the user that owns accessToken.
	Profile(ctx context.Context, accessToken string) (*spotify.PrivateUser, error)

	// MusicTaste gathers the data behind the taste dashboard.
	MusicTaste(ctx context.Context, accessToken string) (*TasteReport, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

var _ Service = (*SpotifyService)(nil)

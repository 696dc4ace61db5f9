// Spotify implementation of the backend data source
//
// Spotify API reference: https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/desertthunder/songsmith/internal/models"
	"github.com/desertthunder/songsmith/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1/"
)

// Page sizes requested from Spotify.
const (
	topItemsLimit = 10
	historyLimit  = 20
)

// Scopes requested during authorization.
var Scopes = []string{
	"user-top-read",
	"user-read-recently-played",
	"user-library-read",
	"playlist-read-private",
	"user-read-private",
}

// SavedItem is one entry of the user's library.
type SavedItem struct {
	AddedAt string            `json:"added_at"`
	Track   spotify.FullTrack `json:"track"`
}

// TasteReport is the /music-taste response body, keyed by Spotify time range.
type TasteReport struct {
	TopArtists     map[string][]spotify.FullArtist `json:"top_artists"`
	TopTracks      map[string][]spotify.FullTrack  `json:"top_tracks"`
	RecentlyPlayed []spotify.RecentlyPlayedItem    `json:"recently_played"`
	Playlists      []spotify.SimplePlaylist        `json:"playlists"`
	SavedTracks    []SavedItem                     `json:"saved_tracks"`
}

// SpotifyService talks to Spotify on behalf of the backend: authorization, token refresh and the
// read-only data behind /user-profile and /music-taste.
type SpotifyService struct {
	config  *oauth2.Config
	apiURL  string
	limiter *rate.Limiter
	client  *http.Client
	logger  *log.Logger
}

// NewSpotifyService creates a service from the configured credentials.
//
// apiURL defaults to the public Web API; ratePerSecond <= 0 disables pacing.
func NewSpotifyService(creds shared.SpotifyConfig, apiURL string, ratePerSecond float64, logger *log.Logger) (*SpotifyService, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://127.0.0.1:8000" + CallbackPath
	}

	if apiURL == "" {
		apiURL = spotifyBaseURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}

	limit, burst := rate.Inf, 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = max(1, int(ratePerSecond))
	}

	return &SpotifyService{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   spotifyAuthURL,
				TokenURL:  spotifyTokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		apiURL:  apiURL,
		limiter: rate.NewLimiter(limit, burst),
		client:  http.DefaultClient,
		logger:  logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the authorization URL the user's browser is redirected to.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

func (s *SpotifyService) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.client)
}

// Exchange trades an authorization code for a token pair.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", shared.ErrMissingArgument)
	}

	token, err := s.config.Exchange(s.withClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %w", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// Refresh runs a refresh-token grant.
//
// A grant rejected by Spotify is reported as [shared.ErrAuthExpired].
func (s *SpotifyService) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh token", shared.ErrMissingArgument)
	}

	src := s.config.TokenSource(s.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: refresh grant rejected: %w", shared.ErrAuthExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	return token, nil
}

// api returns a Web API client authorized with accessToken.
func (s *SpotifyService) api(ctx context.Context, accessToken string) *spotify.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return spotify.New(oauth2.NewClient(s.withClient(ctx), src), spotify.WithBaseURL(s.apiURL))
}

// upstreamError classifies a Web API error: 401 becomes [shared.ErrAuthExpired], anything else
// [shared.ErrResourceFetch].
func upstreamError(op string, err error) error {
	status := 0

	var valueErr spotify.Error
	var ptrErr *spotify.Error
	switch {
	case errors.As(err, &valueErr):
		status = valueErr.Status
	case errors.As(err, &ptrErr):
		status = ptrErr.Status
	}

	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s: %w", shared.ErrAuthExpired, op, err)
	}
	return fmt.Errorf("%w: %s: %w", shared.ErrResourceFetch, op, err)
}

// Profile fetches the current user.
func (s *SpotifyService) Profile(ctx context.Context, accessToken string) (*spotify.PrivateUser, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", shared.ErrMissingArgument)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	user, err := s.api(ctx, accessToken).CurrentUser(ctx)
	if err != nil {
		return nil, upstreamError("current user", err)
	}
	return user, nil
}

// MusicTaste gathers top artists and tracks for every range, recent plays, playlists and saved tracks.
//
// The nine requests run concurrently and are paced by the service's rate limiter. The first failure
// cancels the rest.
func (s *SpotifyService) MusicTaste(ctx context.Context, accessToken string) (*TasteReport, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", shared.ErrMissingArgument)
	}

	client := s.api(ctx, accessToken)
	g, gctx := errgroup.WithContext(ctx)

	call := func(op string, fn func() error) {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return fmt.Errorf("%w: %s: %w", shared.ErrResourceFetch, op, err)
			}
			if err := fn(); err != nil {
				s.logger.Debug("spotify request failed", "op", op, "error", err)
				return upstreamError(op, err)
			}
			return nil
		})
	}

	ranges := models.TimeRanges
	artists := make([][]spotify.FullArtist, len(ranges))
	tracks := make([][]spotify.FullTrack, len(ranges))

	for i, r := range ranges {
		call("top artists "+r.Key(), func() error {
			page, err := client.CurrentUsersTopArtists(gctx, spotify.Timerange(spotify.Range(r.Key())), spotify.Limit(topItemsLimit))
			if err != nil {
				return err
			}
			artists[i] = page.Artists
			return nil
		})
		call("top tracks "+r.Key(), func() error {
			page, err := client.CurrentUsersTopTracks(gctx, spotify.Timerange(spotify.Range(r.Key())), spotify.Limit(topItemsLimit))
			if err != nil {
				return err
			}
			tracks[i] = page.Tracks
			return nil
		})
	}

	var (
		recent    []spotify.RecentlyPlayedItem
		playlists []spotify.SimplePlaylist
		saved     []spotify.SavedTrack
	)

	call("recently played", func() error {
		items, err := client.PlayerRecentlyPlayedOpt(gctx, &spotify.RecentlyPlayedOptions{Limit: historyLimit})
		recent = items
		return err
	})
	call("playlists", func() error {
		page, err := client.CurrentUsersPlaylists(gctx, spotify.Limit(historyLimit))
		if err != nil {
			return err
		}
		playlists = page.Playlists
		return nil
	})
	call("saved tracks", func() error {
		page, err := client.CurrentUsersTracks(gctx, spotify.Limit(historyLimit))
		if err != nil {
			return err
		}
		saved = page.Tracks
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &TasteReport{
		TopArtists:     make(map[string][]spotify.FullArtist, len(ranges)),
		TopTracks:      make(map[string][]spotify.FullTrack, len(ranges)),
		RecentlyPlayed: nonNil(recent),
		Playlists:      nonNil(playlists),
		SavedTracks:    make([]SavedItem, 0, len(saved)),
	}
	for i, r := range ranges {
		report.TopArtists[r.Key()] = nonNil(artists[i])
		report.TopTracks[r.Key()] = nonNil(tracks[i])
	}
	for _, item := range saved {
		report.SavedTracks = append(report.SavedTracks, SavedItem{AddedAt: item.AddedAt, Track: item.FullTrack})
	}

	return report, nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

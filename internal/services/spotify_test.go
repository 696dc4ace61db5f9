package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/songsmith/internal/models"
	"github.com/desertthunder/songsmith/internal/shared"
)

var testCreds = shared.SpotifyConfig{
	ClientID:     "test_client_id",
	ClientSecret: "test_client_secret",
	RedirectURI:  "http://127.0.0.1:8000/spotify/callback",
}

const expiredBody = `{"error": {"status": 401, "message": "The access token expired"}}`

// fakeSpotify serves the subset of the Web API and accounts service used by [SpotifyService].
type fakeSpotify struct {
	mu       sync.Mutex
	requests []string
	status   map[string]int
	server   *httptest.Server
}

func newFakeSpotify(t *testing.T) *fakeSpotify {
	t.Helper()
	f := &fakeSpotify{status: make(map[string]int)}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/me", f.handle(`{"id": "user-1", "display_name": "Test User", "images": [{"url": "https://img/u"}]}`))
	mux.HandleFunc("/v1/me/top/artists", f.handle(`{"items": [{"id": "a1", "name": "Artist", "genres": ["pop"], "images": []}]}`))
	mux.HandleFunc("/v1/me/top/tracks", f.handle(`{"items": [{"id": "t1", "name": "Track", "artists": [{"id": "a1", "name": "Artist"}], "album": {"images": [{"url": "https://img/big"}, {"url": "https://img/small"}]}}]}`))
	mux.HandleFunc("/v1/me/player/recently-played", f.handle(`{"items": [{"track": {"id": "t2", "name": "Recent", "artists": []}, "played_at": "2024-05-01T10:20:30.000Z"}]}`))
	mux.HandleFunc("/v1/me/playlists", f.handle(`{"items": [{"id": "p1", "name": "Mix", "tracks": {"href": "", "total": 7}, "images": []}]}`))
	mux.HandleFunc("/v1/me/tracks", f.handle(`{"items": [{"added_at": "2024-04-01T00:00:00Z", "track": {"id": "t3", "name": "Saved", "artists": []}}]}`))
	mux.HandleFunc("/api/token", f.token)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSpotify) fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[path] = status
}

func (f *fakeSpotify) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeSpotify) handle(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.Path+"?"+r.URL.RawQuery)
		status, failing := f.status[r.URL.Path]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if failing {
			w.WriteHeader(status)
			if status == http.StatusUnauthorized {
				io.WriteString(w, expiredBody)
			} else {
				io.WriteString(w, `{"error": {"status": 403, "message": "Forbidden"}}`)
			}
			return
		}
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, expiredBody)
			return
		}
		io.WriteString(w, body)
	}
}

func (f *fakeSpotify) token(w http.ResponseWriter, r *http.Request) {
	id, secret, ok := r.BasicAuth()
	if !ok || id != testCreds.ClientID || secret != testCreds.ClientSecret {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	r.ParseForm()

	w.Header().Set("Content-Type", "application/json")
	switch r.Form.Get("grant_type") {
	case "authorization_code":
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error": "invalid_grant"}`)
			return
		}
		io.WriteString(w, `{"access_token": "access-1", "token_type": "Bearer", "expires_in": 3600, "refresh_token": "refresh-1"}`)
	case "refresh_token":
		if r.Form.Get("refresh_token") != "refresh-1" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error": "invalid_grant"}`)
			return
		}
		io.WriteString(w, `{"access_token": "access-2", "token_type": "Bearer", "expires_in": 3600}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newTestSpotifyService(t *testing.T, f *fakeSpotify) *SpotifyService {
	t.Helper()
	svc, err := NewSpotifyService(testCreds, f.server.URL+"/v1", 0, shared.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	svc.config.Endpoint.TokenURL = f.server.URL + "/api/token"
	return svc
}

func TestSpotifyService(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(testCreds, "", 10, logger)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
			if srv.apiURL != spotifyBaseURL {
				t.Errorf("expected default API URL, got %s", srv.apiURL)
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(shared.SpotifyConfig{ClientSecret: "s"}, "", 0, logger)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "id"}, "", 0, logger)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Default Redirect URI and trailing slash", func(t *testing.T) {
			srv, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "id", ClientSecret: "s"}, "http://api.test/v1", 0, logger)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.config.RedirectURL != "http://127.0.0.1:8000/spotify/callback" {
				t.Errorf("unexpected redirect URL %s", srv.config.RedirectURL)
			}
			if srv.apiURL != "http://api.test/v1/" {
				t.Errorf("expected trailing slash, got %s", srv.apiURL)
			}
		})
	})

	t.Run("AuthURL", func(t *testing.T) {
		srv, _ := NewSpotifyService(testCreds, "", 0, logger)
		authURL, err := url.Parse(srv.AuthURL("state-123"))
		if err != nil {
			t.Fatalf("expected valid URL, got %v", err)
		}

		q := authURL.Query()
		if q.Get("state") != "state-123" {
			t.Errorf("expected state, got %s", q.Get("state"))
		}
		if q.Get("client_id") != testCreds.ClientID {
			t.Errorf("expected client id, got %s", q.Get("client_id"))
		}
		if q.Get("redirect_uri") != testCreds.RedirectURI {
			t.Errorf("expected redirect uri, got %s", q.Get("redirect_uri"))
		}
		if !strings.Contains(q.Get("scope"), "user-top-read") {
			t.Errorf("expected top read scope, got %s", q.Get("scope"))
		}
	})

	t.Run("Exchange", func(t *testing.T) {
		f := newFakeSpotify(t)
		svc := newTestSpotifyService(t, f)

		token, err := svc.Exchange(context.Background(), "good-code")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.AccessToken != "access-1" || token.RefreshToken != "refresh-1" {
			t.Errorf("unexpected token %+v", token)
		}

		if _, err := svc.Exchange(context.Background(), "bad-code"); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if _, err := svc.Exchange(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		f := newFakeSpotify(t)
		svc := newTestSpotifyService(t, f)

		t.Run("keeps the refresh token when none is returned", func(t *testing.T) {
			token, err := svc.Refresh(context.Background(), "refresh-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token.AccessToken != "access-2" {
				t.Errorf("expected access-2, got %s", token.AccessToken)
			}
			if token.RefreshToken != "refresh-1" {
				t.Errorf("expected refresh-1 to be kept, got %s", token.RefreshToken)
			}
		})

		t.Run("rejected grant is auth expired", func(t *testing.T) {
			_, err := svc.Refresh(context.Background(), "revoked")
			if !errors.Is(err, shared.ErrAuthExpired) {
				t.Errorf("expected ErrAuthExpired, got %v", err)
			}
		})

		t.Run("missing refresh token", func(t *testing.T) {
			_, err := svc.Refresh(context.Background(), "")
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("Profile", func(t *testing.T) {
		f := newFakeSpotify(t)
		svc := newTestSpotifyService(t, f)

		user, err := svc.Profile(context.Background(), "access-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.DisplayName != "Test User" {
			t.Errorf("expected Test User, got %s", user.DisplayName)
		}

		if _, err := svc.Profile(context.Background(), "stale"); !errors.Is(err, shared.ErrAuthExpired) {
			t.Errorf("expected ErrAuthExpired, got %v", err)
		}
	})

	t.Run("MusicTaste", func(t *testing.T) {
		t.Run("gathers every section", func(t *testing.T) {
			f := newFakeSpotify(t)
			svc := newTestSpotifyService(t, f)

			report, err := svc.MusicTaste(context.Background(), "access-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if got := len(f.seen()); got != 9 {
				t.Errorf("expected 9 upstream requests, got %d", got)
			}
			for _, key := range []string{"short_term", "medium_term", "long_term"} {
				if len(report.TopArtists[key]) != 1 || len(report.TopTracks[key]) != 1 {
					t.Errorf("expected one artist and track for %s", key)
				}
			}
			if len(report.RecentlyPlayed) != 1 || len(report.Playlists) != 1 || len(report.SavedTracks) != 1 {
				t.Errorf("unexpected report sizes %+v", report)
			}
		})

		t.Run("requests every time range", func(t *testing.T) {
			f := newFakeSpotify(t)
			svc := newTestSpotifyService(t, f)
			svc.MusicTaste(context.Background(), "access-1")

			seen := strings.Join(f.seen(), "\n")
			for _, key := range []string{"short_term", "medium_term", "long_term"} {
				if !strings.Contains(seen, "time_range="+key) {
					t.Errorf("expected a request for %s", key)
				}
			}
		})

		t.Run("encodes in the shape the client decodes", func(t *testing.T) {
			f := newFakeSpotify(t)
			svc := newTestSpotifyService(t, f)

			report, err := svc.MusicTaste(context.Background(), "access-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			data, err := json.Marshal(report)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			snap, err := models.DecodeSnapshot(data)
			if err != nil {
				t.Fatalf("expected decodable report, got %v", err)
			}
			if snap.ArtistsFor(models.LongTerm)[0].Genres[0] != "pop" {
				t.Errorf("expected pop genre, got %+v", snap.ArtistsFor(models.LongTerm))
			}
			if snap.TracksFor(models.ShortTerm)[0].AlbumImageURL != "https://img/small" {
				t.Errorf("expected small album image, got %+v", snap.TracksFor(models.ShortTerm))
			}
			if snap.Playlists[0].TrackCount != 7 {
				t.Errorf("expected 7 tracks, got %d", snap.Playlists[0].TrackCount)
			}
			if snap.RecentlyPlayed[0].PlayedAt.IsZero() {
				t.Error("expected played_at to survive")
			}
			if snap.SavedTracks[0].Name != "Saved" {
				t.Errorf("expected saved track, got %+v", snap.SavedTracks)
			}
		})

		t.Run("upstream 401 is auth expired", func(t *testing.T) {
			f := newFakeSpotify(t)
			f.fail("/v1/me/playlists", http.StatusUnauthorized)
			svc := newTestSpotifyService(t, f)

			_, err := svc.MusicTaste(context.Background(), "access-1")
			if !errors.Is(err, shared.ErrAuthExpired) {
				t.Errorf("expected ErrAuthExpired, got %v", err)
			}
		})

		t.Run("other upstream failures are fetch errors", func(t *testing.T) {
			f := newFakeSpotify(t)
			f.fail("/v1/me/tracks", http.StatusForbidden)
			svc := newTestSpotifyService(t, f)

			_, err := svc.MusicTaste(context.Background(), "access-1")
			if !errors.Is(err, shared.ErrResourceFetch) {
				t.Errorf("expected ErrResourceFetch, got %v", err)
			}
			if errors.Is(err, shared.ErrAuthExpired) {
				t.Errorf("did not expect ErrAuthExpired, got %v", err)
			}
		})

		t.Run("missing access token", func(t *testing.T) {
			svc, _ := NewSpotifyService(testCreds, "", 0, logger)
			if _, err := svc.MusicTaste(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})
}

package testing

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Backend endpoint paths served by [FakeBackend].
const (
	PathLogin   = "/spotify/login"
	PathProfile = "/user-profile"
	PathTaste   = "/music-taste"
	PathRefresh = "/refresh-token"
)

// ProfileJSON is a minimal /user-profile body.
const ProfileJSON = `{"id": "user-1", "display_name": "Test User", "images": [{"url": "https://i.scdn.co/image/user-1"}]}`

// TasteJSON is a small but complete /music-taste body.
const TasteJSON = `{
	"top_artists": {
		"short_term": [{"id": "a1", "name": "Short Artist", "genres": ["indie"]}],
		"medium_term": [
			{"id": "a2", "name": "Medium One", "genres": ["pop", "rock"]},
			{"id": "a3", "name": "Medium Two", "genres": ["pop"]}
		],
		"long_term": [{"id": "a4", "name": "Long Artist", "genres": []}]
	},
	"top_tracks": {
		"short_term": [],
		"medium_term": [{"id": "t1", "name": "Medium Track", "artists": [{"id": "a2", "name": "Medium One"}], "album": {"images": []}}],
		"long_term": []
	},
	"recently_played": [{"track": {"id": "t2", "name": "Last Heard", "artists": [{"id": "a1", "name": "Short Artist"}]}, "played_at": "2024-05-01T10:20:30Z"}],
	"playlists": [{"id": "p1", "name": "Road Trip", "tracks": {"total": 12}, "images": []}],
	"saved_tracks": []
}`

// Reply is one scripted response of a [FakeBackend] endpoint.
//
// When Gate is set the handler blocks until it is closed or the request is cancelled.
type Reply struct {
	Status int
	Body   string
	Gate   <-chan struct{}
}

// OK is a 200 reply with a JSON body.
func OK(body string) Reply { return Reply{Status: http.StatusOK, Body: body} }

// Status is a bodiless reply with the given status code.
func Status(code int) Reply { return Reply{Status: code} }

// Call records a request received by a [FakeBackend].
type Call struct {
	Path  string
	Query url.Values
}

// FakeBackend is an httptest server standing in for the songsmith backend.
//
// Each path replays its scripted replies in order and repeats the last one once exhausted.
// Unscripted paths answer 404.
type FakeBackend struct {
	Server *httptest.Server

	mu      sync.Mutex
	scripts map[string][]Reply
	calls   []Call
}

// NewFakeBackend starts a [FakeBackend] that is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{scripts: make(map[string][]Reply)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the server.
func (f *FakeBackend) URL() string { return f.Server.URL }

// Script replaces the replies for path.
func (f *FakeBackend) Script(path string, replies ...Reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[path] = replies
}

// Calls returns every request received so far, in arrival order.
func (f *FakeBackend) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Paths returns the path of every request received so far, in arrival order.
func (f *FakeBackend) Paths() []string {
	calls := f.Calls()
	paths := make([]string, 0, len(calls))
	for _, c := range calls {
		paths = append(paths, c.Path)
	}
	return paths
}

// Count returns how many requests hit path.
func (f *FakeBackend) Count(path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeBackend) next(r *http.Request) (Reply, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Path: r.URL.Path, Query: r.URL.Query()})

	replies, ok := f.scripts[r.URL.Path]
	if !ok || len(replies) == 0 {
		return Reply{}, false
	}
	reply := replies[0]
	if len(replies) > 1 {
		f.scripts[r.URL.Path] = replies[1:]
	}
	return reply, true
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	reply, ok := f.next(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if reply.Gate != nil {
		select {
		case <-reply.Gate:
		case <-r.Context().Done():
			return
		}
	}

	if reply.Body != "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(reply.Status)
	if reply.Body != "" {
		w.Write([]byte(reply.Body))
	}
}

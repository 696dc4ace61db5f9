package models

import (
	"fmt"
	"time"
)

// TimeRange is the window over which top artists and tracks are aggregated upstream.
type TimeRange int

const (
	ShortTerm TimeRange = iota
	MediumTerm
	LongTerm
)

// TimeRanges lists every range in display order.
var TimeRanges = []TimeRange{ShortTerm, MediumTerm, LongTerm}

// Key returns the wire key used by the backend ("short_term", ...).
func (r TimeRange) Key() string {
	switch r {
	case ShortTerm:
		return "short_term"
	case MediumTerm:
		return "medium_term"
	case LongTerm:
		return "long_term"
	default:
		return ""
	}
}

func (r TimeRange) String() string {
	switch r {
	case ShortTerm:
		return "short"
	case MediumTerm:
		return "medium"
	case LongTerm:
		return "long"
	default:
		return fmt.Sprintf("TimeRange(%d)", int(r))
	}
}

// Label is the human readable window name.
func (r TimeRange) Label() string {
	switch r {
	case ShortTerm:
		return "Last Month"
	case MediumTerm:
		return "Last 6 Months"
	case LongTerm:
		return "All Time"
	default:
		return ""
	}
}

// ParseTimeRange accepts both short names ("short") and wire keys ("short_term").
func ParseTimeRange(s string) (TimeRange, error) {
	for _, r := range TimeRanges {
		if s == r.String() || s == r.Key() {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown time range %q", s)
}

// Profile is a read-only snapshot of the signed-in user.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Artist is a performer with the genres the upstream service attributes to them.
type Artist struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Genres   []string `json:"genres"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Track is a song with its credited artists.
type Track struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Artists       []Artist `json:"artists"`
	AlbumImageURL string   `json:"album_image_url,omitempty"`
}

// ArtistNames returns the credited artist names in order.
func (t Track) ArtistNames() []string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return names
}

// PlayEvent is one entry in the recently played history.
type PlayEvent struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// Playlist is a playlist summary.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Snapshot is the aggregate music taste read model.
type Snapshot struct {
	TopArtists     map[TimeRange][]Artist `json:"top_artists"`
	TopTracks      map[TimeRange][]Track  `json:"top_tracks"`
	RecentlyPlayed []PlayEvent            `json:"recently_played"`
	Playlists      []Playlist             `json:"playlists"`
	SavedTracks    []Track                `json:"saved_tracks"`
}

// ArtistsFor returns the top artists for r, or nil when the range is absent.
func (s *Snapshot) ArtistsFor(r TimeRange) []Artist {
	if s == nil {
		return nil
	}
	return s.TopArtists[r]
}

// TracksFor returns the top tracks for r, or nil when the range is absent.
func (s *Snapshot) TracksFor(r TimeRange) []Track {
	if s == nil {
		return nil
	}
	return s.TopTracks[r]
}

// MarshalText encodes the range as its wire key so JSON maps read "short_term" rather than "0".
func (r TimeRange) MarshalText() ([]byte, error) {
	if r.Key() == "" {
		return nil, fmt.Errorf("unknown time range %d", int(r))
	}
	return []byte(r.Key()), nil
}

// UnmarshalText is the inverse of [TimeRange.MarshalText].
func (r *TimeRange) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeRange(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

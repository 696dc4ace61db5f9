package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type wireImage struct {
	URL string `json:"url"`
}

func firstImage(images []wireImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

type wireProfile struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	CamelName   string      `json:"displayName"`
	Images      []wireImage `json:"images"`
}

type wireArtist struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Genres []string    `json:"genres"`
	Images []wireImage `json:"images"`
}

func (a wireArtist) model() Artist {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return Artist{ID: a.ID, Name: a.Name, Genres: genres, ImageURL: firstImage(a.Images)}
}

type wireTrack struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Artists []wireArtist `json:"artists"`
	Album   struct {
		Images []wireImage `json:"images"`
	} `json:"album"`
}

func (t wireTrack) model() Track {
	artists := make([]Artist, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.model())
	}
	return Track{ID: t.ID, Name: t.Name, Artists: artists, AlbumImageURL: smallestImage(t.Album.Images)}
}

// smallestImage prefers the thumbnail; Spotify orders images widest first.
func smallestImage(images []wireImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[len(images)-1].URL
}

type wirePlayEvent struct {
	Track    wireTrack `json:"track"`
	PlayedAt string    `json:"played_at"`
}

type wireSavedTrack struct {
	Track wireTrack `json:"track"`
}

type wirePlaylist struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Images []wireImage `json:"images"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type wireSnapshot struct {
	TopArtists     map[string][]wireArtist `json:"top_artists"`
	TopTracks      map[string][]wireTrack  `json:"top_tracks"`
	RecentlyPlayed []wirePlayEvent         `json:"recently_played"`
	Playlists      []wirePlaylist          `json:"playlists"`
	SavedTracks    []wireSavedTrack        `json:"saved_tracks"`
}

// DecodeProfile parses a /user-profile response body.
func DecodeProfile(data []byte) (*Profile, error) {
	var w wireProfile
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	name := w.DisplayName
	if name == "" {
		name = w.CamelName
	}
	return &Profile{ID: w.ID, DisplayName: name, ImageURL: firstImage(w.Images)}, nil
}

// DecodeSnapshot parses a /music-taste response body.
//
// Ranges missing from the payload decode as empty lists; unknown range keys are rejected.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode music taste: %w", err)
	}

	snap := &Snapshot{
		TopArtists:     make(map[TimeRange][]Artist, len(TimeRanges)),
		TopTracks:      make(map[TimeRange][]Track, len(TimeRanges)),
		RecentlyPlayed: make([]PlayEvent, 0, len(w.RecentlyPlayed)),
		Playlists:      make([]Playlist, 0, len(w.Playlists)),
		SavedTracks:    make([]Track, 0, len(w.SavedTracks)),
	}

	for _, r := range TimeRanges {
		snap.TopArtists[r] = []Artist{}
		snap.TopTracks[r] = []Track{}
	}

	for key, artists := range w.TopArtists {
		r, err := ParseTimeRange(key)
		if err != nil {
			return nil, fmt.Errorf("failed to decode music taste: top_artists: %w", err)
		}
		for _, a := range artists {
			snap.TopArtists[r] = append(snap.TopArtists[r], a.model())
		}
	}

	for key, tracks := range w.TopTracks {
		r, err := ParseTimeRange(key)
		if err != nil {
			return nil, fmt.Errorf("failed to decode music taste: top_tracks: %w", err)
		}
		for _, t := range tracks {
			snap.TopTracks[r] = append(snap.TopTracks[r], t.model())
		}
	}

	for _, item := range w.RecentlyPlayed {
		var playedAt time.Time
		if item.PlayedAt != "" {
			parsed, err := time.Parse(time.RFC3339, item.PlayedAt)
			if err != nil {
				return nil, fmt.Errorf("failed to decode music taste: played_at: %w", err)
			}
			playedAt = parsed
		}
		snap.RecentlyPlayed = append(snap.RecentlyPlayed, PlayEvent{Track: item.Track.model(), PlayedAt: playedAt})
	}

	for _, p := range w.Playlists {
		snap.Playlists = append(snap.Playlists, Playlist{
			ID:         p.ID,
			Name:       p.Name,
			TrackCount: p.Tracks.Total,
			ImageURL:   firstImage(p.Images),
		})
	}

	for _, s := range w.SavedTracks {
		snap.SavedTracks = append(snap.SavedTracks, s.Track.model())
	}

	return snap, nil
}

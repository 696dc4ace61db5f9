package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/songsmith/internal/models"
	"github.com/desertthunder/songsmith/internal/view"
)

var (
	_ list.Item = artistItem{}
	_ list.Item = trackItem{}
	_ list.Item = playItem{}
	_ list.Item = playlistItem{}
)

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	rank   int
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return fmt.Sprintf("%d. %s", i.rank, i.artist.Name) }
func (i artistItem) Description() string {
	if len(i.artist.Genres) == 0 {
		return "no genres listed"
	}
	return strings.Join(i.artist.Genres, " • ")
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	rank  int
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return fmt.Sprintf("%d. %s", i.rank, i.track.Name) }
func (i trackItem) Description() string { return strings.Join(i.track.ArtistNames(), ", ") }

// playItem wraps [models.PlayEvent] to implement [list.Item].
type playItem struct {
	event models.PlayEvent
}

func (i playItem) FilterValue() string { return i.event.Track.Name }
func (i playItem) Title() string       { return i.event.Track.Name }
func (i playItem) Description() string {
	desc := strings.Join(i.event.Track.ArtistNames(), ", ")
	if !i.event.PlayedAt.IsZero() {
		desc = fmt.Sprintf("%s • %s", desc, i.event.PlayedAt.Local().Format("Jan 2 15:04"))
	}
	return desc
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string { return fmt.Sprintf("%d tracks", i.playlist.TrackCount) }

// itemsFor selects the list content for state from snap.
//
// The overview tab is rendered as text and has no items.
func itemsFor(state view.State, snap *models.Snapshot) []list.Item {
	var items []list.Item

	switch state.Tab {
	case view.Artists:
		for i, a := range state.Artists(snap) {
			items = append(items, artistItem{rank: i + 1, artist: a})
		}
	case view.Tracks:
		for i, t := range state.Tracks(snap) {
			items = append(items, trackItem{rank: i + 1, track: t})
		}
	case view.Recent:
		if snap != nil {
			for _, e := range snap.RecentlyPlayed {
				items = append(items, playItem{event: e})
			}
		}
	case view.Playlists:
		if snap != nil {
			for _, p := range snap.Playlists {
				items = append(items, playlistItem{playlist: p})
			}
		}
	}
	return items
}

// Package view holds the dashboard's display state: the active tab and time range.
//
// Nothing here performs I/O; the state only selects which slice of a snapshot is shown.
package view

import (
	"fmt"
	"sync"

	"github.com/desertthunder/songsmith/internal/models"
)

// UnknownGenre is returned by [TopGenre] when no genre can be derived.
const UnknownGenre = "Unknown"

// Tab is a dashboard panel.
type Tab int

const (
	Overview Tab = iota
	Artists
	Tracks
	Recent
	Playlists
)

// Tabs lists every tab in display order.
var Tabs = []Tab{Overview, Artists, Tracks, Recent, Playlists}

func (t Tab) String() string {
	switch t {
	case Overview:
		return "overview"
	case Artists:
		return "artists"
	case Tracks:
		return "tracks"
	case Recent:
		return "recent"
	case Playlists:
		return "playlists"
	default:
		return fmt.Sprintf("Tab(%d)", int(t))
	}
}

// Title is the tab's heading.
func (t Tab) Title() string {
	switch t {
	case Overview:
		return "Overview"
	case Artists:
		return "Top Artists"
	case Tracks:
		return "Top Tracks"
	case Recent:
		return "Recently Played"
	case Playlists:
		return "Playlists"
	default:
		return ""
	}
}

// Next returns the following tab, wrapping around.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % len(Tabs))
}

// Prev returns the preceding tab, wrapping around.
func (t Tab) Prev() Tab {
	return Tab((int(t) + len(Tabs) - 1) % len(Tabs))
}

// Ranged reports whether the tab's content depends on the time range.
func (t Tab) Ranged() bool {
	return t == Overview || t == Artists || t == Tracks
}

// ParseTab accepts the names returned by [Tab.String].
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if t.String() == s {
			return t, nil
		}
	}
	return Overview, fmt.Errorf("unknown tab %q", s)
}

// State is the selected tab and time range.
type State struct {
	Tab   Tab
	Range models.TimeRange
}

// Initial is the state on mount.
func Initial() State {
	return State{Tab: Overview, Range: models.MediumTerm}
}

// Artists selects the top artists for the state's range.
func (s State) Artists(snap *models.Snapshot) []models.Artist {
	return snap.ArtistsFor(s.Range)
}

// Tracks selects the top tracks for the state's range.
func (s State) Tracks(snap *models.Snapshot) []models.Track {
	return snap.TracksFor(s.Range)
}

// Machine guards a [State]. Selecting the value already active is a no-op.
type Machine struct {
	mu    sync.RWMutex
	state State
}

func NewMachine() *Machine {
	return &Machine{state: Initial()}
}

// Reset replaces the state, as on mount.
func (m *Machine) Reset(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// Current returns a copy of the state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// SetTab selects tab and reports whether the state changed.
func (m *Machine) SetTab(tab Tab) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Tab == tab {
		return false
	}
	m.state.Tab = tab
	return true
}

// SetRange selects r and reports whether the state changed.
func (m *Machine) SetRange(r models.TimeRange) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Range == r {
		return false
	}
	m.state.Range = r
	return true
}

// TopGenre returns the genre listed by the most artists.
//
// Ties go to the genre counted first. [UnknownGenre] is returned when no artist has a genre.
func TopGenre(artists []models.Artist) string {
	counts := make(map[string]int)
	var order []string

	for _, a := range artists {
		for _, g := range a.Genres {
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	top, best := UnknownGenre, 0
	for _, g := range order {
		if counts[g] > best {
			top, best = g, counts[g]
		}
	}
	return top
}

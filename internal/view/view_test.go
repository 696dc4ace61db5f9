package view

import (
	"testing"

	"github.com/desertthunder/songsmith/internal/models"
)

func artistsWith(genres ...[]string) []models.Artist {
	artists := make([]models.Artist, 0, len(genres))
	for _, g := range genres {
		artists = append(artists, models.Artist{Genres: g})
	}
	return artists
}

func TestTopGenre(t *testing.T) {
	tc := []struct {
		name    string
		artists []models.Artist
		want    string
	}{
		{"most common wins", artistsWith([]string{"pop", "rock"}, []string{"pop"}), "pop"},
		{"empty list", nil, UnknownGenre},
		{"no genres", artistsWith([]string{}, nil), UnknownGenre},
		{"tie goes to first encountered", artistsWith([]string{"jazz", "soul"}, []string{"soul", "jazz"}), "jazz"},
		{"later majority beats first", artistsWith([]string{"folk"}, []string{"metal"}, []string{"metal"}), "metal"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := TopGenre(tt.artists); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMachine(t *testing.T) {
	t.Run("initial state", func(t *testing.T) {
		if got := NewMachine().Current(); got != (State{Tab: Overview, Range: models.MediumTerm}) {
			t.Errorf("expected overview/medium, got %+v", got)
		}
	})

	t.Run("SetTab is idempotent", func(t *testing.T) {
		m := NewMachine()
		if !m.SetTab(Artists) {
			t.Error("expected a transition to artists")
		}
		if m.SetTab(Artists) {
			t.Error("expected selecting the active tab to be a no-op")
		}
		if m.Current().Tab != Artists {
			t.Errorf("expected artists, got %s", m.Current().Tab)
		}
	})

	t.Run("SetRange is idempotent", func(t *testing.T) {
		m := NewMachine()
		if m.SetRange(models.MediumTerm) {
			t.Error("expected selecting the active range to be a no-op")
		}
		if !m.SetRange(models.LongTerm) {
			t.Error("expected a transition to long term")
		}
		if m.Current().Range != models.LongTerm {
			t.Errorf("expected long term, got %s", m.Current().Range)
		}
	})

	t.Run("tab and range are independent", func(t *testing.T) {
		m := NewMachine()
		m.SetRange(models.ShortTerm)
		m.SetTab(Playlists)
		if got := m.Current(); got.Range != models.ShortTerm || got.Tab != Playlists {
			t.Errorf("unexpected state %+v", got)
		}
	})

	t.Run("Reset replaces the state", func(t *testing.T) {
		m := NewMachine()
		m.SetTab(Recent)
		m.SetRange(models.LongTerm)

		m.Reset(Initial())
		if got := m.Current(); got != Initial() {
			t.Errorf("expected %+v, got %+v", Initial(), got)
		}
	})
}

func TestTab(t *testing.T) {
	t.Run("Next and Prev wrap", func(t *testing.T) {
		if Playlists.Next() != Overview {
			t.Errorf("expected overview after playlists, got %s", Playlists.Next())
		}
		if Overview.Prev() != Playlists {
			t.Errorf("expected playlists before overview, got %s", Overview.Prev())
		}
		if Artists.Next().Prev() != Artists {
			t.Error("expected Next then Prev to round trip")
		}
	})

	t.Run("ParseTab", func(t *testing.T) {
		for _, tab := range Tabs {
			got, err := ParseTab(tab.String())
			if err != nil || got != tab {
				t.Errorf("expected %s, got %s (%v)", tab, got, err)
			}
		}
		if _, err := ParseTab("albums"); err == nil {
			t.Error("expected error for unknown tab")
		}
	})
}

func TestStateSelection(t *testing.T) {
	snap := &models.Snapshot{
		TopArtists: map[models.TimeRange][]models.Artist{
			models.ShortTerm:  {{Name: "short"}},
			models.MediumTerm: {{Name: "medium"}},
		},
		TopTracks: map[models.TimeRange][]models.Track{
			models.LongTerm: {{Name: "long"}},
		},
	}

	state := Initial()
	if got := state.Artists(snap); len(got) != 1 || got[0].Name != "medium" {
		t.Errorf("expected medium artists, got %+v", got)
	}

	state.Range = models.LongTerm
	if got := state.Tracks(snap); len(got) != 1 || got[0].Name != "long" {
		t.Errorf("expected long tracks, got %+v", got)
	}
	if got := state.Artists(snap); len(got) != 0 {
		t.Errorf("expected no long artists, got %+v", got)
	}
}

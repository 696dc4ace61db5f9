// package formatter renders a loaded profile and music taste snapshot as plain text, Markdown or JSON
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/songsmith/internal/models"
	"github.com/desertthunder/songsmith/internal/shared"
	"github.com/desertthunder/songsmith/internal/view"
)

// DefaultLimit caps each rendered list.
const DefaultLimit = 10

// Format selects an output encoding.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// ParseFormat accepts "text", "markdown" (or "md") and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Report is the renderable view of one successful load.
type Report struct {
	Profile        *models.Profile    `json:"profile"`
	Range          models.TimeRange   `json:"time_range"`
	TopGenre       string             `json:"top_genre"`
	TopArtists     []models.Artist    `json:"top_artists"`
	TopTracks      []models.Track     `json:"top_tracks"`
	RecentlyPlayed []models.PlayEvent `json:"recently_played"`
	Playlists      []models.Playlist  `json:"playlists"`
}

// NewReport selects the slices for r from snap, truncating each list to limit (non-positive means [DefaultLimit]).
func NewReport(profile *models.Profile, snap *models.Snapshot, r models.TimeRange, limit int) *Report {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if profile == nil {
		profile = &models.Profile{}
	}

	state := view.State{Tab: view.Overview, Range: r}
	artists := state.Artists(snap)

	report := &Report{
		Profile:    profile,
		Range:      r,
		TopGenre:   view.TopGenre(artists),
		TopArtists: head(artists, limit),
		TopTracks:  head(state.Tracks(snap), limit),
	}
	if snap != nil {
		report.RecentlyPlayed = head(snap.RecentlyPlayed, limit)
		report.Playlists = head(snap.Playlists, limit)
	}
	return report
}

func head[T any](items []T, n int) []T {
	if items == nil {
		return []T{}
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

// Render encodes report in format.
func Render(report *Report, format Format) ([]byte, error) {
	switch format {
	case Text:
		return ToText(report)
	case Markdown:
		return ToMarkdown(report)
	case JSON:
		return ToJSON(report)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ToJSON encodes the report as indented JSON.
func ToJSON(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// ToText converts a report to plain text.
func ToText(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "User: %s\n", displayName(report.Profile))
	fmt.Fprintf(&buf, "Range: %s\n", report.Range.Label())
	fmt.Fprintf(&buf, "Top genre: %s\n\n", report.TopGenre)

	buf.WriteString("Top artists:\n")
	for i, a := range report.TopArtists {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, a.Name)
	}

	buf.WriteString("\nTop tracks:\n")
	for i, t := range report.TopTracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, artistLine(t), t.Name)
	}

	buf.WriteString("\nRecently played:\n")
	for i, e := range report.RecentlyPlayed {
		fmt.Fprintf(&buf, "%d. %s - %s (%s)\n", i+1, artistLine(e.Track), e.Track.Name, playedAt(e.PlayedAt))
	}

	buf.WriteString("\nPlaylists:\n")
	for i, p := range report.Playlists {
		fmt.Fprintf(&buf, "%d. %s [%d tracks]\n", i+1, p.Name, p.TrackCount)
	}

	return buf.Bytes(), nil
}

// ToMarkdown converts a report to Markdown.
func ToMarkdown(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", displayName(report.Profile))
	if report.Profile.ImageURL != "" {
		fmt.Fprintf(&buf, "![Avatar](%s)\n\n", report.Profile.ImageURL)
	}
	fmt.Fprintf(&buf, "**Range**: %s\n", report.Range.Label())
	fmt.Fprintf(&buf, "**Top genre**: %s\n\n", report.TopGenre)

	buf.WriteString("## Top Artists\n\n")
	for i, a := range report.TopArtists {
		genres := ""
		if len(a.Genres) > 0 {
			genres = fmt.Sprintf(" (%s)", strings.Join(a.Genres, ", "))
		}
		fmt.Fprintf(&buf, "%d. %s%s\n", i+1, a.Name, genres)
	}

	buf.WriteString("\n## Top Tracks\n\n")
	for i, t := range report.TopTracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, artistLine(t), t.Name)
	}

	buf.WriteString("\n## Recently Played\n\n")
	for i, e := range report.RecentlyPlayed {
		fmt.Fprintf(&buf, "%d. %s - %s *%s*\n", i+1, artistLine(e.Track), e.Track.Name, playedAt(e.PlayedAt))
	}

	buf.WriteString("\n## Playlists\n\n")
	for i, p := range report.Playlists {
		fmt.Fprintf(&buf, "%d. %s [%d tracks]\n", i+1, p.Name, p.TrackCount)
	}

	return buf.Bytes(), nil
}

func displayName(p *models.Profile) string {
	if p == nil || p.DisplayName == "" {
		return "Unknown user"
	}
	return p.DisplayName
}

func artistLine(t models.Track) string {
	if len(t.Artists) == 0 {
		return "Unknown artist"
	}
	return strings.Join(t.ArtistNames(), ", ")
}

func playedAt(t time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

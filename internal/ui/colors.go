package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#1DB954", "#04B575", "#E22134", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	active   lipgloss.Style
	inactive lipgloss.Style
}

// NewPalette builds a palette from the accent, success, error, warning and muted colors.
func NewPalette(accent, success, failure, warning, muted string) *Palette {
	return &Palette{
		title:    NewBold(accent).MarginBottom(1),
		ok:       NewBold(success),
		err:      NewBold(failure),
		warn:     NewStyle(warning),
		help:     NewEm(muted),
		active:   NewBold(accent).Underline(true).Padding(0, 1),
		inactive: NewStyle(muted).Padding(0, 1),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// tab renders label highlighted when selected.
func (p *Palette) tab(label string, selected bool) string {
	if selected {
		return p.active.Render(label)
	}
	return p.inactive.Render(label)
}

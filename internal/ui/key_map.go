package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next   key.Binding
	prev   key.Binding
	short  key.Binding
	medium key.Binding
	long   key.Binding
	login  key.Binding
	reload key.Binding
	logout key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:   key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab")),
		prev:   key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "prev tab")),
		short:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "last month")),
		medium: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "6 months")),
		long:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "all time")),
		login:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log in")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		logout: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log out")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev},
		{k.short, k.medium, k.long},
		{k.reload, k.logout, k.quit},
	}
}

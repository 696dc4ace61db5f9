package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/songsmith/internal/session"
	"github.com/desertthunder/songsmith/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStateChanged MsgKind = iota
	MsgNavigate
	MsgLoginDone
)

// stateUpdate is the payload of [MsgStateChanged]; source identifies the subscription it came from.
type stateUpdate struct {
	source <-chan tasks.LoadState
	state  tasks.LoadState
}

// stateChangedMsg is the constructor for [MsgStateChanged]
func stateChangedMsg(source <-chan tasks.LoadState, state tasks.LoadState) Msg {
	return Msg{kind: MsgStateChanged, data: stateUpdate{source: source, state: state}}
}

// navigateMsg is the constructor for [MsgNavigate]
func navigateMsg(nav session.Navigation) Msg {
	return Msg{kind: MsgNavigate, data: nav}
}

// loginResult is the payload of [MsgLoginDone].
type loginResult struct {
	nav session.Navigation
	err error
}

// loginDoneMsg is the constructor for [MsgLoginDone]
func loginDoneMsg(nav session.Navigation, err error) Msg {
	return Msg{kind: MsgLoginDone, data: loginResult{nav: nav, err: err}}
}

// Navigations is a [session.Navigator] backed by a channel the TUI reads from.
//
// It holds only the latest navigation; an unread one is replaced.
type Navigations chan session.Navigation

func NewNavigations() Navigations {
	return make(Navigations, 1)
}

// Navigate queues nav without blocking.
func (n Navigations) Navigate(nav session.Navigation) {
	select {
	case n <- nav:
		return
	default:
	}
	select {
	case <-n:
	default:
	}
	select {
	case n <- nav:
	default:
	}
}

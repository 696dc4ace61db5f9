// Package ui implements the interactive dashboard using bubbletea's Elm architecture.
//
// The TUI has three routes:
//  1. [Home] : signed out, offers to start the browser login
//  2. [AuthSuccess] : waiting for the authorization callback
//  3. [Dashboard] : profile and music taste, loaded by a [tasks.Loader]
//
// Entering [Dashboard] goes through a [session.Guard]; a missing session lands on [Home] without a request.
// Load states arrive through the loader's subscription and navigations (such as the redirect after an expired
// session) through a [Navigations] channel, each read by a tea.Cmd that re-arms itself.
//
// Tab and time range selection only change the [view.Machine]; they never trigger a fetch.
package ui

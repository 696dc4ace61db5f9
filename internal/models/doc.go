// Package models defines the read models shown by the songsmith dashboard.
//
// [Profile] is the signed-in user. [Snapshot] aggregates the "music taste" view:
//   - top [Artist] and [Track] lists per [TimeRange]
//   - recently played history as [PlayEvent]s
//   - the user's [Playlist]s and saved tracks
//
// Values are decoded from the backend's JSON (which mirrors Spotify Web API objects) by [DecodeProfile]
// and [DecodeSnapshot]. A snapshot is immutable once decoded and is replaced wholesale on the next load.
package models

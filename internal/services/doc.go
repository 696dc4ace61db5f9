// Package services holds both sides of the songsmith HTTP contract.
//
// # Backend Client
//
// [BackendClient] is what the terminal client uses to reach the backend: /user-profile, /music-taste and
// /refresh-token. Responses are classified into the shared error taxonomy:
//   - [shared.ErrAuthExpired] : HTTP 401
//   - [shared.ErrResourceFetch] : any other non-2xx status or an undecodable body
//   - [shared.ErrTransport] : the request never produced a response (also matches ErrResourceFetch)
//
// # Spotify Implementation
//
// [SpotifyService] implements [Service] for the backend. Authorization and refresh use [oauth2.Config];
// Web API reads go through github.com/zmb3/spotify/v2 with a static bearer token per request, so the
// backend holds no user state. [SpotifyService.MusicTaste] fans out its nine reads with an errgroup and
// paces them with a [rate.Limiter].
//
// Upstream 401s are reported as [shared.ErrAuthExpired] so the backend can answer 401 and let the client
// refresh.
package services

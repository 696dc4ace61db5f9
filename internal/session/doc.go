// Package session owns the client's token lifecycle.
//
// # Storage
//
// A [Store] is the only place the access and refresh tokens are read or written. Two string values are kept
// under fixed keys ([AccessTokenKey], [RefreshTokenKey]) and live only as long as the process:
//   - [MemoryStore] is a mutex-guarded map, used by tests and the `memory` driver.
//   - [SQLStore] keeps the same keys in an in-memory SQLite database created from the embedded migrations.
//
// [Store.Set] writes only the tokens it is given, so storing a refreshed access token keeps the refresh token.
//
// # Guard
//
// [Guard.Enter] decides whether the protected dashboard may be shown. It never mutates tokens.
//
// # Refresh
//
// [Refresher] exchanges the refresh token for a new access token. Concurrent callers share a single backend
// request through [singleflight.Group]; a caller that gives up waiting does not cancel the shared request.
//
// # Routes
//
// [CompleteAuth] implements the authorization-success callback and returns the [Navigation] the client should
// perform. [RouteHome] is the unauthenticated entry point and [RouteDashboard] the protected view.
package session

// Package server provides HTTP routing, middleware, and the handlers of both songsmith processes.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] runs in registration order: the first one added sees the request first.
// [Logging] and [Recover] are the stock middleware.
//
// The [BasicRouter] implementation registers method patterns ("GET /health") on an [http.ServeMux].
//
// # Backend
//
// [NewBackend] assembles the companion backend:
//
//	GET /spotify/login     → redirect to Spotify with a fresh state
//	GET /spotify/callback  → validate state, exchange code, redirect to <frontend>/auth-success
//	GET /refresh-token     → refresh-token grant; 401 when Spotify rejects it
//	GET /user-profile      → current user; 401 when the access token is expired
//	GET /music-taste       → taste report; 401 when the access token is expired
//
// Other upstream failures answer 502, missing parameters 400. Error bodies are {"detail": "..."}.
//
// # Authorization Callback
//
// On the client side, [CallbackServer] listens for the single /auth-success redirect of a login.
// [AuthSuccessHandler] stores the tokens through the session package and reports where the client
// should navigate. It only processes one callback to prevent replays.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server

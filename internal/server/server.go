package server

import (
	"net/http"
)

// Middleware decorates an [http.Handler]; see [Logging] and [Recover].
type Middleware func(http.Handler) http.Handler

// Handler serves a group of related endpoints ([OAuthHandler], [APIHandler], [AuthSuccessHandler]).
type Handler interface {
	http.Handler
	Routes() []string // exact paths, registered for every method
}

// Router registers handlers behind a shared middleware stack.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	Patterns() []string
}

var (
	_ Router  = (*BasicRouter)(nil)
	_ Handler = (*OAuthHandler)(nil)
	_ Handler = (*APIHandler)(nil)
	_ Handler = (*AuthSuccessHandler)(nil)
)

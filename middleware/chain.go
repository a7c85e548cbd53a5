// ABOUTME: Helper for composing HTTP middleware around a handler
// ABOUTME: Wraps inside-out so the first middleware listed runs first

package middleware

import "net/http"

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Chain wraps h with the given middleware, outermost first: Chain(h, a, b)
// serves requests as a(b(h)).
func Chain(h http.HandlerFunc, middlewares ...Middleware) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

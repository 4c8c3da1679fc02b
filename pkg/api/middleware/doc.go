// Package middleware provides the HTTP middleware chain for the API server.
//
// Every middleware has the shape func(http.Handler) http.Handler and is
// applied outermost-first by Chain:
//
//	handler := middleware.Chain(mux,
//		middleware.PanicRecovery(logger),
//		middleware.RequestID(),
//		middleware.Logging(logger),
//		middleware.Metrics(registry),
//	)
package middleware

import "net/http"

// Chain wraps h so that the first middleware listed runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader carries the request ID on both request and response so
// operators can correlate client reports with server logs.
const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware assigns each request an ID. An incoming ID from a
// trusted proxy is kept; otherwise a new one is generated. The ID is echoed
// on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// RequestID returns the ID assigned to the request, or "" before the
// middleware has run.
func RequestID(r *http.Request) string {
	return r.Header.Get(requestIDHeader)
}

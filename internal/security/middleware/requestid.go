package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type RequestIDContextKey struct{}

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request id to the context and response. An inbound
// X-Request-ID from a trusted proxy is propagated, otherwise one is minted.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), RequestIDContextKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id, or ""
func RequestIDFromContext(ctx context.Context) string {
	if id := ctx.Value(RequestIDContextKey{}); id != nil {
		return id.(string)
	}
	return ""
}

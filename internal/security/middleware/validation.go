package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

// ValidateContentType ensures mutating requests carry a JSON body, except
// for the upload endpoints which take multipart form data.
func ValidateContentType(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if strings.Contains(contentType, "application/json") ||
				strings.Contains(contentType, "multipart/form-data") ||
				strings.Contains(contentType, "application/x-www-form-urlencoded") {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn("invalid content type",
				slog.String("path", r.URL.Path),
				slog.String("content_type", contentType),
				slog.String("method", r.Method),
			)
			http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
		})
	}
}

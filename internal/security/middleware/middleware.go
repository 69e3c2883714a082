package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/httpapi"
	"github.com/openhire/jobboard/internal/security/auth"
	"github.com/openhire/jobboard/internal/security/ratelimit"
)

type CompanyContextKey struct{}
type SeekerContextKey struct{}

// CompanyAuth validates the company bearer token, loads the company record
// and attaches it to the request context. Absent, malformed or expired
// tokens and tokens for a vanished company all fail with 401.
func CompanyAuth(tm *auth.TokenManager, companies domain.CompanyRepository, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httpapi.Error(w, log, domain.Unauthorized("missing bearer token"))
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				httpapi.Error(w, log, domain.Unauthorized("invalid authorization header"))
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				httpapi.Error(w, log, domain.Unauthorized("invalid or expired token"))
				return
			}

			company, err := companies.GetByID(claims.CompanyID)
			if err != nil {
				httpapi.Error(w, log, domain.Unauthorized("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), CompanyContextKey{}, company)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SeekerAuth resolves the job-seeker identity token via the identity
// provider and attaches the external user id to the request context. No
// local credential handling happens for this actor type.
func SeekerAuth(provider domain.IdentityProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httpapi.Error(w, log, domain.Unauthorized("missing identity token"))
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				httpapi.Error(w, log, domain.Unauthorized("invalid authorization header"))
				return
			}

			externalID, err := provider.VerifyToken(r.Context(), tokenString)
			if err != nil {
				httpapi.Error(w, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), SeekerContextKey{}, externalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitByIP applies a strict sliding-window limit keyed by client IP.
// Used on credential endpoints to slow brute force.
func RateLimitByIP(limiter *ratelimit.Limiter, maxReqs int, window time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.AllowStrict(ip, maxReqs, window) {
				log.Warn("rate limit exceeded",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				httpapi.Respond(w, http.StatusTooManyRequests, nil, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CompanyFromContext returns the authenticated company, or nil
func CompanyFromContext(ctx context.Context) *domain.Company {
	if c := ctx.Value(CompanyContextKey{}); c != nil {
		return c.(*domain.Company)
	}
	return nil
}

// SeekerFromContext returns the authenticated seeker's external id, or ""
func SeekerFromContext(ctx context.Context) string {
	if s := ctx.Value(SeekerContextKey{}); s != nil {
		return s.(string)
	}
	return ""
}

package api

import (
	"encoding/json/v2"
	"log/slog"
	"net"
	"net/http"

	domainerrors "github.com/rasa-media/rasa-server/internal/errors"
	"github.com/rasa-media/rasa-server/internal/ratelimit"
)

// syncRateLimit throttles POST /api/v1/sync per client IP. It runs after
// RealIP, so proxy headers are already resolved into RemoteAddr and a
// spoofed header cannot mint a fresh bucket for a direct client.
func syncRateLimit(limiter *ratelimit.Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/v1/sync" {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r.RemoteAddr)
			if !limiter.Allow(key) {
				logger.Warn("sync rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				writeAPIError(w, &APIError{
					status:  http.StatusTooManyRequests,
					Code:    string(domainerrors.CodeRateLimited),
					Message: "too many sync requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from a remote address.
func clientIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// writeAPIError emits the same error shape huma produces, for responses
// written before a request reaches a huma operation.
func writeAPIError(w http.ResponseWriter, apiErr *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.GetStatus())
	_ = json.MarshalWrite(w, apiErr)
}

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"hrportal/internal/transport/http/api"
)

// LoginRateLimit caps login attempts per client IP.
func LoginRateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		}),
	)
}

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"hrportal/internal/platform/requestctx"
	"hrportal/internal/transport/http/shared"
)

const maxRequestIDLength = 128

// RequestID tags the request with X-Request-ID (generated when absent or
// oversized) and records the client address for the audit trail.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" || len(reqID) > maxRequestIDLength {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := requestctx.WithRequestID(r.Context(), reqID)
		ctx = requestctx.WithClientIP(ctx, shared.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
)

// CookieName carries the session token for browser clients.
const CookieName = "auth-token"

type ctxKey string

const ctxKeyUser ctxKey = "principal"

type Verifier interface {
	Verify(ctx context.Context, token string) (auth.Principal, error)
}

// Authenticate resolves the principal from the auth-token cookie, falling
// back to a bearer token when the cookie is absent or fails verification.
// Requests with no valid credentials continue anonymously; gated routes
// reject them with RequireAuth.
func Authenticate(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, token := range tokensFromRequest(r) {
				principal, err := verifier.Verify(r.Context(), token)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), principal)))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokensFromRequest(r *http.Request) []string {
	var tokens []string
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && (len(tokens) == 0 || parts[1] != tokens[0]) {
		tokens = append(tokens, parts[1])
	}
	return tokens
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Unauthorized(w, GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyUser, p)
}

func GetUser(ctx context.Context) (auth.Principal, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.Principal)
	return user, ok
}

// OptionalUser returns nil for anonymous requests.
func OptionalUser(ctx context.Context) *auth.Principal {
	user, ok := GetUser(ctx)
	if !ok {
		return nil
	}
	return &user
}

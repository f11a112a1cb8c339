package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/errs"
	"hrportal/internal/platform/requestctx"
)

type tokenVerifier map[string]auth.Principal

func (v tokenVerifier) Verify(_ context.Context, token string) (auth.Principal, error) {
	p, ok := v[token]
	if !ok {
		return auth.Principal{}, errs.ErrUnauthorized
	}
	return p, nil
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUser(r.Context())
	if !ok {
		_, _ = io.WriteString(w, "anonymous")
		return
	}
	_, _ = io.WriteString(w, user.Email)
}

func TestAuthenticate(t *testing.T) {
	verifier := tokenVerifier{
		"cookie-token": {UserID: 1, Email: "cookie@acme.test"},
		"bearer-token": {UserID: 2, Email: "bearer@acme.test"},
	}
	h := Authenticate(verifier)(http.HandlerFunc(whoAmI))

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"no credentials", func(*http.Request) {}, "anonymous"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"}) }, "cookie@acme.test"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer bearer-token") }, "bearer@acme.test"},
		{"cookie wins", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
			r.Header.Set("Authorization", "Bearer bearer-token")
		}, "cookie@acme.test"},
		{"stale cookie falls back to bearer", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: "expired-token"})
			r.Header.Set("Authorization", "Bearer bearer-token")
		}, "bearer@acme.test"},
		{"stale cookie without bearer", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: "expired-token"})
		}, "anonymous"},
		{"invalid token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer forged") }, "anonymous"},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic bearer-token") }, "anonymous"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(whoAmI))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
	assert.NotContains(t, body, "data")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rec, req.WithContext(WithUser(req.Context(), auth.Principal{UserID: 9, Email: "x@acme.test"})))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "x@acme.test", rec.Body.String())
}

func TestRequestID(t *testing.T) {
	var seenID, seenIP string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		seenIP = requestctx.GetClientIP(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seenID)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "10.1.2.3", seenIP)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 500))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Len(t, seenID, 36)
}

type statusCounter struct{ statuses []int }

func (c *statusCounter) Record(status int, _ time.Duration) { c.statuses = append(c.statuses, status) }

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	counter := &statusCounter{}
	h := Logger(logger, counter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	assert.Equal(t, []int{http.StatusTeapot}, counter.statuses)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "/api/jobs", line["path"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
}

func TestBodyLimit(t *testing.T) {
	h := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
		}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestLoginRateLimit(t *testing.T) {
	h := LoginRateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestSecureHeaders(t *testing.T) {
	h := SecureHeaders(false)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

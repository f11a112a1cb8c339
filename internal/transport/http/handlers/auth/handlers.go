package authhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service      *auth.Service
	SecureCookie bool
	LoginLimit   func(http.Handler) http.Handler
}

// NewHandler wires the auth routes. loginLimit may be nil.
func NewHandler(service *auth.Service, secureCookie bool, loginLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{Service: service, SecureCookie: secureCookie, LoginLimit: loginLimit}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type loginResponse struct {
	User  auth.Principal `json:"user"`
	Token string         `json:"token"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		if h.LoginLimit != nil {
			r.With(h.LoginLimit).Post("/login", h.handleLogin)
		} else {
			r.Post("/login", h.handleLogin)
		}
		r.Post("/logout", h.handleLogout)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
		r.With(middleware.RequireAuth).Post("/mfa/setup", h.handleMFASetup)
		r.With(middleware.RequireAuth).Post("/mfa/enable", h.handleMFAEnable)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}

	principal, token, err := h.Service.Login(r.Context(), payload.Email, payload.Password, payload.MFACode)
	if err != nil {
		if errors.Is(err, auth.ErrMFARequired) {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", reqID)
			return
		}
		api.FailError(w, err, reqID)
		return
	}

	http.SetCookie(w, h.cookie(token, int(h.Service.TTL()/time.Second)))
	slog.Info("login succeeded", "userId", principal.UserID, "companyId", principal.CompanyID, "requestId", reqID)
	api.Success(w, loginResponse{User: principal, Token: token}, reqID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if user, ok := middleware.GetUser(r.Context()); ok {
		if err := h.Service.Logout(r.Context(), user); err != nil {
			slog.Warn("session revoke failed", "userId", user.UserID, "err", err)
		}
	}
	http.SetCookie(w, h.cookie("", -1))
	api.Success(w, map[string]bool{"loggedOut": true}, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	me, err := h.Service.Me(r.Context(), user)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, map[string]auth.User{"user": me}, reqID)
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	secret, url, err := h.Service.SetupMFA(r.Context(), user)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"secret": secret, "otpauthUrl": url}, reqID)
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload mfaCodeRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if err := h.Service.EnableMFA(r.Context(), user, payload.Code); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"mfaEnabled": true}, reqID)
}

func (h *Handler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

package webhookhandler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

// Handler acknowledges inbound webhooks. Payloads are logged and not
// forwarded anywhere.
type Handler struct {
	Logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/webhook", h.handlePing)
	r.Post("/webhook", h.handleReceive)
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReceive(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error("webhook read failed", "err", err, "request_id", reqID)
		api.Fail(w, http.StatusInternalServerError, "webhook_failed", "failed to process webhook", reqID)
		return
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		h.Logger.Error("webhook parse failed", "err", err, "request_id", reqID)
		api.Fail(w, http.StatusInternalServerError, "webhook_failed", "failed to process webhook", reqID)
		return
	}
	h.Logger.Info("webhook received", "request_id", reqID, "payload", payload)
	api.Success(w, map[string]bool{"received": true}, reqID)
}

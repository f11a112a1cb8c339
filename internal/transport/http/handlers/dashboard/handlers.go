package dashboardhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/dashboard"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

type Handler struct {
	Service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/public/stats", h.handleStats)
}

// handleStats answers anonymous callers with platform-wide counts and
// signed-in callers with figures for their own company only.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	overview, err := h.Service.Overview(r.Context(), middleware.OptionalUser(r.Context()))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, overview, reqID)
}

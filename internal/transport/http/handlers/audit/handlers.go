package audithandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Reader interface {
	Count(ctx context.Context, companyID int64, filter audit.Filter) (int, error)
	List(ctx context.Context, companyID int64, filter audit.Filter, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service Reader
}

func NewHandler(service Reader) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	scope, err := auth.Authorize(user, auth.ActionAuditRead)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	page, err := shared.ParsePagination(r)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	actorID, err := shared.QueryID(r, "actorId")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorID:    actorID,
	}
	total, err := h.Service.Count(r.Context(), scope.CompanyID, filter)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	events, err := h.Service.List(r.Context(), scope.CompanyID, filter, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, shared.NewPage(events, total, page), reqID)
}

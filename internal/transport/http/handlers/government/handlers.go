package govhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/government"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *government.Service
}

func NewHandler(service *government.Service) *Handler {
	return &Handler{Service: service}
}

type submitRequest struct {
	EmployeeID int64           `json:"employeeId"`
	Action     string          `json:"action"`
	Payload    json.RawMessage `json:"payload"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/government", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleAgencies)
		r.Post("/{agency}", h.handleSubmit)
	})
}

func (h *Handler) handleAgencies(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]any{"agencies": h.Service.Agencies()}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload submitRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	receipt, err := h.Service.Submit(r.Context(), user, chi.URLParam(r, "agency"), government.Request{
		EmployeeID: payload.EmployeeID,
		Action:     payload.Action,
		Payload:    payload.Payload,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, receipt, reqID)
}

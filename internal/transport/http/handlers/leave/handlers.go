package leavehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/leave"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

type applyLeaveRequest struct {
	Type      string `json:"type" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason" validate:"max=1000"`
}

type decideLeaveRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=1000"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleApply)
		r.Get("/balance", h.handleBalance)
		r.Put("/{id}/status", h.handleDecide)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page, err := shared.ParsePagination(r)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	employeeID, err := shared.QueryID(r, "employeeId")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	leaves, total, err := h.Service.List(r.Context(), user, leave.Filter{
		EmployeeID: employeeID,
		Status:     shared.QueryEnum(r, "status"),
		Type:       shared.QueryEnum(r, "type"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, shared.NewPage(leaves, total, page), reqID)
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload applyLeaveRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	start, err := shared.DateField("startDate", payload.StartDate)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	end, err := shared.DateField("endDate", payload.EndDate)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	created, err := h.Service.Apply(r.Context(), user, leave.NewLeave{
		Type:      payload.Type,
		StartDate: start,
		EndDate:   end,
		Reason:    payload.Reason,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	var payload decideLeaveRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	decided, err := h.Service.Decide(r.Context(), user, id, leave.Decision{Status: payload.Status, Note: payload.Note})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, decided, reqID)
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID, err := shared.QueryID(r, "employeeId")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	report, err := h.Service.Balance(r.Context(), user, employeeID)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, report, reqID)
}

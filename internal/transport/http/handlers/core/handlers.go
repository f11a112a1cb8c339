package corehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/core"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
}

func NewHandler(service *core.Service) *Handler {
	return &Handler{Service: service}
}

type createEmployeeRequest struct {
	EmployeeID   string `json:"employeeId" validate:"required,max=32"`
	FirstName    string `json:"firstName" validate:"required,max=100"`
	LastName     string `json:"lastName" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Department   string `json:"department" validate:"max=100"`
	Position     string `json:"position" validate:"max=100"`
	LeaveBalance *int   `json:"leaveBalance" validate:"omitempty,gte=0"`
	DateJoined   string `json:"dateJoined" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/company", h.handleCompany)
		r.Get("/employee/profile", h.handleProfile)
		r.Get("/employees", h.handleListEmployees)
		r.Post("/employees", h.handleCreateEmployee)
		r.Get("/employees/{id}", h.handleGetEmployee)
		r.Put("/employees/{id}", h.handleUpdateEmployee)
	})
}

func (h *Handler) handleCompany(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	company, err := h.Service.Company(r.Context(), user)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, company, reqID)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	profile, err := h.Service.Profile(r.Context(), user)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, profile, reqID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page, err := shared.ParsePagination(r)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	q := r.URL.Query()
	employees, total, err := h.Service.ListEmployees(r.Context(), user, core.EmployeeFilter{
		Department: q.Get("department"),
		Status:     shared.QueryEnum(r, "status"),
		Search:     q.Get("search"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, shared.NewPage(employees, total, page), reqID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	emp, err := h.Service.GetEmployee(r.Context(), user, id)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload createEmployeeRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	joined, err := shared.DateField("dateJoined", payload.DateJoined)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	emp, err := h.Service.CreateEmployee(r.Context(), user, core.NewEmployee{
		EmployeeNumber: payload.EmployeeID,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Email:          payload.Email,
		Department:     payload.Department,
		Position:       payload.Position,
		LeaveBalance:   payload.LeaveBalance,
		DateJoined:     joined,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, emp, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	var patch core.EmployeePatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	emp, err := h.Service.UpdateEmployee(r.Context(), user, id, patch)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, emp, reqID)
}

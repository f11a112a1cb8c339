package jobshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/recruitment"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *recruitment.Service
}

func NewHandler(service *recruitment.Service) *Handler {
	return &Handler{Service: service}
}

type createJobRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Department     string   `json:"department" validate:"max=100"`
	Location       string   `json:"location" validate:"max=200"`
	EmploymentType string   `json:"employmentType"`
	Description    string   `json:"description"`
	SalaryMin      *float64 `json:"salaryMin" validate:"omitempty,gte=0"`
	SalaryMax      *float64 `json:"salaryMax" validate:"omitempty,gte=0"`
	ClosesAt       string   `json:"closesAt"`
}

// RegisterRoutes mounts the job board. Listing is open to anonymous
// callers, who see open postings across companies.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", h.handleCreate)
			r.Put("/{id}/close", h.handleClose)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page, err := shared.ParsePagination(r)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	jobs, total, err := h.Service.List(r.Context(), middleware.OptionalUser(r.Context()), recruitment.Filter{
		Status:     shared.QueryEnum(r, "status"),
		Department: r.URL.Query().Get("department"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, shared.NewPage(jobs, total, page), reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload createJobRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	var closesAt *time.Time
	if payload.ClosesAt != "" {
		t, err := shared.DateField("closesAt", payload.ClosesAt)
		if err != nil {
			api.FailError(w, err, reqID)
			return
		}
		closesAt = &t
	}
	job, err := h.Service.Create(r.Context(), user, recruitment.NewJob{
		Title:          payload.Title,
		Department:     payload.Department,
		Location:       payload.Location,
		EmploymentType: payload.EmploymentType,
		Description:    payload.Description,
		SalaryMin:      payload.SalaryMin,
		SalaryMax:      payload.SalaryMax,
		ClosesAt:       closesAt,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, job, reqID)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	job, err := h.Service.Close(r.Context(), user, id)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, job, reqID)
}

package payrollhandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/payroll"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

type createPayrollRequest struct {
	EmployeeID  int64   `json:"employeeId" validate:"required,gt=0"`
	Month       int     `json:"month" validate:"required,gte=1,lte=12"`
	Year        int     `json:"year" validate:"required,gte=1900,lte=9999"`
	BasicSalary float64 `json:"basicSalary" validate:"gte=0"`
	Allowances  float64 `json:"allowances" validate:"gte=0"`
	Deductions  float64 `json:"deductions" validate:"gte=0"`
}

type updatePayrollRequest struct {
	BasicSalary *float64 `json:"basicSalary" validate:"omitempty,gte=0"`
	Allowances  *float64 `json:"allowances" validate:"omitempty,gte=0"`
	Deductions  *float64 `json:"deductions" validate:"omitempty,gte=0"`
	Status      *string  `json:"status"`
	PaidAt      *string  `json:"paidAt"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/stats", h.handleStats)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Get("/{id}/payslip", h.handlePayslip)
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
	month, year, err := shared.QueryPeriod(r)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	rows, total, err := h.Service.List(r.Context(), user, payroll.Filter{
		EmployeeID: employeeID, Month: month, Year: year, Limit: page.Limit, Offset: page.Offset,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, shared.NewPage(rows, total, page), reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	row, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, row, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload createPayrollRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	row, err := h.Service.Create(r.Context(), user, payroll.NewPayroll{
		EmployeeID:  payload.EmployeeID,
		Month:       payload.Month,
		Year:        payload.Year,
		BasicSalary: payload.BasicSalary,
		Allowances:  payload.Allowances,
		Deductions:  payload.Deductions,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, row, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	var payload updatePayrollRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	patch := payroll.Patch{
		BasicSalary: payload.BasicSalary,
		Allowances:  payload.Allowances,
		Deductions:  payload.Deductions,
		Status:      payload.Status,
	}
	if payload.PaidAt != nil {
		paidAt, err := parseTimestamp(*payload.PaidAt)
		if err != nil {
			api.FailError(w, err, reqID)
			return
		}
		patch.PaidAt = &paidAt
	}
	row, err := h.Service.Update(r.Context(), user, id, patch)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, row, reqID)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	month, year, err := shared.QueryPeriod(r)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	stats, err := h.Service.Stats(r.Context(), user, month, year)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, stats, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	pdf, name, err := h.Service.Payslip(r.Context(), user, id)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// parseTimestamp accepts RFC3339 or a bare date.
func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return shared.DateField("paidAt", raw)
}

package documenthandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/documents"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *documents.Service
}

func NewHandler(service *documents.Service) *Handler {
	return &Handler{Service: service}
}

type createDocumentRequest struct {
	EmployeeID int64  `json:"employeeId" validate:"gte=0"`
	Title      string `json:"title" validate:"required,max=200"`
	Category   string `json:"category"`
	FileURL    string `json:"fileUrl" validate:"required,url"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Delete("/{id}", h.handleDelete)
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
	docs, total, err := h.Service.List(r.Context(), user, documents.Filter{
		EmployeeID: employeeID,
		Category:   shared.QueryEnum(r, "category"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, shared.NewPage(docs, total, page), reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	doc, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, doc, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload createDocumentRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	doc, err := h.Service.Create(r.Context(), user, documents.NewDocument{
		EmployeeID: payload.EmployeeID,
		Title:      payload.Title,
		Category:   payload.Category,
		FileURL:    payload.FileURL,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, doc, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if err := h.Service.Delete(r.Context(), user, id); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"deleted": true, "id": id}, reqID)
}

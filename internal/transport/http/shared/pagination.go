package shared

import (
	"net/http"
	"strconv"

	"hrportal/internal/domain/errs"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ParsePagination reads limit and offset. Limit is capped at MaxLimit.
func ParsePagination(r *http.Request) (Pagination, error) {
	p := Pagination{Limit: DefaultLimit}
	var issues []errs.Issue
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			issues = append(issues, errs.Issue{Field: "limit", Reason: "must be a positive integer"})
		} else {
			p.Limit = min(v, MaxLimit)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			issues = append(issues, errs.Issue{Field: "offset", Reason: "must be a non-negative integer"})
		} else {
			p.Offset = v
		}
	}
	return p, errs.NewValidation(issues)
}

// Page is the list payload shape.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func NewPage[T any](items []T, total int, p Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}
}

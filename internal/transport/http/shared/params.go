package shared

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/errs"
)

// PathID parses a positive 64-bit id from the chi route.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

// QueryID parses an optional positive id; absent means zero.
func QueryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

// QueryPeriod parses optional month and year filters.
func QueryPeriod(r *http.Request) (month, year int, err error) {
	var issues []errs.Issue
	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 1 || v > 12 {
			issues = append(issues, errs.Issue{Field: "month", Reason: "must be between 1 and 12"})
		}
		month = v
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 1900 || v > 9999 {
			issues = append(issues, errs.Issue{Field: "year", Reason: "must be between 1900 and 9999"})
		}
		year = v
	}
	if err := errs.NewValidation(issues); err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

// QueryEnum upper-cases an optional enum filter.
func QueryEnum(r *http.Request, name string) string {
	return strings.ToUpper(strings.TrimSpace(r.URL.Query().Get(name)))
}

func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

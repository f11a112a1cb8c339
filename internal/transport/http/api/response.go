package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hrportal/internal/domain/errs"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

func Unauthorized(w http.ResponseWriter, requestID string) {
	Fail(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", requestID)
}

// FailError maps a domain error onto the envelope. Anything outside the
// errs taxonomy is logged and reported as a generic 500.
func FailError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		FailWithDetails(w, http.StatusBadRequest, "validation_error", "validation failed", errs.Issues(err), requestID)
	case errors.Is(err, errs.ErrUnauthorized):
		Unauthorized(w, requestID)
	case errors.Is(err, errs.ErrNotFound):
		Fail(w, http.StatusNotFound, "not_found", "not found", requestID)
	case errors.Is(err, errs.ErrConflict):
		Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	default:
		slog.Error("request failed", "requestId", requestID, "err", err)
		Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

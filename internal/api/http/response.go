package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Error *errorBody  `json:"error,omitempty"`
	Meta  *pageMeta   `json:"meta,omitempty"`
}

type pageMeta struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
	Total    int32 `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Data: data})
}

func respondPage(w http.ResponseWriter, data interface{}, page, pageSize, total int32) {
	writeJSON(w, http.StatusOK, envelope{Data: data, Meta: &pageMeta{Page: page, PageSize: pageSize, Total: total}})
}

// respondError maps the domain error taxonomy to HTTP statuses. This is the
// only place status codes are chosen; services never see HTTP.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrPaymentFailed):
		status, code = http.StatusPaymentRequired, "payment_failed"
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusUnprocessableEntity, "validation"
	case errors.Is(err, domain.ErrDependencyUnavailable):
		status, code = http.StatusInternalServerError, "dependency_unavailable"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, envelope{Error: &errorBody{Code: code, Message: msg}})
}

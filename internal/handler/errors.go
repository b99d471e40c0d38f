package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/travel-planner/internal/auth"
	"github.com/pkordes/travel-planner/internal/domain"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// respondError maps a service error to its status and error body. Anything
// unrecognized is a 500 whose detail is logged, never returned.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var missing *domain.MissingError
	var dup *domain.DuplicateError
	switch {
	case errors.Is(err, errBodyTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request_too_large", err.Error()))
	case errors.Is(err, auth.ErrEmailExists):
		writeJSON(w, http.StatusBadRequest, errorBody("email_exists", "a user with this email already exists"))
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid_credentials", err.Error()))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody("validation_error", unwrapMessage(err)))
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthenticated", "authentication required"))
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody("forbidden", "you are not authorized to perform this action"))
	case errors.As(err, &missing):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", missing.Error()))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", unwrapMessage(err)))
	case errors.As(err, &dup):
		writeJSON(w, http.StatusBadRequest, errorBody("duplicate", dup.Error()))
	case errors.Is(err, domain.ErrDuplicate):
		writeJSON(w, http.StatusBadRequest, errorBody("duplicate", "entry already exists in the trip"))
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("conflict", "the resource was modified concurrently, please retry"))
	default:
		log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Update: validation error: name: must not be empty" → "name: must not be empty"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for strings.HasPrefix(msg, "service.") || strings.HasPrefix(msg, "repo.") {
		_, rest, ok := strings.Cut(msg, ": ")
		if !ok {
			break
		}
		msg = rest
	}
	return strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
}

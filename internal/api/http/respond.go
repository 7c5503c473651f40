package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"hireshop-backend/internal/availability"
	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/pricing"
	"hireshop-backend/internal/repository"
	"hireshop-backend/internal/security"
	"hireshop-backend/internal/service"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errForbidden    = errors.New("insufficient role for this endpoint")
	errBadRequest   = errors.New("bad request")
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errMissingToken),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDateTaken),
		errors.Is(err, repository.ErrAssetRetired),
		errors.Is(err, availability.ErrDateUnavailable):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidQuote),
		errors.Is(err, domain.ErrInvalidDiscount),
		errors.Is(err, availability.ErrStartTooSoon),
		errors.Is(err, availability.ErrInvertedRange),
		errors.Is(err, availability.ErrBeyondWindow),
		pricing.IsStructural(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

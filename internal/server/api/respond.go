package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dbelyaev/recapd/internal/common"
)

// httpError writes an error response in a stable JSON envelope.
func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// serviceError translates a sentinel error from the service layer into an
// HTTP response. Processing errors map to 422: the record exists and captured
// the failure, but the requested pipeline stage could not complete.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		httpError(w, http.StatusNotFound, "not_found_error", "record not found")
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorNoAudio),
		errors.Is(err, common.ErrorNoTranscript),
		errors.Is(err, common.ErrorNotEligible):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	case errors.Is(err, common.ErrorAlreadyExists):
		httpError(w, http.StatusConflict, "conflict_error", "%v", err)
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		httpError(w, http.StatusUnauthorized, "authentication_error", "%v", err)
	case errors.Is(err, common.ErrorProcessing):
		httpError(w, http.StatusUnprocessableEntity, "processing_error", "%v", err)
	default:
		httpError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

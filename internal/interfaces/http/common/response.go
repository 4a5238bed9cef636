package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeQueryParameterInvalid = "QUERY_PARAMETER_INVALID"
	CodeQueryInvalid          = "QUERY_INVALID"
	CodeRequestInvalid        = "REQUEST_INVALID"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeNotFound              = "NOT_FOUND"
	CodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
	CodeInternal              = "INTERNAL_ERROR"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger zerolog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("encode response")
	}
}

// WriteError maps err onto a status and code. Server-side failures are logged
// and their detail is kept out of the body.
func WriteError(logger zerolog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
		message = http.StatusText(status)
	}
	WriteJSON(logger, w, status, ErrorBody{Code: code, Message: message})
}

// StatusFor classifies an error from the service layer.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidQueryParameters):
		return http.StatusBadRequest, CodeQueryParameterInvalid
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest, CodeQueryInvalid
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, CodeRequestInvalid
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrTransientStoreFailure):
		return http.StatusServiceUnavailable, CodeServiceUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

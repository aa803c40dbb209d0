package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

// errorResponse is the envelope for every non-2xx JSON response.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

func newErrorResponse(ctx context.Context, code, message string, details map[string]any) errorResponse {
	var er errorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(ctx); rid != "" {
		er.Error.RequestID = nullable.NewNullableWithValue(rid)
	}
	return er
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	writeJSON(w, status, newErrorResponse(r.Context(), code, message, details))
}

// writeServiceError renders err as the JSON envelope. Application errors keep their status and code;
// bare sentinels fall back to their kind; anything else is a 500 with the cause logged, not echoed.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := apperr.As(err); ok {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusUnprocessableEntity, apperr.CodeValidation, err.Error(), nil)
	case errors.Is(err, domain.ErrCreationPrecondition):
		writeError(w, r, http.StatusConflict, apperr.CodeCreationPrecondition, err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "UNAVAILABLE", "request was cancelled", nil)
	default:
		s.log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("unhandled service error")
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

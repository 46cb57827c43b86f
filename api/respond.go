package api

import (
	"encoding/json"
	"net/http"
	"task-tracker/api/middleware"
	"task-tracker/errors"
	"task-tracker/logger"
)

// ErrorResponse defines the JSON structure for error responses
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    string         `json:"type,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// respondWithJSON writes v with the given status code
func respondWithJSON(w http.ResponseWriter, r *http.Request, status int, v any, lg *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already on the wire, all we can do is record it.
		lg.Error("failed to encode response", map[string]any{
			"error":      err.Error(),
			"http_path":  r.URL.Path,
			"request_id": middleware.RequestIDFromContext(r.Context()),
		})
	}
}

// respondWithError sends a structured error response
func respondWithError(w http.ResponseWriter, r *http.Request, taskErr *errors.TaskError, lg *logger.Logger) {
	fields := map[string]any{
		"error_type":    string(taskErr.Type),
		"error_message": taskErr.Message,
		"status_code":   taskErr.Code,
		"request_id":    middleware.RequestIDFromContext(r.Context()),
	}
	if taskErr.Details != nil {
		fields["error_details"] = taskErr.Details
	}

	if taskErr.Code >= http.StatusInternalServerError {
		lg.Error("HTTP error response", fields)
	} else {
		lg.Warn("HTTP error response", fields)
	}

	respondWithJSON(w, r, taskErr.Code, ErrorResponse{
		Error:   taskErr.Message,
		Type:    string(taskErr.Type),
		Details: taskErr.Details,
	}, lg)
}

// respondWithServiceError maps an error from the tracker onto a response
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, lg *logger.Logger) {
	if taskErr, ok := errors.IsTaskError(err); ok {
		respondWithError(w, r, taskErr, lg)
		return
	}
	respondWithError(w, r, errors.NewInternalError(err.Error()), lg)
}

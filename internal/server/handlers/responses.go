package handlers

// responses.go provides helper functions for sending HTTP responses from the handlers and middleware.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/information-sharing-networks/uploads-apicheck/internal/logger"
)

// StatusError is the status value of every error body
const StatusError = "error"

// ErrorResponse is the body sent for rejected requests
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  string `json:"error" example:"payload is required"`
}

// RespondWithError logs err server-side and sends msg to the client.
// err may be nil when msg says everything there is to say.
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, msg string, err error) {
	attrs := []any{
		slog.Int("status_code", statusCode),
		slog.String("message", msg),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	reqLogger := logger.ContextRequestLogger(r.Context())
	if statusCode >= http.StatusInternalServerError {
		reqLogger.Error("Request failed", attrs...)
	} else {
		reqLogger.Warn("Request rejected", attrs...)
	}

	RespondWithJSONPayload(w, statusCode, ErrorResponse{Status: StatusError, Error: msg})
}

// RespondWithJSONPayload sends a JSON response with the given status code
func RespondWithJSONPayload(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// headers are already written
			slog.Error("Failed to encode JSON response",
				slog.String("error", err.Error()),
			)
		}
	}
}

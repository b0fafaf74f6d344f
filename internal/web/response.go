// Package web holds the HTTP plumbing shared by the service handlers.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, statusCode int, message, requestID string) {
	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}
	WriteJSON(w, statusCode, errorResponse)
}

// StatusFor maps a domain error to an HTTP status and the message shown to
// the caller. Storage failures get a generic message.
func StatusFor(err error) (int, string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// DecodeJSON reads a JSON body into v. Malformed bodies come back as
// validation errors.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return models.NewValidationError("body", "request body is required")
		}
		return models.NewValidationError("body", fmt.Sprintf("invalid JSON format: %v", err))
	}
	return nil
}

// RespondError classifies err, logs it and writes the error response.
// Server-side failures are logged at error level, client errors at debug.
func RespondError(w http.ResponseWriter, log *logger.Logger, action string, err error, requestID string) {
	statusCode, message := StatusFor(err)
	if statusCode >= http.StatusInternalServerError {
		log.Error(action, "Request failed", requestID, err, nil)
	} else {
		log.Debug(action, message, requestID, map[string]interface{}{"status_code": statusCode})
	}
	WriteError(w, statusCode, message, requestID)
}

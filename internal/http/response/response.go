package response

import (
	"encoding/json"
	"net/http"

	"github.com/ioramishvili/GuestService/internal/guest"
	"github.com/ioramishvili/GuestService/pkg/logger"
)

// ErrorResponse is the envelope for non-validation errors.
type ErrorResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, ErrorResponse{Message: message})
}

// FieldErrors writes validation failures as a 422 with one entry per field.
func FieldErrors(w http.ResponseWriter, errs guest.ValidationErrors) {
	JSON(w, http.StatusUnprocessableEntity, errs)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

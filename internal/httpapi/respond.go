package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openhire/jobboard/internal/domain"
)

// Envelope is the uniform response shape for every endpoint, success or not.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// Respond writes a success envelope
func Respond(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// Error translates an error into the envelope. Domain errors keep their
// status and message; anything else becomes a generic 500 with the detail
// logged server-side only.
func Error(w http.ResponseWriter, logger *slog.Logger, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		Respond(w, derr.Status, nil, derr.Message)
		return
	}

	if logger != nil {
		logger.Error("internal error", slog.String("error", err.Error()))
	}
	Respond(w, http.StatusInternalServerError, nil, "internal server error")
}

// Package httpx provides HTTP response utilities built around a uniform envelope.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/verda-api/verda/internal/shared"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Debug   string `json:"debug,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success sends a success envelope carrying data.
func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// DecodeJSON decodes JSON request body into the target struct. Malformed or
// oversized bodies are reported as validation errors.
func DecodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(target); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return shared.NewValidationError("Request body too large")
		case errors.Is(err, io.EOF):
			return shared.NewValidationError("Request body is required")
		default:
			return shared.NewValidationError("Request body must be valid JSON")
		}
	}
	return nil
}

package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/veltmart/backend/internal/apperr"
)

// Envelope is the uniform response wrapper. Every response uses it,
// including non-2xx ones, which carry success=false and an error string.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, Envelope{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, Envelope{Success: true, Message: msg})
}

// WriteError maps the error's kind to an HTTP status and emits the envelope.
func WriteError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), Envelope{Success: false, Error: err.Error()})
}

func WriteBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Error: msg})
}

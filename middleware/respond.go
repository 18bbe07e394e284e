package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/labelgrid/sessiongate"
)

// ErrorBody is the JSON shape of every error response the pipeline and
// the auth handlers produce.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// WriteError writes a JSON error response with the given status, human
// message, and machine-readable code.
func WriteError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Message: message, Error: code})
}

// WriteGateError maps a gate error to its wire code and status and writes
// the error body. Handlers call this for Login/Refresh/verification
// failures so the status mapping stays in one place.
func WriteGateError(w http.ResponseWriter, err error) {
	code, status := sessiongate.CodeForError(err)
	WriteError(w, status, err.Error(), string(code))
}

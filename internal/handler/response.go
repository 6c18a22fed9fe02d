package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// WriteJSON encodes data as the response body. The Content-Type
// header must go out before the status line, so it is set first.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Once the status line is written there is no way to report an
	// encode failure to the client.
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse is the wire shape of every error: a stable snake_case
// code plus a human-readable message.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError sends an errorResponse with the given status.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// ParseJSON decodes the request body as JSON into v. Unknown fields
// are rejected, so a malformed ledger shape fails loudly instead of
// being silently defaulted.
func ParseJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("Request body must be valid JSON with Content-Type: application/json")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("Request body must be valid JSON with Content-Type: application/json")
	}

	return nil
}

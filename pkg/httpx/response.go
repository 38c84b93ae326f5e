package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes v as JSON with the given status code. Responses are never
// cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorBody.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	WriteJSON(w, status, ErrorBody{Code: code, Description: description})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ParseSpaceDelimitedFields splits a space delimited list such as an
// authority string. Blank input yields nil.
func ParseSpaceDelimitedFields(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

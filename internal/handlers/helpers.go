package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ternarybob/venari/internal/storage/sqlite"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error payload in the {"error": ...} shape the
// frontend surfaces as notifications.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{"error": message})
}

// WriteStorageError maps storage failures to a response: database outages
// become 503, everything else 500.
func WriteStorageError(w http.ResponseWriter, err error) error {
	if errors.Is(err, sqlite.ErrDatabaseUnavailable) {
		return WriteError(w, http.StatusServiceUnavailable, err.Error())
	}
	return WriteError(w, http.StatusInternalServerError, err.Error())
}

// DecodeJSON reads the request body into dst. A missing or empty body is
// not an error; the caller sees its zero values.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && err.Error() == "EOF" {
		return nil
	}
	return err
}

// QueryInt reads an integer query parameter, returning fallback when the
// parameter is absent or malformed.
func QueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// QueryFloat reads an optional float query parameter
func QueryFloat(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

// PathID parses the numeric identifier trailing a route prefix
func PathID(path, prefix string) (int64, bool) {
	if len(path) <= len(prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(path[len(prefix):], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

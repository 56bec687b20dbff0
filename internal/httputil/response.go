package httputil

import (
	"encoding/json"
	"net/http"
)

// Every response carries the same envelope: {"success": bool,
// "message": "...", ...payload}. Payload keys sit next to success and
// message rather than nested under a data field, matching what the
// frontend consumes.

// M is a free-form payload merged into the response envelope.
type M map[string]interface{}

// WriteSuccess writes a success envelope with the given payload fields.
// message may be empty, in which case it is omitted.
func WriteSuccess(w http.ResponseWriter, status int, message string, payload M) {
	body := M{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// WriteError writes a failure envelope: {"success": false, "message": ...}.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, M{"success": false, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; nothing useful left to do.
			return
		}
	}
}

// Common error response helpers

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a 403 Forbidden error
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

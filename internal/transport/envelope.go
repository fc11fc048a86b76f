package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// envelope is the body of every JSON response. ok is set by respond and fail.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, status int, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["ok"] = true
	writeJSON(w, status, body)
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"ok": false, "message": message})
}

// decodeJSON reads the request body into dst. An empty body leaves dst zero.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

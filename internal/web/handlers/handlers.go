// Package handlers serves the JSON API over a transliteration.Transliterator.
package handlers

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes caps request bodies for every POST handler.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

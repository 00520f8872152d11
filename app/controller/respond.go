package controller

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// writeJSON encodes v as the JSON response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

// splitSessionPath splits "/api/sessions/{id}/rest..." into the id and the remaining segments
func splitSessionPath(path string) (string, []string) {
	trimmed := strings.Trim(strings.TrimPrefix(path, "/api/sessions/"), "/")
	if trimmed == "" {
		return "", nil
	}
	parts := strings.Split(trimmed, "/")
	return parts[0], parts[1:]
}

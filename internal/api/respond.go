package api

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "parkease/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an error kind to its HTTP status. Internal errors are
// logged and replaced with a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		message = "Internal server error"
	}
	http.Error(w, message, status)
}

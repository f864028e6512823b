package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"savr-server/src/apperr"
)

// writeError maps the shared error taxonomy onto status codes. Anything
// outside the taxonomy is a server fault and gets a generic body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case apperr.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case apperr.IsConflict(err):
		http.Error(w, err.Error(), http.StatusConflict)
	case apperr.IsAuthorization(err):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, apperr.ErrAuthentication):
		http.Error(w, apperr.ErrAuthentication.Error(), http.StatusUnauthorized)
	default:
		log.Printf("ERROR: Unhandled error reached the boundary: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

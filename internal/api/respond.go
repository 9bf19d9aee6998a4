// internal/api/respond.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/AnanyaNagabhushan/taskflow/internal/service"
)

// Request bodies above this are rejected outright.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func errorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

// serviceError maps a service error kind to its HTTP status and writes the
// response. Unrecognized errors become an opaque 500; the detail is logged,
// never leaked.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		errorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		errorJSON(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		errorJSON(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound):
		errorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		errorJSON(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[ERROR] internal: %v", err)
		errorJSON(w, http.StatusInternalServerError, "internal server error")
	}
}

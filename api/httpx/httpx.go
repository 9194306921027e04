// Package httpx holds the response helpers shared by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/optifleet/fleetcore/core/assign"
	"github.com/optifleet/fleetcore/core/recommend"
	"github.com/optifleet/fleetcore/core/registry"
)

// WriteJSON encodes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteError maps domain errors to HTTP status codes and writes a JSON error
// body.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, registry.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, assign.ErrNoEligibleVehicle):
		status = http.StatusConflict
	case errors.Is(err, recommend.ErrUnavailable):
		status = http.StatusConflict
	}
	WriteJSON(w, status, map[string]string{"error": err.Error()})
}

// Package loads exposes load intake and assignment over HTTP.
package loads

import (
	"encoding/json"
	"net/http"

	"github.com/optifleet/fleetcore/api/httpx"
	"github.com/optifleet/fleetcore/core/assign"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/registry"
)

// NewHandler returns the HTTP handler for the load endpoints.
func NewHandler(engine *assign.Engine, loads registry.LoadRegistry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/loads", func(w http.ResponseWriter, r *http.Request) {
		var l model.Load
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		created, err := loads.Create(l)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, created)
	})
	mux.HandleFunc("GET /api/loads", func(w http.ResponseWriter, r *http.Request) {
		if status := r.URL.Query().Get("status"); status != "" {
			httpx.WriteJSON(w, http.StatusOK, loads.ListByStatus(model.LoadStatus(status)))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, loads.List())
	})
	mux.HandleFunc("GET /api/loads/pending", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, loads.ListPending())
	})
	mux.HandleFunc("POST /api/loads/{id}/assign", func(w http.ResponseWriter, r *http.Request) {
		l, err := engine.Assign(r.PathValue("id"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, l)
	})
	mux.HandleFunc("POST /api/loads/auto-assign", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, engine.AutoAssignPending())
	})
	mux.HandleFunc("POST /api/loads/{id}/deliver", func(w http.ResponseWriter, r *http.Request) {
		l, err := engine.Deliver(r.PathValue("id"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, l)
	})
	mux.HandleFunc("PUT /api/loads/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status model.LoadStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		l, err := engine.UpdateStatus(r.PathValue("id"), req.Status)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, l)
	})
	return mux
}

// Package routes exposes route optimization over HTTP.
package routes

import (
	"encoding/json"
	"net/http"

	"github.com/optifleet/fleetcore/api/httpx"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/routing"
)

// NewHandler returns the HTTP handler for the route endpoints.
func NewHandler(orch *routing.Orchestrator) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/routes/optimize", func(w http.ResponseWriter, r *http.Request) {
		var req routing.OptimizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		res, err := orch.Optimize(req)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, res)
	})
	mux.HandleFunc("GET /api/routes", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, orch.RoutesForVehicle(r.URL.Query().Get("vehicle_id")))
	})
	mux.HandleFunc("PUT /api/routes/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status model.RouteStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		route, err := orch.UpdateStatus(r.PathValue("id"), req.Status)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, route)
	})
	mux.HandleFunc("POST /api/routes/{id}/recalculate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Progress float64 `json:"progress"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		route, err := orch.RecalculateETA(r.PathValue("id"), req.Progress)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, route)
	})
	return mux
}

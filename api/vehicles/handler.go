// Package vehicles exposes the fleet registry, recommendations and
// availability over HTTP.
package vehicles

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/optifleet/fleetcore/api/httpx"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/recommend"
	"github.com/optifleet/fleetcore/core/registry"
)

// NewHandler returns the HTTP handler for the vehicle endpoints.
func NewHandler(engine *recommend.Engine, vehicles registry.VehicleRegistry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/vehicles", func(w http.ResponseWriter, r *http.Request) {
		if status := r.URL.Query().Get("status"); status != "" {
			httpx.WriteJSON(w, http.StatusOK, vehicles.ListByStatus(model.VehicleStatus(status)))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, vehicles.List())
	})
	mux.HandleFunc("GET /api/vehicles/{id}", func(w http.ResponseWriter, r *http.Request) {
		v, err := vehicles.Get(r.PathValue("id"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, v)
	})
	mux.HandleFunc("POST /api/vehicles/recommendations", func(w http.ResponseWriter, r *http.Request) {
		var req recommend.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		recs, err := engine.Recommend(r.URL.Query().Get("customer_id"), req)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, recs)
	})
	mux.HandleFunc("GET /api/vehicles/{id}/availability", func(w http.ResponseWriter, r *http.Request) {
		from, err := parseDate(r.URL.Query().Get("from"))
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		to, err := parseDate(r.URL.Query().Get("to"))
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		res, err := engine.Availability(r.PathValue("id"), from, to)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, res)
	})
	mux.HandleFunc("POST /api/customers/{id}/preferences", func(w http.ResponseWriter, r *http.Request) {
		pref, err := engine.UpdatePreferences(r.PathValue("id"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, pref)
	})
	return mux
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

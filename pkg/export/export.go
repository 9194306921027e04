// Package export serializes computed routes for downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/optifleet/fleetcore/core/model"
)

// WriteJSON writes the routes to w in JSON format.
func WriteJSON(w io.Writer, routes []model.Route) error {
	enc := json.NewEncoder(w)
	return enc.Encode(routes)
}

// WriteCSV writes the routes to w as CSV, one row per route.
func WriteCSV(w io.Writer, routes []model.Route) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "vehicle_id", "optimization_type", "distance_km", "eta_minutes", "energy_cost", "traffic_level", "waypoints"}); err != nil {
		return err
	}
	for _, r := range routes {
		rec := []string{
			r.ID,
			r.VehicleID,
			string(r.OptimizationType),
			strconv.FormatFloat(r.DistanceKm, 'f', -1, 64),
			strconv.Itoa(r.EtaMinutes),
			strconv.FormatFloat(r.EnergyCost, 'f', -1, 64),
			string(r.TrafficLevel),
			strconv.Itoa(len(r.Path)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/optifleet/fleetcore/core/model"
)

func sampleRoutes() []model.Route {
	return []model.Route{
		{
			ID:               "r1",
			VehicleID:        "veh1",
			OptimizationType: model.OptimizeBalanced,
			DistanceKm:       12.5,
			EtaMinutes:       20,
			EnergyCost:       1.875,
			TrafficLevel:     model.TrafficMedium,
			Path:             []string{"Start", "Downtown", "End"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRoutes()); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if lines[0] != "id,vehicle_id,optimization_type,distance_km,eta_minutes,energy_cost,traffic_level,waypoints" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "r1,veh1,BALANCED,12.5,20,1.875,MEDIUM,3" {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRoutes()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"id":"r1"`) {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

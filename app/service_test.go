package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/optifleet/fleetcore/config"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/routing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	fleetFile := filepath.Join(dir, "fleet.json")
	fleet := `[
		{"id":"veh1","number":"FLT-001","type":"VAN","capacity":1000,"is_electric":true,
		 "battery_level":80,"latitude":48.85,"longitude":2.35,"health_score":95}
	]`
	if err := os.WriteFile(fleetFile, []byte(fleet), 0o644); err != nil {
		t.Fatalf("write fleet: %v", err)
	}

	cfg := &config.Config{}
	cfg.API.SetDefaults()
	cfg.Fleet.SetDefaults()
	cfg.Fleet.VehiclesFile = fleetFile
	cfg.Fleet.PredictionSeed = 42
	cfg.Metrics.SetDefaults()
	cfg.Telemetry.SetDefaults()

	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestServiceSeedsFleetFromFile(t *testing.T) {
	svc := newTestService(t)
	v, err := svc.Vehicles.Get("veh1")
	if err != nil {
		t.Fatalf("seeded vehicle missing: %v", err)
	}
	if v.Status != model.VehicleAvailable {
		t.Fatalf("seeded vehicle should default to AVAILABLE, got %s", v.Status)
	}
}

func TestServiceEndToEndAssignment(t *testing.T) {
	svc := newTestService(t)
	h := svc.Handler()

	body := `{"weight":500,"pickup":{"latitude":48.86,"longitude":2.36},"destination":{"latitude":48.9,"longitude":2.4}}`
	req := httptest.NewRequest(http.MethodPost, "/api/loads", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create load: %d %s", rec.Code, rec.Body.String())
	}
	var l model.Load
	if err := json.NewDecoder(rec.Body).Decode(&l); err != nil {
		t.Fatalf("decode load: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/loads/"+l.ID+"/assign", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign: %d %s", rec.Code, rec.Body.String())
	}

	v, _ := svc.Vehicles.Get("veh1")
	if v.Status != model.VehicleInUse {
		t.Fatalf("vehicle should be claimed, got %s", v.Status)
	}
}

func TestServiceEndToEndOptimize(t *testing.T) {
	svc := newTestService(t)
	h := svc.Handler()

	body := `{"vehicle_id":"veh1","start_location":"Depot","end_location":"Hub",
		"start_lat":48.85,"start_lon":2.35,"end_lat":48.9,"end_lon":2.4}`
	req := httptest.NewRequest(http.MethodPost, "/api/routes/optimize", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("optimize: %d %s", rec.Code, rec.Body.String())
	}
	var res routing.OptimizeResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Algorithm != routing.AlgorithmName || res.TotalRoutesAnalyzed != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestServiceRecommendations(t *testing.T) {
	svc := newTestService(t)
	h := svc.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/recommendations?customer_id=c1",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommendations: %d %s", rec.Code, rec.Body.String())
	}
	var recs []model.VehicleRecommendation
	if err := json.NewDecoder(rec.Body).Decode(&recs); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].Vehicle.ID != "veh1" {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}
}

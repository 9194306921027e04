package vehicles

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/recommend"
	"github.com/optifleet/fleetcore/core/registry"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func newTestHandler(t *testing.T) (http.Handler, *registry.MemoryVehicleStore, *registry.MemoryBookingStore) {
	t.Helper()
	vehicles := registry.NewMemoryVehicleStore()
	bookings := registry.NewMemoryBookingStore()
	prefs := registry.NewMemoryPreferenceStore()
	ratings := registry.StaticRatings{"veh1": 4.6}
	engine, err := recommend.NewEngine(vehicles, bookings, prefs, ratings, nil, nopLogger{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return NewHandler(engine, vehicles), vehicles, bookings
}

func seedVehicle(vehicles *registry.MemoryVehicleStore) {
	vehicles.Put(model.Vehicle{
		ID:          "veh1",
		Number:      "FLT-001",
		Type:        model.TypeSedan,
		Capacity:    4,
		IsElectric:  true,
		Status:      model.VehicleAvailable,
		HealthScore: 95,
	})
}

func TestListVehiclesEndpoint(t *testing.T) {
	h, vehicles, _ := newTestHandler(t)
	seedVehicle(vehicles)
	busy := model.Vehicle{ID: "veh2", Status: model.VehicleInUse}
	vehicles.Put(busy)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles?status=AVAILABLE", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got []model.Vehicle
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].ID != "veh1" {
		t.Fatalf("unexpected vehicles: %+v", got)
	}
}

func TestGetVehicleEndpoint(t *testing.T) {
	h, vehicles, _ := newTestHandler(t)
	seedVehicle(vehicles)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/veh1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/vehicles/ghost", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	h, vehicles, _ := newTestHandler(t)
	seedVehicle(vehicles)

	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/recommendations?customer_id=cust-1",
		strings.NewReader(`{"vehicle_type":"SEDAN"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var recs []model.VehicleRecommendation
	if err := json.NewDecoder(rec.Body).Decode(&recs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(recs) != 1 || recs[0].Vehicle.ID != "veh1" {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}
	if recs[0].Score <= 0 || recs[0].PricePerHour != 27.5 {
		t.Fatalf("score or price missing: %+v", recs[0])
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	h, vehicles, bookings := newTestHandler(t)
	seedVehicle(vehicles)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	bookings.Put(model.Booking{
		ID: "b1", VehicleID: "veh1", CustomerID: "c",
		StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour),
		Status: model.BookingConfirmed,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/veh1/availability?from=2025-06-02&to=2025-06-02", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var res recommend.AvailabilityResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.AvailableSlots)+len(res.BookedSlots) != 24 {
		t.Fatalf("expected 24 slots, got %d", len(res.AvailableSlots)+len(res.BookedSlots))
	}
	if len(res.BookedSlots) == 0 {
		t.Fatalf("expected booked slots around the reservation")
	}
}

func TestAvailabilityEndpointBadDates(t *testing.T) {
	h, vehicles, _ := newTestHandler(t)
	seedVehicle(vehicles)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/veh1/availability?from=junk&to=2025-06-02", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/vehicles/veh1/availability?from=2025-06-03&to=2025-06-02", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %d", rec.Code)
	}
}

func TestPreferencesEndpoint(t *testing.T) {
	h, vehicles, bookings := newTestHandler(t)
	seedVehicle(vehicles)
	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	bookings.Put(model.Booking{
		ID: "b1", VehicleID: "veh1", CustomerID: "cust-1",
		StartTime: day, EndTime: day.Add(3 * time.Hour),
		Status: model.BookingCompleted,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/customers/cust-1/preferences", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var pref model.CustomerPreference
	if err := json.NewDecoder(rec.Body).Decode(&pref); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if pref.PreferredType != model.TypeSedan || pref.BookingCount != 1 {
		t.Fatalf("unexpected profile: %+v", pref)
	}
}

package routing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/optifleet/fleetcore/core/eta"
	"github.com/optifleet/fleetcore/core/events"
	"github.com/optifleet/fleetcore/core/logger"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/registry"
	"github.com/optifleet/fleetcore/internal/eventbus"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

var _ logger.Logger = nopLogger{}

func newTestOrchestrator(t *testing.T, factory eta.Factory) (*Orchestrator, *registry.MemoryRouteStore, *registry.MemoryVehicleStore, *eventbus.Bus[events.Event]) {
	t.Helper()
	routes := registry.NewMemoryRouteStore()
	vehicles := registry.NewMemoryVehicleStore()
	bus := eventbus.New[events.Event]()
	if factory == nil {
		factory = eta.FixedFactory(42, func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) })
	}
	o, err := NewOrchestrator(NewSyntheticGraphSource(), routes, vehicles, factory, nil, bus, nopLogger{})
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	o.SetClock(func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) })
	return o, routes, vehicles, bus
}

func optimizeReq() OptimizeRequest {
	return OptimizeRequest{
		VehicleID:     "v1",
		StartLocation: "Depot",
		EndLocation:   "Warehouse",
		StartLat:      48.85, StartLon: 2.35,
		EndLat: 48.95, EndLon: 2.45,
	}
}

func TestOptimize_ThreeVariantsBalancedPrimary(t *testing.T) {
	o, routes, _, _ := newTestOrchestrator(t, nil)
	res, err := o.Optimize(optimizeReq())
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if res.TotalRoutesAnalyzed != 3 {
		t.Fatalf("analyzed %d routes, want 3", res.TotalRoutesAnalyzed)
	}
	if res.PrimaryRoute.OptimizationType != model.OptimizeBalanced {
		t.Fatalf("primary is %s, want BALANCED", res.PrimaryRoute.OptimizationType)
	}
	if len(res.AlternativeRoutes) != 2 {
		t.Fatalf("%d alternatives, want 2", len(res.AlternativeRoutes))
	}
	if res.Algorithm != AlgorithmName {
		t.Fatalf("algorithm %q", res.Algorithm)
	}
	if got := routes.ListByVehicle("v1"); len(got) != 3 {
		t.Fatalf("%d routes persisted, want 3", len(got))
	}
}

func TestOptimize_SummaryStatistics(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(t, nil)
	res, err := o.Optimize(optimizeReq())
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	all := append([]model.Route{res.PrimaryRoute}, res.AlternativeRoutes...)
	var sumETA, sumEnergy float64
	for _, r := range all {
		sumETA += float64(r.EtaMinutes)
		sumEnergy += r.EnergyCost
	}
	meanETA := sumETA / float64(len(all))
	meanEnergy := sumEnergy / float64(len(all))
	if math.Abs(res.TimeSavedMinutes-(meanETA-float64(res.PrimaryRoute.EtaMinutes))) > 1e-9 {
		t.Fatalf("time saved %f inconsistent", res.TimeSavedMinutes)
	}
	wantEnergy := (meanEnergy - res.PrimaryRoute.EnergyCost) / meanEnergy * 100
	if math.Abs(res.EnergySavedPercent-wantEnergy) > 1e-9 {
		t.Fatalf("energy saved %f, want %f", res.EnergySavedPercent, wantEnergy)
	}
}

func TestOptimize_TrafficRefinement(t *testing.T) {
	factory := func() eta.PredictionModel {
		return eta.MockModel{ETA: 99, Traffic: model.TrafficSevere}
	}
	o, _, vehicles, _ := newTestOrchestrator(t, factory)
	vehicles.Put(model.Vehicle{ID: "v1", IsElectric: true, Status: model.VehicleAvailable})

	req := optimizeReq()
	req.IncludeTrafficData = true
	res, err := o.Optimize(req)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	for _, r := range append([]model.Route{res.PrimaryRoute}, res.AlternativeRoutes...) {
		if r.EtaMinutes != 99 || r.TrafficLevel != model.TrafficSevere {
			t.Fatalf("route %s not refined: eta=%d traffic=%s", r.OptimizationType, r.EtaMinutes, r.TrafficLevel)
		}
	}
}

func TestOptimize_NoTrafficRefinementByDefault(t *testing.T) {
	factory := func() eta.PredictionModel {
		return eta.MockModel{ETA: 99, Traffic: model.TrafficSevere}
	}
	o, _, _, _ := newTestOrchestrator(t, factory)
	res, err := o.Optimize(optimizeReq())
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	refined := 0
	for _, r := range append([]model.Route{res.PrimaryRoute}, res.AlternativeRoutes...) {
		if r.EtaMinutes == 99 {
			refined++
		}
	}
	if refined == 3 {
		t.Fatalf("predictor applied without include_traffic_data")
	}
}

func TestOptimize_PublishesEvent(t *testing.T) {
	o, _, _, bus := newTestOrchestrator(t, nil)
	ch := bus.Subscribe()
	if _, err := o.Optimize(optimizeReq()); err != nil {
		t.Fatalf("optimize: %v", err)
	}
	select {
	case ev := <-ch:
		ro, ok := ev.(events.RouteOptimized)
		if !ok || ro.RoutesAnalyzed != 3 {
			t.Fatalf("unexpected event %#v", ev)
		}
	default:
		t.Fatalf("no event published")
	}
}

func TestUpdateStatus(t *testing.T) {
	o, routes, _, _ := newTestOrchestrator(t, nil)
	r := routes.Create(model.Route{VehicleID: "v1", Status: model.RoutePending})

	updated, err := o.UpdateStatus(r.ID, model.RouteCompleted)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.RouteCompleted || updated.CompletedAt.IsZero() {
		t.Fatalf("completion not stamped: %+v", updated)
	}
	if _, err := o.UpdateStatus("ghost", model.RouteActive); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestRecalculateETA(t *testing.T) {
	o, routes, _, _ := newTestOrchestrator(t, nil)
	r := routes.Create(model.Route{
		VehicleID:    "v1",
		DistanceKm:   40,
		EtaMinutes:   60,
		TrafficLevel: model.TrafficMedium,
		Status:       model.RouteActive,
	})

	updated, err := o.RecalculateETA(r.ID, 0.5)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if updated.EtaMinutes < 1 || updated.EtaMinutes >= 60 {
		t.Fatalf("half-way recalculation should shrink the ETA, got %d", updated.EtaMinutes)
	}
	stored, _ := routes.Get(r.ID)
	if stored.EtaMinutes != updated.EtaMinutes {
		t.Fatalf("recalculated ETA not persisted")
	}

	if _, err := o.RecalculateETA(r.ID, 1.5); !errors.Is(err, registry.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := o.RecalculateETA("ghost", 0.2); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewOrchestrator_NilParameter(t *testing.T) {
	_, err := NewOrchestrator(nil, registry.NewMemoryRouteStore(), registry.NewMemoryVehicleStore(), eta.DefaultFactory(), nil, nil, nopLogger{})
	if err == nil {
		t.Fatalf("expected error for nil graph source")
	}
}

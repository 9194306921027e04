package routing

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/optifleet/fleetcore/core/eta"
	"github.com/optifleet/fleetcore/core/events"
	"github.com/optifleet/fleetcore/core/logger"
	"github.com/optifleet/fleetcore/core/metrics"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/registry"
	"github.com/optifleet/fleetcore/internal/eventbus"
)

// AlgorithmName identifies the optimization pipeline in responses.
const AlgorithmName = "Dijkstra + heuristic ETA"

// variants computed per request, in generation order. SHORTEST exists in the
// strategy table but is not part of the comparison set.
var variants = []model.OptimizationType{
	model.OptimizeFastest,
	model.OptimizeEnergyEfficient,
	model.OptimizeBalanced,
}

// OptimizeRequest is a route optimization request.
type OptimizeRequest struct {
	VehicleID            string  `json:"vehicle_id"`
	StartLocation        string  `json:"start_location"`
	EndLocation          string  `json:"end_location"`
	StartLat             float64 `json:"start_lat"`
	StartLon             float64 `json:"start_lon"`
	EndLat               float64 `json:"end_lat"`
	EndLon               float64 `json:"end_lon"`
	IncludeTrafficData   bool    `json:"include_traffic_data"`
	GenerateAlternatives bool    `json:"generate_alternatives"`
}

// OptimizeResult compares the generated variants and elects a primary.
type OptimizeResult struct {
	PrimaryRoute        model.Route   `json:"primary_route"`
	AlternativeRoutes   []model.Route `json:"alternative_routes"`
	Algorithm           string        `json:"optimization_algorithm"`
	TotalRoutesAnalyzed int           `json:"total_routes_analyzed"`
	TimeSavedMinutes    float64       `json:"time_saved_minutes"`
	EnergySavedPercent  float64       `json:"energy_saved_percent"`
}

// Orchestrator drives graph construction, the per-variant searches, optional
// traffic refinement and persistence.
type Orchestrator struct {
	graphs   GraphSource
	routes   registry.RouteRegistry
	vehicles registry.VehicleRegistry
	models   eta.Factory
	sink     metrics.MetricsSink
	bus      *eventbus.Bus[events.Event]
	log      logger.Logger
	now      func() time.Time
}

// NewOrchestrator wires the orchestrator. graphs, routes, vehicles, models
// and log are required; sink and bus may be nil.
func NewOrchestrator(
	graphs GraphSource,
	routes registry.RouteRegistry,
	vehicles registry.VehicleRegistry,
	models eta.Factory,
	sink metrics.MetricsSink,
	bus *eventbus.Bus[events.Event],
	log logger.Logger,
) (*Orchestrator, error) {
	if graphs == nil || routes == nil || vehicles == nil || models == nil || log == nil {
		return nil, fmt.Errorf("routing: nil parameter provided to NewOrchestrator")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Orchestrator{
		graphs:   graphs,
		routes:   routes,
		vehicles: vehicles,
		models:   models,
		sink:     sink,
		bus:      bus,
		log:      log,
		now:      time.Now,
	}, nil
}

// SetClock overrides the orchestrator clock, for tests.
func (o *Orchestrator) SetClock(now func() time.Time) { o.now = now }

// RoutesForVehicle returns every stored route computed for the vehicle.
func (o *Orchestrator) RoutesForVehicle(vehicleID string) []model.Route {
	return o.routes.ListByVehicle(vehicleID)
}

// Optimize computes the route variants for the request, persists them and
// selects the primary.
func (o *Orchestrator) Optimize(req OptimizeRequest) (*OptimizeResult, error) {
	spec := RouteSpec{
		VehicleID:     req.VehicleID,
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		Start:         model.Location{Latitude: req.StartLat, Longitude: req.StartLon},
		End:           model.Location{Latitude: req.EndLat, Longitude: req.EndLon},
	}
	o.log.Infof("optimizing route from %s to %s", req.StartLocation, req.EndLocation)

	now := o.now()
	graph := o.graphs.Build(spec.Start, spec.End)

	routes := make([]model.Route, 0, len(variants))
	for _, t := range variants {
		routes = append(routes, FindRoute(graph, spec, t, now))
	}

	if req.IncludeTrafficData {
		o.refineWithTraffic(routes, req.VehicleID)
	}

	recorded := make([]metrics.RouteEvent, 0, len(routes))
	for i := range routes {
		routes[i] = o.routes.Create(routes[i])
		recorded = append(recorded, metrics.RouteEvent{
			VehicleID:        routes[i].VehicleID,
			OptimizationType: routes[i].OptimizationType,
			DistanceKm:       routes[i].DistanceKm,
			EtaMinutes:       routes[i].EtaMinutes,
			EnergyCost:       routes[i].EnergyCost,
			TrafficLevel:     routes[i].TrafficLevel,
			Fallback:         len(routes[i].Path) == 2,
			Time:             now,
		})
	}
	if err := o.sink.RecordRoutes(recorded); err != nil {
		o.log.Warnf("record routes: %v", err)
	}

	primary := routes[0]
	for _, r := range routes {
		if r.OptimizationType == model.OptimizeBalanced {
			primary = r
			break
		}
	}
	alternatives := make([]model.Route, 0, len(routes)-1)
	for _, r := range routes {
		if r.ID != primary.ID {
			alternatives = append(alternatives, r)
		}
	}

	etas := make([]float64, len(routes))
	energies := make([]float64, len(routes))
	for i, r := range routes {
		etas[i] = float64(r.EtaMinutes)
		energies[i] = r.EnergyCost
	}
	meanETA := stat.Mean(etas, nil)
	meanEnergy := stat.Mean(energies, nil)
	energySaved := 0.0
	if meanEnergy != 0 {
		energySaved = (meanEnergy - primary.EnergyCost) / meanEnergy * 100
	}

	if o.bus != nil {
		o.bus.Publish(events.RouteOptimized{
			VehicleID:      req.VehicleID,
			Primary:        primary.OptimizationType,
			RoutesAnalyzed: len(routes),
			Time:           now,
		})
	}

	return &OptimizeResult{
		PrimaryRoute:        primary,
		AlternativeRoutes:   alternatives,
		Algorithm:           AlgorithmName,
		TotalRoutesAnalyzed: len(routes),
		TimeSavedMinutes:    meanETA - float64(primary.EtaMinutes),
		EnergySavedPercent:  energySaved,
	}, nil
}

// refineWithTraffic replaces each variant's traffic level and ETA with the
// predictor's view, using the requested vehicle's electric flag when known.
func (o *Orchestrator) refineWithTraffic(routes []model.Route, vehicleID string) {
	electric := false
	if vehicleID != "" {
		if v, err := o.vehicles.Get(vehicleID); err == nil {
			electric = v.IsElectric
		} else if !errors.Is(err, registry.ErrNotFound) {
			o.log.Warnf("vehicle lookup for traffic refinement: %v", err)
		}
	}
	m := o.models()
	for i := range routes {
		traffic := m.PredictTrafficLevel(routes[i].DistanceKm)
		routes[i].TrafficLevel = traffic
		routes[i].EtaMinutes = m.PredictETA(routes[i].DistanceKm, traffic, electric)
	}
}

// RecalculateETA re-estimates the remaining travel time of a route given the
// fraction of the trip already covered, and persists the new estimate.
func (o *Orchestrator) RecalculateETA(routeID string, progress float64) (model.Route, error) {
	if progress < 0 || progress > 1 {
		return model.Route{}, fmt.Errorf("progress must be within [0,1]: %w", registry.ErrValidation)
	}
	r, err := o.routes.Get(routeID)
	if err != nil {
		return model.Route{}, err
	}
	r.EtaMinutes = eta.Recalculate(o.models(), r, progress)
	if err := o.routes.Put(r); err != nil {
		return model.Route{}, err
	}
	return r, nil
}

// UpdateStatus advances a route's lifecycle, stamping completion time.
func (o *Orchestrator) UpdateStatus(routeID string, status model.RouteStatus) (model.Route, error) {
	r, err := o.routes.Get(routeID)
	if err != nil {
		return model.Route{}, err
	}
	r.Status = status
	if status == model.RouteCompleted {
		r.CompletedAt = o.now()
	}
	if err := o.routes.Put(r); err != nil {
		return model.Route{}, err
	}
	return r, nil
}

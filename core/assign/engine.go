// Package assign matches pending loads to the best eligible vehicle under
// capacity and energy constraints. Vehicle status flips go through the
// registry's compare-and-set so racing assignments can never both win the
// same vehicle.
package assign

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/optifleet/fleetcore/core/events"
	"github.com/optifleet/fleetcore/core/geo"
	"github.com/optifleet/fleetcore/core/logger"
	"github.com/optifleet/fleetcore/core/metrics"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/registry"
	"github.com/optifleet/fleetcore/internal/eventbus"
)

// ErrNoEligibleVehicle indicates no available vehicle satisfies the load's
// capacity and energy constraints.
var ErrNoEligibleVehicle = errors.New("no eligible vehicle for load")

// Engine performs single and batch load assignment.
type Engine struct {
	vehicles registry.VehicleRegistry
	loads    registry.LoadRegistry
	sink     metrics.MetricsSink
	bus      *eventbus.Bus[events.Event]
	log      logger.Logger
	now      func() time.Time
}

// NewEngine wires the assignment engine. vehicles, loads and log are
// required; sink and bus may be nil.
func NewEngine(
	vehicles registry.VehicleRegistry,
	loads registry.LoadRegistry,
	sink metrics.MetricsSink,
	bus *eventbus.Bus[events.Event],
	log logger.Logger,
) (*Engine, error) {
	if vehicles == nil || loads == nil || log == nil {
		return nil, fmt.Errorf("assign: nil parameter provided to NewEngine")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		vehicles: vehicles,
		loads:    loads,
		sink:     sink,
		bus:      bus,
		log:      log,
		now:      time.Now,
	}, nil
}

// SetClock overrides the engine clock, for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

type scoredVehicle struct {
	vehicle  model.Vehicle
	distance float64
	score    float64
}

// rankCandidates filters eligible vehicles for the load and orders them by
// score, best first. Score favours proximity, small capacity and electric
// drivetrains.
func (e *Engine) rankCandidates(pickup model.Location, weight float64) []scoredVehicle {
	var list []scoredVehicle
	for _, v := range e.vehicles.ListByStatus(model.VehicleAvailable) {
		if !v.CanCarry(weight) || !v.HasPosition() || !v.HasEnergyFor() {
			continue
		}
		distance := geo.Distance(v.Position(), pickup)
		energyFactor := 1.0
		if v.IsElectric {
			energyFactor = 0.8
		}
		list = append(list, scoredVehicle{
			vehicle:  v,
			distance: distance,
			score:    distance * (float64(v.Capacity) / 1000) * energyFactor,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].score < list[j].score })
	return list
}

// Assign matches the load to the best eligible vehicle. The winning vehicle
// is claimed with a compare-and-set; if another request takes it first the
// next candidate is tried.
func (e *Engine) Assign(loadID string) (model.Load, error) {
	load, err := e.loads.Get(loadID)
	if err != nil {
		return model.Load{}, err
	}
	if load.Weight <= 0 {
		return model.Load{}, fmt.Errorf("load %s weight %f: %w", loadID, load.Weight, registry.ErrValidation)
	}

	now := e.now()
	for _, c := range e.rankCandidates(load.Pickup, load.Weight) {
		claimed, err := e.vehicles.CompareAndSwapStatus(c.vehicle.ID, model.VehicleAvailable, model.VehicleInUse)
		if err != nil {
			return model.Load{}, err
		}
		if !claimed {
			continue
		}

		load.VehicleID = c.vehicle.ID
		load.Status = model.LoadAssigned
		load.AssignedAt = now
		if err := e.loads.Put(load); err != nil {
			// release the vehicle, the load update failed
			if _, casErr := e.vehicles.CompareAndSwapStatus(c.vehicle.ID, model.VehicleInUse, model.VehicleAvailable); casErr != nil {
				e.log.Errorf("release vehicle %s: %v", c.vehicle.ID, casErr)
			}
			return model.Load{}, err
		}

		e.log.Infof("assigned vehicle %s to load %s", c.vehicle.Number, load.ID)
		e.record(metrics.AssignmentEvent{
			LoadID:     load.ID,
			VehicleID:  c.vehicle.ID,
			DistanceKm: c.distance,
			Weight:     load.Weight,
			Succeeded:  true,
			Time:       now,
		})
		if e.bus != nil {
			e.bus.Publish(events.LoadAssigned{LoadID: load.ID, VehicleID: c.vehicle.ID, Time: now})
		}
		return load, nil
	}

	e.record(metrics.AssignmentEvent{LoadID: load.ID, Weight: load.Weight, Time: now})
	return model.Load{}, fmt.Errorf("load %s: %w", loadID, ErrNoEligibleVehicle)
}

// AutoAssignPending walks all unassigned pending loads, most urgent first,
// and assigns each independently. Per-load failures are logged and skipped;
// the batch always runs to completion. The returned slice holds every load
// now in ASSIGNED status.
func (e *Engine) AutoAssignPending() []model.Load {
	for _, load := range e.loads.ListPending() {
		if _, err := e.Assign(load.ID); err != nil {
			e.log.Warnf("auto-assign load %s: %v", load.ID, err)
		}
	}
	return e.loads.ListByStatus(model.LoadAssigned)
}

// Deliver completes the load and returns its vehicle to the available pool.
func (e *Engine) Deliver(loadID string) (model.Load, error) {
	load, err := e.loads.Get(loadID)
	if err != nil {
		return model.Load{}, err
	}
	load.Status = model.LoadDelivered
	load.DeliveredAt = e.now()
	if err := e.loads.Put(load); err != nil {
		return model.Load{}, err
	}
	if load.VehicleID != "" {
		released, err := e.vehicles.CompareAndSwapStatus(load.VehicleID, model.VehicleInUse, model.VehicleAvailable)
		if err != nil && !errors.Is(err, registry.ErrNotFound) {
			return model.Load{}, err
		}
		if !released {
			e.log.Warnf("vehicle %s not in use at delivery of load %s", load.VehicleID, load.ID)
		}
	}
	if e.bus != nil {
		e.bus.Publish(events.LoadDelivered{LoadID: load.ID, VehicleID: load.VehicleID, Time: load.DeliveredAt})
	}
	return load, nil
}

// UpdateStatus moves a load through its lifecycle, applying delivery side
// effects when the new status is DELIVERED.
func (e *Engine) UpdateStatus(loadID string, status model.LoadStatus) (model.Load, error) {
	if status == model.LoadDelivered {
		return e.Deliver(loadID)
	}
	load, err := e.loads.Get(loadID)
	if err != nil {
		return model.Load{}, err
	}
	load.Status = status
	if err := e.loads.Put(load); err != nil {
		return model.Load{}, err
	}
	return load, nil
}

func (e *Engine) record(ev metrics.AssignmentEvent) {
	if err := e.sink.RecordAssignment(ev); err != nil {
		e.log.Warnf("record assignment: %v", err)
	}
}

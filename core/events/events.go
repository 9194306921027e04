// Package events declares the domain events published on the internal bus.
package events

import (
	"time"

	"github.com/optifleet/fleetcore/core/model"
)

// Event is implemented by every domain event.
type Event interface {
	EventName() string
}

// RouteOptimized is published after a route optimization request completes.
type RouteOptimized struct {
	VehicleID      string
	Primary        model.OptimizationType
	RoutesAnalyzed int
	Time           time.Time
}

func (RouteOptimized) EventName() string { return "route_optimized" }

// LoadAssigned is published when a load is matched to a vehicle.
type LoadAssigned struct {
	LoadID    string
	VehicleID string
	Time      time.Time
}

func (LoadAssigned) EventName() string { return "load_assigned" }

// LoadDelivered is published when a load completes delivery.
type LoadDelivered struct {
	LoadID    string
	VehicleID string
	Time      time.Time
}

func (LoadDelivered) EventName() string { return "load_delivered" }

// Package registry defines the collaborator interfaces the optimization core
// depends on: vehicle, load, route and booking registries plus the customer
// preference store and the rating aggregate. In-memory reference
// implementations back the service and the tests; durable persistence is
// owned by an external system.
package registry

import (
	"errors"
	"time"

	"github.com/optifleet/fleetcore/core/model"
)

// ErrNotFound indicates an unknown vehicle, load, route or booking id.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates a malformed request, such as a non-positive weight
// or an inverted date range.
var ErrValidation = errors.New("invalid request")

// VehicleRegistry exposes the fleet to the optimization core. Status flips
// must go through CompareAndSwapStatus so concurrent assignments racing on
// the same vehicle cannot both succeed.
type VehicleRegistry interface {
	Get(id string) (model.Vehicle, error)
	List() []model.Vehicle
	ListByStatus(status model.VehicleStatus) []model.Vehicle
	Put(v model.Vehicle)
	// CompareAndSwapStatus atomically moves the vehicle from one status to
	// another. It returns false when the vehicle is no longer in the
	// expected state.
	CompareAndSwapStatus(id string, from, to model.VehicleStatus) (bool, error)
	// Apply mutates the vehicle under the registry lock. Used by the
	// telemetry adapter for position and energy updates.
	Apply(id string, fn func(*model.Vehicle)) error
}

// LoadRegistry stores shipments awaiting or undergoing delivery.
type LoadRegistry interface {
	Get(id string) (model.Load, error)
	List() []model.Load
	// ListPending returns unassigned PENDING loads ordered by priority,
	// most urgent first, ties broken by creation time.
	ListPending() []model.Load
	ListByStatus(status model.LoadStatus) []model.Load
	Create(l model.Load) (model.Load, error)
	Put(l model.Load) error
}

// RouteRegistry persists optimizer output.
type RouteRegistry interface {
	Get(id string) (model.Route, error)
	ListByVehicle(vehicleID string) []model.Route
	Create(r model.Route) model.Route
	Put(r model.Route) error
}

// BookingRegistry provides read access to reservations for overlap filtering
// and preference learning.
type BookingRegistry interface {
	List() []model.Booking
	ListByVehicle(vehicleID string) []model.Booking
	ListByCustomer(customerID string) []model.Booking
	Put(b model.Booking)
}

// PreferenceStore holds one learned profile per customer.
type PreferenceStore interface {
	Get(customerID string) (model.CustomerPreference, bool)
	Put(p model.CustomerPreference)
}

// RatingSource exposes the average rating per vehicle. The second return is
// false when the vehicle has never been rated.
type RatingSource interface {
	AverageRating(vehicleID string) (float64, bool)
}

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

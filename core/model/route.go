package model

import "time"

// OptimizationType selects the edge cost function used by the router.
type OptimizationType string

const (
	OptimizeFastest         OptimizationType = "FASTEST"
	OptimizeEnergyEfficient OptimizationType = "ENERGY_EFFICIENT"
	OptimizeBalanced        OptimizationType = "BALANCED"
	OptimizeShortest        OptimizationType = "SHORTEST"
)

// TrafficLevel is a coarse congestion estimate for a route.
type TrafficLevel string

const (
	TrafficLow    TrafficLevel = "LOW"
	TrafficMedium TrafficLevel = "MEDIUM"
	TrafficHigh   TrafficLevel = "HIGH"
	TrafficSevere TrafficLevel = "SEVERE"
)

// RouteStatus tracks the lifecycle of a computed route.
type RouteStatus string

const (
	RoutePending   RouteStatus = "PENDING"
	RouteActive    RouteStatus = "ACTIVE"
	RouteCompleted RouteStatus = "COMPLETED"
	RouteCancelled RouteStatus = "CANCELLED"
)

// Route is one candidate itinerary produced by the optimizer. Distance and
// path are immutable once created; Status is advanced externally as the
// physical trip progresses.
type Route struct {
	ID               string           `json:"id"`
	VehicleID        string           `json:"vehicle_id"`
	StartLocation    string           `json:"start_location"`
	EndLocation      string           `json:"end_location"`
	Start            Location         `json:"start"`
	End              Location         `json:"end"`
	DistanceKm       float64          `json:"distance_km"`
	EtaMinutes       int              `json:"eta_minutes"`
	EnergyCost       float64          `json:"energy_cost"`
	TrafficLevel     TrafficLevel     `json:"traffic_level"`
	OptimizationType OptimizationType `json:"optimization_type"`
	Path             []string         `json:"path"`
	Status           RouteStatus      `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	CompletedAt      time.Time        `json:"completed_at,omitempty"`
}

// Package metrics defines the recording interfaces the optimization core
// emits into. Concrete sinks live under infra/metrics.
package metrics

import (
	"time"

	"github.com/optifleet/fleetcore/core/model"
)

// RouteEvent is one computed route variant to be recorded.
type RouteEvent struct {
	VehicleID        string
	OptimizationType model.OptimizationType
	DistanceKm       float64
	EtaMinutes       int
	EnergyCost       float64
	TrafficLevel     model.TrafficLevel
	Fallback         bool // direct-route degradation
	Time             time.Time
}

// AssignmentEvent captures one load assignment attempt.
type AssignmentEvent struct {
	LoadID     string
	VehicleID  string
	DistanceKm float64
	Weight     float64
	Succeeded  bool
	Time       time.Time
}

// RecommendationEvent summarises one recommendation request.
type RecommendationEvent struct {
	CustomerID string
	Candidates int
	TopScore   float64
	Time       time.Time
}

// MetricsSink records optimization events for observability purposes.
type MetricsSink interface {
	RecordRoutes(events []RouteEvent) error
	RecordAssignment(ev AssignmentEvent) error
	RecordRecommendation(ev RecommendationEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordRoutes([]RouteEvent) error                { return nil }
func (NopSink) RecordAssignment(AssignmentEvent) error         { return nil }
func (NopSink) RecordRecommendation(RecommendationEvent) error { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9091"
	}
}

// Package metrics provides the Prometheus and InfluxDB implementations of the
// core metrics sink.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/optifleet/fleetcore/core/metrics"
)

// PromSink records optimization events in Prometheus metrics.
type PromSink struct {
	routes          *prometheus.CounterVec
	routeEta        *prometheus.HistogramVec
	assignments     *prometheus.CounterVec
	assignDistance  prometheus.Histogram
	recommendations prometheus.Counter
	topScore        prometheus.Histogram
}

// NewPromSink registers optimization metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	routes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_routes_computed_total",
		Help: "Total number of computed route variants",
	}, []string{"optimization_type", "traffic_level", "fallback"})
	routeEta := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleet_route_eta_minutes",
		Help:    "Predicted ETA of computed routes in minutes",
		Buckets: []float64{5, 15, 30, 60, 120, 240},
	}, []string{"optimization_type"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_load_assignments_total",
		Help: "Total number of load assignment attempts",
	}, []string{"succeeded"})
	assignDistance := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleet_assignment_distance_km",
		Help:    "Distance between the chosen vehicle and the pickup point",
		Buckets: []float64{1, 5, 10, 25, 50, 100},
	})
	recommendations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleet_recommendations_total",
		Help: "Total number of recommendation requests",
	})
	topScore := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleet_recommendation_top_score",
		Help:    "Score of the best candidate per recommendation request",
		Buckets: []float64{50, 60, 70, 80, 90, 100},
	})

	if err := reg.Register(routes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			routes = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(routeEta); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			routeEta = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(assignDistance); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignDistance = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(recommendations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			recommendations = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(topScore); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			topScore = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		routes:          routes,
		routeEta:        routeEta,
		assignments:     assignments,
		assignDistance:  assignDistance,
		recommendations: recommendations,
		topScore:        topScore,
	}, nil
}

// RecordRoutes increments the route counter and observes the ETA for each
// computed variant.
func (s *PromSink) RecordRoutes(events []coremetrics.RouteEvent) error {
	for _, ev := range events {
		s.routes.WithLabelValues(
			string(ev.OptimizationType),
			string(ev.TrafficLevel),
			strconv.FormatBool(ev.Fallback),
		).Inc()
		s.routeEta.WithLabelValues(string(ev.OptimizationType)).Observe(float64(ev.EtaMinutes))
	}
	return nil
}

// RecordAssignment counts the attempt and observes the pickup distance on
// success.
func (s *PromSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	s.assignments.WithLabelValues(strconv.FormatBool(ev.Succeeded)).Inc()
	if ev.Succeeded {
		s.assignDistance.Observe(ev.DistanceKm)
	}
	return nil
}

// RecordRecommendation counts the request and observes the winning score.
func (s *PromSink) RecordRecommendation(ev coremetrics.RecommendationEvent) error {
	s.recommendations.Inc()
	if ev.Candidates > 0 {
		s.topScore.Observe(ev.TopScore)
	}
	return nil
}

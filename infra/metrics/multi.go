package metrics

import coremetrics "github.com/optifleet/fleetcore/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRoutes forwards the events to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordRoutes(events []coremetrics.RouteEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRoutes(events); err != nil {
			return err
		}
	}
	return nil
}

// RecordAssignment forwards the event to all sinks.
func (m *MultiSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignment(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRecommendation forwards the event to all sinks.
func (m *MultiSink) RecordRecommendation(ev coremetrics.RecommendationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRecommendation(ev); err != nil {
			return err
		}
	}
	return nil
}

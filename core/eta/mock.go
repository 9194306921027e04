package eta

import "github.com/optifleet/fleetcore/core/model"

// MockModel returns canned predictions for tests.
type MockModel struct {
	ETA     int
	Traffic model.TrafficLevel
}

func (m MockModel) PredictETA(distanceKm float64, traffic model.TrafficLevel, electric bool) int {
	_, _, _ = distanceKm, traffic, electric
	if m.ETA < 1 {
		return 1
	}
	return m.ETA
}

func (m MockModel) PredictTrafficLevel(distanceKm float64) model.TrafficLevel {
	_ = distanceKm
	if m.Traffic == "" {
		return model.TrafficMedium
	}
	return m.Traffic
}

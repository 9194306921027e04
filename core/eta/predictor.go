package eta

import (
	"math"
	"math/rand"
	"time"

	"github.com/optifleet/fleetcore/core/model"
)

// PredictionModel forecasts travel time and traffic conditions.
type PredictionModel interface {
	// PredictETA returns the estimated travel time in minutes, never below 1.
	PredictETA(distanceKm float64, traffic model.TrafficLevel, electric bool) int

	// PredictTrafficLevel estimates congestion for a trip of the given
	// distance at the current time of day.
	PredictTrafficLevel(distanceKm float64) model.TrafficLevel
}

// Factory yields a fresh model per request so generator state never leaks
// between concurrent computations.
type Factory func() PredictionModel

// DefaultFactory returns heuristic models seeded from the wall clock.
func DefaultFactory() Factory {
	return func() PredictionModel {
		return NewHeuristicModel(time.Now().UnixNano(), time.Now)
	}
}

// FixedFactory returns heuristic models with a fixed seed and clock,
// reproducing identical outputs on every request.
func FixedFactory(seed int64, now func() time.Time) Factory {
	return func() PredictionModel {
		return NewHeuristicModel(seed, now)
	}
}

const baseSpeedKmh = 45.0

// HeuristicModel implements PredictionModel with the speed/correction
// heuristic. It is not safe for concurrent use; obtain one per request via a
// Factory.
type HeuristicModel struct {
	rng *rand.Rand
	now func() time.Time
}

// NewHeuristicModel builds a model with the given seed and clock.
func NewHeuristicModel(seed int64, now func() time.Time) *HeuristicModel {
	if now == nil {
		now = time.Now
	}
	return &HeuristicModel{rng: rand.New(rand.NewSource(seed)), now: now}
}

func (m *HeuristicModel) PredictETA(distanceKm float64, traffic model.TrafficLevel, electric bool) int {
	speed := baseSpeedKmh * trafficMultiplier(traffic)
	if electric {
		speed *= 1.05
	}
	speed *= m.timeOfDayMultiplier()

	baseETA := distanceKm / speed * 60
	eta := int(math.Ceil(baseETA * m.correction(distanceKm, traffic)))
	if eta < 1 {
		return 1
	}
	return eta
}

// correction blends historical, weather, congestion-pattern and long-haul
// factors into a single multiplier.
func (m *HeuristicModel) correction(distanceKm float64, traffic model.TrafficLevel) float64 {
	historical := 0.95 + m.rng.Float64()*0.1
	weather := 0.98 + m.rng.Float64()*0.04
	pattern := patternFactor(traffic)
	distanceFactor := 1.0
	if distanceKm > 20 {
		distanceFactor = 1.05
	}
	return historical * weather * pattern * distanceFactor
}

func (m *HeuristicModel) PredictTrafficLevel(distanceKm float64) model.TrafficLevel {
	_ = distanceKm
	hour := m.now().Hour()
	switch {
	case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
		if m.rng.Float64() > 0.5 {
			return model.TrafficHigh
		}
		return model.TrafficSevere
	case hour >= 22 || hour <= 5:
		return model.TrafficLow
	default:
		if m.rng.Float64() > 0.5 {
			return model.TrafficMedium
		}
		return model.TrafficHigh
	}
}

func (m *HeuristicModel) timeOfDayMultiplier() float64 {
	hour := m.now().Hour()
	switch {
	case hour >= 7 && hour <= 9:
		return 0.7
	case hour >= 17 && hour <= 19:
		return 0.75
	case hour >= 22 || hour <= 5:
		return 1.3
	default:
		return 1.0
	}
}

func trafficMultiplier(t model.TrafficLevel) float64 {
	switch t {
	case model.TrafficLow:
		return 1.2
	case model.TrafficHigh:
		return 0.7
	case model.TrafficSevere:
		return 0.5
	default:
		return 1.0
	}
}

func patternFactor(t model.TrafficLevel) float64 {
	switch t {
	case model.TrafficLow:
		return 0.95
	case model.TrafficHigh:
		return 1.1
	case model.TrafficSevere:
		return 1.25
	default:
		return 1.0
	}
}

// Recalculate re-predicts the ETA for the unfinished fraction of a route.
// progress is in [0,1].
func Recalculate(m PredictionModel, route model.Route, progress float64) int {
	remaining := route.DistanceKm * (1 - progress)
	return m.PredictETA(remaining, route.TrafficLevel, false)
}

package routing

import "github.com/optifleet/fleetcore/core/model"

// CostFunc converts an edge's raw attributes into a comparable scalar cost.
type CostFunc func(Edge) float64

// costFuncs is the closed strategy table keyed by optimization type.
var costFuncs = map[model.OptimizationType]CostFunc{
	model.OptimizeFastest: func(e Edge) float64 {
		return e.TimeBasis * (1 + e.TrafficFactor)
	},
	model.OptimizeEnergyEfficient: func(e Edge) float64 {
		return e.DistanceKm * e.EnergyFactor
	},
	model.OptimizeBalanced: func(e Edge) float64 {
		return e.TimeBasis*0.5 + e.DistanceKm*0.3 + e.EnergyFactor*20
	},
	model.OptimizeShortest: func(e Edge) float64 {
		return e.DistanceKm
	},
}

// CostFunction returns the edge cost strategy for the optimization type.
// Unknown types fall back to BALANCED.
func CostFunction(t model.OptimizationType) CostFunc {
	if fn, ok := costFuncs[t]; ok {
		return fn
	}
	return costFuncs[model.OptimizeBalanced]
}

var energyMultipliers = map[model.OptimizationType]float64{
	model.OptimizeEnergyEfficient: 0.7,
	model.OptimizeFastest:         1.3,
	model.OptimizeBalanced:        1.0,
	model.OptimizeShortest:        0.9,
}

// EnergyCost estimates the energy price of covering the distance under the
// given optimization type: 0.15 per km scaled by the type multiplier.
func EnergyCost(distanceKm float64, t model.OptimizationType) float64 {
	mult, ok := energyMultipliers[t]
	if !ok {
		mult = 1.0
	}
	return 0.15 * distanceKm * mult
}

// estimateTrafficLevel infers congestion from the implied average speed of a
// route: distance over cost-as-minutes.
func estimateTrafficLevel(costMinutes, distanceKm float64) model.TrafficLevel {
	speed := distanceKm / (costMinutes / 60)
	switch {
	case speed > 50:
		return model.TrafficLow
	case speed > 30:
		return model.TrafficMedium
	case speed > 20:
		return model.TrafficHigh
	default:
		return model.TrafficSevere
	}
}

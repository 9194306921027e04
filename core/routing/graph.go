// Package routing computes candidate routes between two points under
// competing objectives: a synthetic waypoint graph, a best-first search with
// pluggable edge cost functions, and an orchestrator that compares the
// variants and picks a primary.
package routing

import (
	"math/rand"

	"github.com/optifleet/fleetcore/core/model"
)

// Edge is a directed connection between two waypoints.
type Edge struct {
	To            string
	DistanceKm    float64
	TimeBasis     float64 // travel time basis in minutes, before traffic
	TrafficFactor float64 // [0, 0.3)
	EnergyFactor  float64 // [0.8, 1.2)
}

// Graph is an adjacency map over waypoint labels.
type Graph map[string][]Edge

// Waypoint labels bounding every generated graph.
const (
	StartWaypoint = "Start"
	EndWaypoint   = "End"
)

var waypoints = []string{
	StartWaypoint,
	"Highway-1",
	"Junction-A",
	"Downtown",
	"Bridge-North",
	"Industrial-Zone",
	"Park-Avenue",
	"Main-Street",
	"Station-Central",
	EndWaypoint,
}

// GraphSource produces the routing graph for one request. Implementations
// may ignore the coordinates; the synthetic source does, a road-network
// provider would not.
type GraphSource interface {
	Build(start, end model.Location) Graph
}

// SyntheticGraphSource generates a fixed ten-waypoint graph from a constant
// seed. Every call yields identical nodes and edges regardless of the input
// coordinates, so the route variants computed for one request are always
// compared on the same graph.
type SyntheticGraphSource struct {
	Seed int64
}

// NewSyntheticGraphSource returns the default synthetic source.
func NewSyntheticGraphSource() *SyntheticGraphSource {
	return &SyntheticGraphSource{Seed: 42}
}

// Build generates the graph. Each ordered pair of distinct waypoints gets an
// edge with probability one half; weights are drawn uniformly from the
// documented ranges.
func (s *SyntheticGraphSource) Build(start, end model.Location) Graph {
	_, _ = start, end
	rng := rand.New(rand.NewSource(s.Seed))
	g := make(Graph, len(waypoints))
	for _, from := range waypoints {
		g[from] = nil
		for _, to := range waypoints {
			if from == to {
				continue
			}
			if rng.Float64() <= 0.5 {
				continue
			}
			distance := 2 + rng.Float64()*8
			timeBasis := distance / (0.4 + rng.Float64()*0.3)
			g[from] = append(g[from], Edge{
				To:            to,
				DistanceKm:    distance,
				TimeBasis:     timeBasis,
				TrafficFactor: rng.Float64() * 0.3,
				EnergyFactor:  0.8 + rng.Float64()*0.4,
			})
		}
	}
	return g
}

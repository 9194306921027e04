package routing

import (
	"container/heap"
	"math"
	"time"

	"github.com/optifleet/fleetcore/core/geo"
	"github.com/optifleet/fleetcore/core/model"
)

// RouteSpec carries the request parameters shared by all route variants.
type RouteSpec struct {
	VehicleID     string
	StartLocation string
	EndLocation   string
	Start         model.Location
	End           model.Location
}

type searchNode struct {
	label    string
	cost     float64
	distance float64
	path     []string
}

type nodeHeap []searchNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)         { *h = append(*h, x.(searchNode)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FindRoute runs a best-first search over the graph with the cost function of
// the given optimization type. The first extraction of the destination from
// the priority queue has minimal cost among paths through already-visited
// nodes, the standard Dijkstra optimality argument. When the destination is
// unreachable the route degrades to a direct haversine estimate.
func FindRoute(g Graph, spec RouteSpec, optType model.OptimizationType, now time.Time) model.Route {
	costFn := CostFunction(optType)

	queue := &nodeHeap{{label: StartWaypoint, path: []string{StartWaypoint}}}
	heap.Init(queue)
	best := map[string]float64{StartWaypoint: 0}
	visited := map[string]bool{}

	for queue.Len() > 0 {
		current := heap.Pop(queue).(searchNode)
		if visited[current.label] {
			continue
		}
		visited[current.label] = true

		if current.label == EndWaypoint {
			return routeFromPath(current, spec, optType, now)
		}

		for _, edge := range g[current.label] {
			if visited[edge.To] {
				continue
			}
			newCost := current.cost + costFn(edge)
			if prev, ok := best[edge.To]; ok && newCost >= prev {
				continue
			}
			best[edge.To] = newCost
			path := make([]string, len(current.path), len(current.path)+1)
			copy(path, current.path)
			heap.Push(queue, searchNode{
				label:    edge.To,
				cost:     newCost,
				distance: current.distance + edge.DistanceKm,
				path:     append(path, edge.To),
			})
		}
	}

	return directRoute(spec, optType, now)
}

func routeFromPath(n searchNode, spec RouteSpec, optType model.OptimizationType, now time.Time) model.Route {
	eta := int(math.Ceil(n.cost))
	if eta < 1 {
		eta = 1
	}
	return model.Route{
		VehicleID:        spec.VehicleID,
		StartLocation:    spec.StartLocation,
		EndLocation:      spec.EndLocation,
		Start:            spec.Start,
		End:              spec.End,
		DistanceKm:       n.distance,
		EtaMinutes:       eta,
		EnergyCost:       EnergyCost(n.distance, optType),
		TrafficLevel:     estimateTrafficLevel(n.cost, n.distance),
		OptimizationType: optType,
		Path:             n.path,
		Status:           model.RoutePending,
		CreatedAt:        now,
	}
}

// directRoute is the unreachable-graph fallback: straight-line distance at a
// nominal 0.5 km per minute.
func directRoute(spec RouteSpec, optType model.OptimizationType, now time.Time) model.Route {
	distance := geo.Distance(spec.Start, spec.End)
	eta := int(math.Ceil(distance / 0.5))
	if eta < 1 {
		eta = 1
	}
	return model.Route{
		VehicleID:        spec.VehicleID,
		StartLocation:    spec.StartLocation,
		EndLocation:      spec.EndLocation,
		Start:            spec.Start,
		End:              spec.End,
		DistanceKm:       distance,
		EtaMinutes:       eta,
		EnergyCost:       EnergyCost(distance, optType),
		TrafficLevel:     model.TrafficMedium,
		OptimizationType: optType,
		Path:             []string{StartWaypoint, EndWaypoint},
		Status:           model.RoutePending,
		CreatedAt:        now,
	}
}

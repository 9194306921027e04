// Package geo provides pure geodesic helpers shared by the routing,
// assignment and recommendation engines.
package geo

import (
	"math"

	"github.com/optifleet/fleetcore/core/model"
)

const earthRadiusKm = 6371

// Distance returns the haversine great-circle distance between two points in
// kilometres. It is symmetric and zero for identical points.
func Distance(a, b model.Location) float64 {
	latDelta := radians(b.Latitude - a.Latitude)
	lonDelta := radians(b.Longitude - a.Longitude)
	h := math.Sin(latDelta/2)*math.Sin(latDelta/2) +
		math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*
			math.Sin(lonDelta/2)*math.Sin(lonDelta/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

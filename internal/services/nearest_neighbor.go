package services

import (
	"errors"
	"math"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

const earthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(a, b domain.Coordinates) float64 {
	rad := math.Pi / 180
	dLat := (b.Lat - a.Lat) * rad
	dLon := (b.Lon - a.Lon) * rad
	lat1 := a.Lat * rad
	lat2 := b.Lat * rad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Approximate a visiting order using a greedy nearest-neighbor walk.
//
// Distances are straight-line (haversine) and durations assume a constant
// average speed, so the result only stands in for a real directions answer.
// Ties go to the lower stop index: stops are scanned in index order and only
// a strictly shorter distance replaces the current best.
func NearestNeighborOrder(
	origin domain.Coordinates,
	stops []domain.Coordinates,
	speedKmh float64,
) (ports.DirectionsResult, error) {
	if speedKmh <= 0 {
		return ports.DirectionsResult{}, errors.New("nearest neighbor: speed must be positive")
	}
	if len(stops) == 0 {
		return ports.DirectionsResult{WaypointOrder: []int{}, Legs: []domain.RouteLeg{}}, nil
	}

	metersPerSecond := speedKmh * 1000 / 3600
	remaining := make(map[int]struct{}, len(stops))
	for i := range stops {
		remaining[i] = struct{}{}
	}

	order := make([]int, 0, len(stops))
	legs := make([]domain.RouteLeg, 0, len(stops))
	current := origin

	for len(remaining) > 0 {
		best := -1
		bestDist := math.MaxFloat64

		// Select next stop by minimum straight-line distance (greedy step).
		for i := range stops {
			if _, ok := remaining[i]; !ok {
				continue
			}
			d := HaversineMeters(current, stops[i])
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		if best < 0 {
			return ports.DirectionsResult{}, errors.New("nearest neighbor: failed to select next stop")
		}

		meters := int(math.Round(bestDist))
		seconds := int(math.Round(bestDist / metersPerSecond))
		legs = append(legs, domain.RouteLeg{
			DistanceText:    FormatDistance(meters),
			DurationText:    FormatDuration(seconds),
			DistanceMeters:  meters,
			DurationSeconds: seconds,
		})
		order = append(order, best)

		delete(remaining, best)
		current = stops[best]
	}

	return ports.DirectionsResult{WaypointOrder: order, Legs: legs}, nil
}

package ports

import (
	"context"
	"visit-route-service/internal/domain"
)

// Result of one waypoint-optimizing directions query.
// WaypointOrder is a permutation of the stop indices handed in, and Legs[i]
// is the leg arriving at stops[WaypointOrder[i]].
type DirectionsResult struct {
	WaypointOrder []int
	Legs          []domain.RouteLeg
}

// Contract for an external directions service able to reorder stops.
type DirectionsProvider interface {
	// Return the best visiting order of stops starting from origin.
	OptimizeStops(ctx context.Context, origin domain.Coordinates, stops []domain.Coordinates) (DirectionsResult, error)
}

package domain

import (
	"fmt"
	"strings"
)

// Represents one leg of an optimized visit route.
// Text fields are display strings returned by the routing service; the
// numeric fields carry the same measure in meters and seconds.
type RouteLeg struct {
	DistanceText    string
	DurationText    string
	DistanceMeters  int
	DurationSeconds int
}

// Represents the visiting sequence returned by one route optimization call.
// OptimizedOrder is a permutation of destination indices and Legs[i] is the
// leg that arrives at destinations[OptimizedOrder[i]].
// A RoutePlan is immutable once built; it is replaced, never patched.
type RoutePlan struct {
	Origin               Coordinates
	OptimizedOrder       []int
	Legs                 []RouteLeg
	TotalDistanceText    string
	TotalDurationText    string
	TotalDistanceMeters  int
	TotalDurationSeconds int
	Approximate          bool
	Message              string
}

// Validate checks the plan against a destination list of length n:
// one leg per destination and an order that is a bijection over [0, n).
func (p *RoutePlan) Validate(n int) error {
	if p == nil {
		return fmt.Errorf("validate route plan: plan is nil")
	}
	if len(p.OptimizedOrder) != n {
		return fmt.Errorf("validate route plan: optimized order has %d entries, want %d", len(p.OptimizedOrder), n)
	}
	if len(p.Legs) != n {
		return fmt.Errorf("validate route plan: %d legs, want %d", len(p.Legs), n)
	}

	seen := make([]bool, n)
	for _, idx := range p.OptimizedOrder {
		if idx < 0 || idx >= n {
			return fmt.Errorf("validate route plan: index %d out of range [0,%d)", idx, n)
		}
		if seen[idx] {
			return fmt.Errorf("validate route plan: duplicate index %d", idx)
		}
		seen[idx] = true
	}

	return nil
}

// approximateMarkers flag a route service message describing a degraded,
// straight-line calculation. Such plans are usable but must be labeled.
// Stems cover both genders of the Portuguese adjective.
var approximateMarkers = []string{"aproximad", "approximate"}

// IsApproximateMessage reports whether a route service message carries an
// approximate marker.
func IsApproximateMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range approximateMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"visit-route-service/internal/domain"
)

const mapsDirectionsURL = "https://www.google.com/maps/dir/"

// MapsURL builds the navigation deep link for a plan: origin fixed, the last
// stop in optimized order as destination and every other stop as a waypoint,
// in optimized order. The output is deterministic for a given plan.
func MapsURL(plan *domain.RoutePlan, destinations []domain.EligibleDestination) (string, error) {
	if plan == nil {
		return "", errors.New("maps url: plan is nil")
	}
	if len(destinations) == 0 {
		return "", domain.ErrInsufficientDestinations
	}
	if err := plan.Validate(len(destinations)); err != nil {
		return "", fmt.Errorf("maps url: %w", err)
	}

	ordered := make([]string, 0, len(plan.OptimizedOrder))
	for _, idx := range plan.OptimizedOrder {
		ordered = append(ordered, destinations[idx].Location.String())
	}

	// Parameters are written in a fixed order; url.Values would sort them.
	var b strings.Builder
	b.WriteString(mapsDirectionsURL)
	b.WriteString("?api=1")
	b.WriteString("&origin=" + url.QueryEscape(plan.Origin.String()))
	b.WriteString("&destination=" + url.QueryEscape(ordered[len(ordered)-1]))
	if len(ordered) > 1 {
		b.WriteString("&waypoints=" + url.QueryEscape(strings.Join(ordered[:len(ordered)-1], "|")))
	}
	b.WriteString("&travelmode=driving")

	return b.String(), nil
}

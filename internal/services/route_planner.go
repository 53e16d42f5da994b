package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/observability/metrics"
	"visit-route-service/internal/platform/obs"
	"visit-route-service/internal/ports"
	"visit-route-service/pkg/logging"
)

// ApproximateRouteMessage is returned alongside plans computed without the
// directions service.
const ApproximateRouteMessage = "Rota calculada de forma aproximada: serviço de direções indisponível"

// A stop handed to the planner: one eligible destination as sent by the client.
type RouteStop struct {
	ID       int64
	Name     string
	Address  string
	Location domain.Coordinates
}

// RoutePlanner answers route optimization requests.
//
// It coordinates:
//   - Plan cache lookups keyed by origin and ordered stops
//   - One directions call with waypoint optimization
//   - A straight-line nearest-neighbor fallback when directions fail
//
// The planner never retries the directions call.
type RoutePlanner struct {
	Directions      ports.DirectionsProvider
	Cache           ports.PlanCache
	Metrics         *metrics.RouteMetrics
	Logger          *logging.Logger
	AverageSpeedKmh float64
}

func (p *RoutePlanner) logger() *logging.Logger {
	if p.Logger == nil {
		return logging.Default()
	}
	return p.Logger
}

// Plan computes the visiting order of stops starting from origin.
func (p *RoutePlanner) Plan(
	ctx context.Context,
	origin domain.Coordinates,
	stops []RouteStop,
) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "route.Plan")(&err)

	if err := validateStops(origin, stops); err != nil {
		p.Metrics.ObserveOptimization(metrics.OutcomeError)
		return nil, err
	}

	key := PlanCacheKey(origin, stops)
	if p.Cache != nil {
		cached, ok, err := p.Cache.Get(ctx, key)
		if err != nil {
			p.logger().Warn("plan cache read failed", "error", err)
		} else if ok {
			p.Metrics.ObserveOptimization(metrics.OutcomeCacheHit)
			return cached, nil
		}
	}

	coords := make([]domain.Coordinates, len(stops))
	for i, s := range stops {
		coords[i] = s.Location
	}

	if p.Directions != nil {
		start := time.Now()
		res, dirErr := p.Directions.OptimizeStops(ctx, origin, coords)
		if dirErr == nil {
			dirErr = checkDirections(res, len(stops))
		}
		p.Metrics.ObserveDirectionsLatency(dirErr == nil, time.Since(start).Seconds())

		if dirErr == nil {
			plan := buildPlan(origin, res, false, "")
			if p.Cache != nil {
				if err := p.Cache.Put(ctx, key, plan); err != nil {
					p.logger().Warn("plan cache write failed", "error", err)
				}
			}
			p.Metrics.ObserveOptimization(metrics.OutcomeOK)
			return plan, nil
		}

		if errors.Is(dirErr, context.Canceled) {
			p.Metrics.ObserveOptimization(metrics.OutcomeError)
			return nil, fmt.Errorf("plan route: directions: %w", dirErr)
		}
		p.logger().Warn("directions failed, using approximate route", "error", dirErr, "stops", len(stops))
	}

	speed := p.AverageSpeedKmh
	if speed <= 0 {
		speed = 30
	}
	res, err := NearestNeighborOrder(origin, coords, speed)
	if err != nil {
		p.Metrics.ObserveOptimization(metrics.OutcomeError)
		return nil, fmt.Errorf("plan route: approximate order: %w", err)
	}

	p.Metrics.ObserveOptimization(metrics.OutcomeApproximate)
	return buildPlan(origin, res, true, ApproximateRouteMessage), nil
}

func validateStops(origin domain.Coordinates, stops []RouteStop) error {
	if !origin.Valid() {
		return fmt.Errorf("%w: origin coordinates are invalid", domain.ErrValidation)
	}
	if len(stops) == 0 {
		return domain.ErrInsufficientDestinations
	}

	seen := make(map[int64]struct{}, len(stops))
	for i, s := range stops {
		if !s.Location.Valid() {
			return fmt.Errorf("%w: destination %d has invalid coordinates", domain.ErrValidation, i)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: destination id %d repeated", domain.ErrValidation, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	return nil
}

func checkDirections(res ports.DirectionsResult, n int) error {
	probe := domain.RoutePlan{OptimizedOrder: res.WaypointOrder, Legs: res.Legs}
	if err := probe.Validate(n); err != nil {
		return fmt.Errorf("malformed directions result: %w", err)
	}
	return nil
}

func buildPlan(origin domain.Coordinates, res ports.DirectionsResult, approximate bool, msg string) *domain.RoutePlan {
	plan := &domain.RoutePlan{
		Origin:         origin,
		OptimizedOrder: res.WaypointOrder,
		Legs:           res.Legs,
		Approximate:    approximate,
		Message:        msg,
	}
	for _, leg := range res.Legs {
		plan.TotalDistanceMeters += leg.DistanceMeters
		plan.TotalDurationSeconds += leg.DurationSeconds
	}
	plan.TotalDistanceText = FormatDistance(plan.TotalDistanceMeters)
	plan.TotalDurationText = FormatDuration(plan.TotalDurationSeconds)
	return plan
}

// PlanCacheKey derives a stable key from the origin and the ordered stops.
func PlanCacheKey(origin domain.Coordinates, stops []RouteStop) string {
	var b strings.Builder
	b.WriteString(origin.String())
	for _, s := range stops {
		fmt.Fprintf(&b, "|%d@%s", s.ID, s.Location.String())
	}
	sum := sha256.Sum256([]byte(b.String()))
	return "route:v1:" + hex.EncodeToString(sum[:])
}

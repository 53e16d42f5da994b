package ports

import (
	"context"
	"visit-route-service/internal/domain"
)

// Cache for exact route plans keyed by origin and ordered stops.
// A miss is reported as (nil, false, nil).
type PlanCache interface {
	Get(ctx context.Context, key string) (*domain.RoutePlan, bool, error)
	Put(ctx context.Context, key string, plan *domain.RoutePlan) error
}

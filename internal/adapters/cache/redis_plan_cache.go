package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

type legRecord struct {
	DistanceText    string `json:"distance_text"`
	DurationText    string `json:"duration_text"`
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds"`
}

type planRecord struct {
	OriginLat            float64     `json:"origin_lat"`
	OriginLon            float64     `json:"origin_lon"`
	OptimizedOrder       []int       `json:"optimized_order"`
	Legs                 []legRecord `json:"legs"`
	TotalDistanceText    string      `json:"total_distance_text"`
	TotalDurationText    string      `json:"total_duration_text"`
	TotalDistanceMeters  int         `json:"total_distance_meters"`
	TotalDurationSeconds int         `json:"total_duration_seconds"`
}

// RedisPlanCache is a Redis-backed cache for exact (non approximate) route plans.
// Keys are expected to be consistent (e.g., derived by services.PlanCacheKey)
// by the caller.
type RedisPlanCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	return &RedisPlanCache{Client: client, TTL: ttl}
}

// Fetch a cached plan. A missing key is a miss, not an error.
func (c *RedisPlanCache) Get(ctx context.Context, key string) (_ *domain.RoutePlan, _ bool, err error) {
	defer obs.Time(ctx, "plan.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("plan cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get plan cache: key must not be empty")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get plan cache: %w", err)
	}

	var rec planRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false, fmt.Errorf("get plan cache: decode %q: %w", key, err)
	}

	plan := &domain.RoutePlan{
		Origin:               domain.Coordinates{Lat: rec.OriginLat, Lon: rec.OriginLon},
		OptimizedOrder:       rec.OptimizedOrder,
		Legs:                 make([]domain.RouteLeg, 0, len(rec.Legs)),
		TotalDistanceText:    rec.TotalDistanceText,
		TotalDurationText:    rec.TotalDurationText,
		TotalDistanceMeters:  rec.TotalDistanceMeters,
		TotalDurationSeconds: rec.TotalDurationSeconds,
	}
	for _, l := range rec.Legs {
		plan.Legs = append(plan.Legs, domain.RouteLeg(l))
	}

	return plan, true, nil
}

// Store a plan under key. Approximate plans are refused.
func (c *RedisPlanCache) Put(ctx context.Context, key string, plan *domain.RoutePlan) error {
	if c.Client == nil {
		return errors.New("plan cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert plan cache: key must not be empty")
	}
	if plan == nil {
		return errors.New("insert plan cache: plan is nil")
	}
	if plan.Approximate {
		return errors.New("insert plan cache: approximate plans are not cached")
	}

	rec := planRecord{
		OriginLat:            plan.Origin.Lat,
		OriginLon:            plan.Origin.Lon,
		OptimizedOrder:       plan.OptimizedOrder,
		Legs:                 make([]legRecord, 0, len(plan.Legs)),
		TotalDistanceText:    plan.TotalDistanceText,
		TotalDurationText:    plan.TotalDurationText,
		TotalDistanceMeters:  plan.TotalDistanceMeters,
		TotalDurationSeconds: plan.TotalDurationSeconds,
	}
	for _, l := range plan.Legs {
		rec.Legs = append(rec.Legs, legRecord(l))
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("insert plan cache: encode: %w", err)
	}

	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert plan cache key=%q: %w", key, err)
	}

	return nil
}

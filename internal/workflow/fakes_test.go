package workflow

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/location"
)

type fakeSource struct {
	calls    atomic.Int32
	patients []*domain.Patient
	err      error
	gate     chan struct{}
}

func (f *fakeSource) ListPatients(ctx context.Context) ([]*domain.Patient, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.patients, f.err
}

type fakeLocator struct {
	calls atomic.Int32
	at    domain.Coordinates
	err   error
}

func (f *fakeLocator) Locate(ctx context.Context, opts location.Options) (location.Result, error) {
	f.calls.Add(1)
	if f.err != nil {
		return location.Result{}, f.err
	}
	return location.Result{
		Latitude:    domain.FormatDegrees(f.at.Lat),
		Longitude:   domain.FormatDegrees(f.at.Lon),
		Coordinates: f.at,
		Source:      location.SourceNative,
	}, nil
}

type fakeOptimizer struct {
	calls atomic.Int32
	fn    func(ctx context.Context, origin domain.Coordinates, dests []domain.EligibleDestination) (*domain.RoutePlan, error)
}

func (f *fakeOptimizer) OptimizeRoute(ctx context.Context, origin domain.Coordinates, dests []domain.EligibleDestination) (*domain.RoutePlan, error) {
	f.calls.Add(1)
	return f.fn(ctx, origin, dests)
}

type writeCall struct {
	id int64
	at *time.Time
}

type fakeWriter struct {
	mu    sync.Mutex
	calls []writeCall
	err   error
}

func (f *fakeWriter) SetNextVisit(ctx context.Context, id int64, at *time.Time) (*domain.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, writeCall{id: id, at: at})
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Patient{ID: id, NextVisit: at}, nil
}

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func singleStopPlan(origin domain.Coordinates) *domain.RoutePlan {
	return &domain.RoutePlan{
		Origin:            origin,
		OptimizedOrder:    []int{0},
		Legs:              []domain.RouteLeg{{DistanceText: "2 km", DurationText: "5 min"}},
		TotalDistanceText: "2 km",
		TotalDurationText: "5 min",
	}
}

func fptr(v float64) *float64 { return &v }

func tptr(t time.Time) *time.Time { return &t }

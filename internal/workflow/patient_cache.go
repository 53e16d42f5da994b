package workflow

import (
	"context"
	"strconv"
	"sync"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"

	"golang.org/x/sync/singleflight"
)

// PatientCache is the read-through copy of the patient collection. Nothing
// edits it in place: writes go to the server and Invalidate forces a full
// refetch on the next read.
type PatientCache struct {
	Source ports.PatientSource

	mu         sync.Mutex
	patients   []*domain.Patient
	valid      bool
	generation uint64
	group      singleflight.Group
}

func NewPatientCache(src ports.PatientSource) *PatientCache {
	return &PatientCache{Source: src}
}

// Patients returns the cached collection, fetching it when invalid.
// Concurrent misses share one fetch, which a single caller's cancellation
// does not abort.
func (c *PatientCache) Patients(ctx context.Context) ([]*domain.Patient, error) {
	c.mu.Lock()
	if c.valid {
		out := c.patients
		c.mu.Unlock()
		return out, nil
	}
	gen := c.generation
	c.mu.Unlock()

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own ctx is done.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		return c.Source.ListPatients(fetchCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	patients := res.Val.([]*domain.Patient)

	c.mu.Lock()
	// An invalidation during the fetch means the result may predate a write.
	if c.generation == gen {
		c.patients = patients
		c.valid = true
	}
	c.mu.Unlock()

	return patients, nil
}

func (c *PatientCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.patients = nil
	c.generation++
}

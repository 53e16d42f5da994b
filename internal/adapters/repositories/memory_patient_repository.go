package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"
	"visit-route-service/internal/domain"
)

// In-memory implementation of the PatientRepository port. Used when no
// database is configured and in tests.
type MemoryPatientRepository struct {
	mu       sync.RWMutex
	patients map[int64]domain.Patient
	now      func() time.Time
}

func NewMemoryPatientRepository(patients ...domain.Patient) *MemoryPatientRepository {
	r := &MemoryPatientRepository{
		patients: make(map[int64]domain.Patient, len(patients)),
		now:      time.Now,
	}
	for _, p := range patients {
		r.patients[p.ID] = p
	}
	return r
}

// Build a repository from the same JSON seed file used by dbtool.
func LoadMemoryPatientRepository(jsonPath string) (*MemoryPatientRepository, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load memory repository: read %q: %w", jsonPath, err)
	}

	var data []PatientSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load memory repository: parse json: %w", err)
	}

	patients := make([]domain.Patient, 0, len(data))
	for _, s := range data {
		patients = append(patients, domain.Patient{
			ID:        s.ID,
			Name:      s.Name,
			Address:   s.Address,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			LastVisit: s.LastVisit,
			NextVisit: s.NextVisit,
		})
	}
	return NewMemoryPatientRepository(patients...), nil
}

func (r *MemoryPatientRepository) ListPatients(ctx context.Context) ([]*domain.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.patients))
	for id := range r.patients {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]*domain.Patient, 0, len(ids))
	for _, id := range ids {
		p := r.patients[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *MemoryPatientRepository) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, fmt.Errorf("get patient %d: %w", id, domain.ErrPatientNotFound)
	}
	return &p, nil
}

func (r *MemoryPatientRepository) SetNextVisit(ctx context.Context, id int64, at *time.Time) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, fmt.Errorf("set next visit: patient %d: %w", id, domain.ErrPatientNotFound)
	}

	if at != nil {
		v := *at
		p.NextVisit = &v
	} else {
		p.NextVisit = nil
	}
	p.UpdatedAt = r.now()
	r.patients[id] = p

	return &p, nil
}

package ports

import (
	"context"
	"time"
	"visit-route-service/internal/domain"
)

// Port: a boundary for reading and updating Patient records in the store of record.
type PatientRepository interface {
	// Retrieve the whole patient collection, ordered by id.
	ListPatients(ctx context.Context) ([]*domain.Patient, error)
	// Retrieve one patient; domain.ErrPatientNotFound when absent.
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
	// Replace the next-visit field wholesale. A nil value clears it.
	SetNextVisit(ctx context.Context, id int64, at *time.Time) (*domain.Patient, error)
}

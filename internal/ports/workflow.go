package ports

import (
	"context"
	"time"
	"visit-route-service/internal/domain"
)

// PatientSource loads the full patient collection the field workflow works on.
type PatientSource interface {
	ListPatients(ctx context.Context) ([]*domain.Patient, error)
}

// RouteOptimizer sends one route optimization request and returns the plan.
// Failures surface as *domain.RouteServiceError.
type RouteOptimizer interface {
	OptimizeRoute(ctx context.Context, origin domain.Coordinates, destinations []domain.EligibleDestination) (*domain.RoutePlan, error)
}

// AgendaWriter replaces a patient's next-visit field. A nil value clears it.
type AgendaWriter interface {
	SetNextVisit(ctx context.Context, patientID int64, at *time.Time) (*domain.Patient, error)
}

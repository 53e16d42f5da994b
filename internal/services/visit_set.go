package services

import (
	"time"
	"visit-route-service/internal/domain"
)

// BuildVisitSet returns the patients whose next visit falls on day and who
// carry finite coordinates, in the order of the input collection.
//
// The function is pure and cheap; callers memoize if they need to.
func BuildVisitSet(patients []*domain.Patient, day domain.Day, loc *time.Location) []domain.EligibleDestination {
	out := make([]domain.EligibleDestination, 0)
	for _, p := range patients {
		if p == nil || p.NextVisit == nil {
			continue
		}
		if domain.DayOf(*p.NextVisit, loc) != day {
			continue
		}

		coords, ok := p.Coordinates()
		if !ok {
			continue
		}

		out = append(out, domain.EligibleDestination{
			PatientID:   p.ID,
			Name:        p.Name,
			Address:     p.Address,
			Location:    coords,
			ScheduledAt: *p.NextVisit,
		})
	}

	return out
}

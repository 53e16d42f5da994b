package services

import (
	"slices"
	"time"
	"visit-route-service/internal/domain"
)

// Calendar indexes derived visit events by the calendar date of the event.
type Calendar map[domain.Day][]domain.VisitEvent

// ProjectCalendar emits one "last" event per patient with a last visit and one
// "next" event per patient with a next visit, keyed by each event's own date.
// The projection is rebuilt from scratch on every call.
func ProjectCalendar(patients []*domain.Patient, loc *time.Location) Calendar {
	cal := make(Calendar)
	for _, p := range patients {
		if p == nil {
			continue
		}
		if p.LastVisit != nil {
			cal.add(loc, domain.VisitEvent{PatientID: p.ID, PatientName: p.Name, At: *p.LastVisit, Kind: domain.VisitLast})
		}
		if p.NextVisit != nil {
			cal.add(loc, domain.VisitEvent{PatientID: p.ID, PatientName: p.Name, At: *p.NextVisit, Kind: domain.VisitNext})
		}
	}
	return cal
}

func (c Calendar) add(loc *time.Location, ev domain.VisitEvent) {
	d := domain.DayOf(ev.At, loc)
	c[d] = append(c[d], ev)
}

// Counts returns the number of next and last events on day, for badges.
func (c Calendar) Counts(day domain.Day) (next, last int) {
	for _, ev := range c[day] {
		switch ev.Kind {
		case domain.VisitNext:
			next++
		case domain.VisitLast:
			last++
		}
	}
	return next, last
}

// Days returns the populated days in chronological order.
func (c Calendar) Days() []domain.Day {
	days := make([]domain.Day, 0, len(c))
	for d := range c {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b domain.Day) int {
		if a.Before(b) {
			return -1
		}
		if b.Before(a) {
			return 1
		}
		return 0
	})
	return days
}

// Between returns a copy restricted to [from, to]. Zero bounds are open.
func (c Calendar) Between(from, to domain.Day) Calendar {
	out := make(Calendar)
	for d, evs := range c {
		if !from.IsZero() && d.Before(from) {
			continue
		}
		if !to.IsZero() && to.Before(d) {
			continue
		}
		out[d] = evs
	}
	return out
}

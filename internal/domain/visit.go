package domain

import "time"

type VisitKind string

const (
	VisitLast VisitKind = "last"
	VisitNext VisitKind = "next"
)

// A VisitEvent is derived from a patient's last or next visit timestamp.
// Events are never stored; they are rebuilt from the patient collection.
type VisitEvent struct {
	PatientID   int64
	PatientName string
	At          time.Time
	Kind        VisitKind
}

// An EligibleDestination is a next-visit event on the selected day whose
// patient carries finite coordinates.
type EligibleDestination struct {
	PatientID   int64
	Name        string
	Address     string
	Location    Coordinates
	ScheduledAt time.Time
}

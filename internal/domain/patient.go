package domain

import "time"

// Represents a patient followed by an outreach team.
// Latitude/Longitude are nil when the address was never geo-referenced.
// NextVisit is owned by the persistence layer and only ever replaced
// wholesale (set, replaced or cleared).
type Patient struct {
	ID        int64
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
	LastVisit *time.Time
	NextVisit *time.Time
	UpdatedAt time.Time
}

// Coordinates returns the patient's position when both components are
// present and finite.
func (p Patient) Coordinates() (Coordinates, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return Coordinates{}, false
	}
	c := Coordinates{Lat: *p.Latitude, Lon: *p.Longitude}
	if !c.Valid() {
		return Coordinates{}, false
	}
	return c, true
}

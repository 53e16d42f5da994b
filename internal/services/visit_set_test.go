package services

import (
	"math"
	"testing"
	"time"
	"visit-route-service/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestBuildVisitSetScenario(t *testing.T) {
	next := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	patients := []*domain.Patient{
		{ID: 7, Name: "Maria", NextVisit: &next, Latitude: ptr(-15.80), Longitude: ptr(-48.05)},
	}

	got := BuildVisitSet(patients, domain.Day{Year: 2024, Month: time.March, Day: 10}, time.UTC)
	if len(got) != 1 {
		t.Fatalf("expected 1 destination, got %d", len(got))
	}
	if got[0].PatientID != 7 {
		t.Fatalf("patient = %d, want 7", got[0].PatientID)
	}
	if got[0].Location != (domain.Coordinates{Lat: -15.80, Lon: -48.05}) {
		t.Fatalf("location = %+v", got[0].Location)
	}
}

func TestBuildVisitSetFilters(t *testing.T) {
	day := domain.Day{Year: 2024, Month: time.March, Day: 10}
	morning := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)
	otherDay := time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)

	patients := []*domain.Patient{
		{ID: 1, NextVisit: &evening, Latitude: ptr(-15.7), Longitude: ptr(-47.9)},
		{ID: 2, NextVisit: &morning, Latitude: nil, Longitude: ptr(-47.9)},
		{ID: 3, NextVisit: &morning, Latitude: ptr(-15.7), Longitude: nil},
		{ID: 4, NextVisit: &otherDay, Latitude: ptr(-15.7), Longitude: ptr(-47.9)},
		{ID: 5, LastVisit: &morning, Latitude: ptr(-15.7), Longitude: ptr(-47.9)},
		nil,
		{ID: 6, NextVisit: &morning, Latitude: ptr(-15.6), Longitude: ptr(-47.8)},
	}

	got := BuildVisitSet(patients, day, time.UTC)

	ids := make([]int64, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.PatientID)
	}
	// Input order is kept: patient 1 (evening) stays ahead of patient 6 (morning).
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 6 {
		t.Fatalf("ids = %v, want [1 6]", ids)
	}
}

func TestBuildVisitSetDropsPatientWhenCoordinateRemoved(t *testing.T) {
	day := domain.Day{Year: 2024, Month: time.May, Day: 2}
	at := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	p := &domain.Patient{ID: 9, NextVisit: &at, Latitude: ptr(-15.8), Longitude: ptr(-48.0)}

	if got := BuildVisitSet([]*domain.Patient{p}, day, time.UTC); len(got) != 1 {
		t.Fatalf("expected patient before removal, got %d", len(got))
	}

	p.Longitude = nil
	if got := BuildVisitSet([]*domain.Patient{p}, day, time.UTC); len(got) != 0 {
		t.Fatalf("expected no destinations after removing longitude, got %d", len(got))
	}
}

func TestBuildVisitSetRejectsNonFiniteCoordinates(t *testing.T) {
	day := domain.Day{Year: 2024, Month: time.May, Day: 2}
	at := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	p := &domain.Patient{ID: 9, NextVisit: &at, Latitude: ptr(math.NaN()), Longitude: ptr(-48.0)}

	if got := BuildVisitSet([]*domain.Patient{p}, day, time.UTC); len(got) != 0 {
		t.Fatalf("expected NaN latitude to be excluded, got %d", len(got))
	}
}

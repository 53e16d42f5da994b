package dto

import (
	"time"
	"visit-route-service/internal/domain"
)

type VisitEventResponse struct {
	PatientID   int64     `json:"patientId"`
	PatientName string    `json:"nome"`
	At          time.Time `json:"at"`
	Kind        string    `json:"kind"`
}

type CalendarDayResponse struct {
	Day    domain.Day           `json:"day"`
	Next   int                  `json:"next"`
	Last   int                  `json:"last"`
	Events []VisitEventResponse `json:"events"`
}

type CalendarResponse struct {
	Days []CalendarDayResponse `json:"days"`
}

type EligibleDestinationResponse struct {
	PatientID   int64     `json:"id"`
	Name        string    `json:"nome"`
	Address     string    `json:"endereco"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ScheduledAt time.Time `json:"proximoAtendimento"`
}

type VisitSetResponse struct {
	Day          domain.Day                    `json:"day"`
	Destinations []EligibleDestinationResponse `json:"destinations"`
}

func NewVisitEventResponse(ev domain.VisitEvent) VisitEventResponse {
	return VisitEventResponse{
		PatientID:   ev.PatientID,
		PatientName: ev.PatientName,
		At:          ev.At,
		Kind:        string(ev.Kind),
	}
}

func NewEligibleDestinationResponse(d domain.EligibleDestination) EligibleDestinationResponse {
	return EligibleDestinationResponse{
		PatientID:   d.PatientID,
		Name:        d.Name,
		Address:     d.Address,
		Latitude:    d.Location.Lat,
		Longitude:   d.Location.Lon,
		ScheduledAt: d.ScheduledAt,
	}
}

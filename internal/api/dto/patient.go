package dto

import (
	"time"
	"visit-route-service/internal/domain"
)

type PatientResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"nome"`
	Address   string     `json:"endereco"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	LastVisit *time.Time `json:"ultimoAtendimento"`
	NextVisit *time.Time `json:"proximoAtendimento"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type ListPatientsResponse struct {
	Patients []PatientResponse `json:"patients"`
}

// Body of PATCH /patients/{id}. A JSON null clears the next visit; the field
// itself must be present.
type UpdateAgendaRequest struct {
	NextVisit OptionalTime `json:"proximoAtendimento"`
}

func NewPatientResponse(p *domain.Patient) PatientResponse {
	return PatientResponse{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		LastVisit: p.LastVisit,
		NextVisit: p.NextVisit,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r PatientResponse) ToDomain() *domain.Patient {
	return &domain.Patient{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		LastVisit: r.LastVisit,
		NextVisit: r.NextVisit,
		UpdatedAt: r.UpdatedAt,
	}
}

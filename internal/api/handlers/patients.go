package handlers

import (
	"errors"
	"net/http"
	"visit-route-service/internal/api/dto"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/observability/metrics"
	"visit-route-service/internal/ports"
	"visit-route-service/pkg/logging"
)

// PatientHandler exposes the patient collection and the agenda field update.
type PatientHandler struct {
	Repo    ports.PatientRepository
	Metrics *metrics.RouteMetrics
	Logger  *logging.Logger
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	patients, err := h.Repo.ListPatients(r.Context())
	if err != nil {
		loggerOr(h.Logger).Error("list patients failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPatientsResponse{
		Patients: make([]dto.PatientResponse, 0, len(patients)),
	}
	for _, p := range patients {
		res.Patients = append(res.Patients, dto.NewPatientResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := patientIDParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid patient id")
		return
	}

	p, err := h.Repo.GetPatient(r.Context(), id)
	if errors.Is(err, domain.ErrPatientNotFound) {
		writeError(w, r, http.StatusNotFound, "patient not found")
		return
	}
	if err != nil {
		loggerOr(h.Logger).Error("get patient failed", "patient_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPatientResponse(p))
}

// UpdateAgenda replaces proximoAtendimento wholesale. Null clears it; clearing
// an already empty field succeeds.
func (h *PatientHandler) UpdateAgenda(w http.ResponseWriter, r *http.Request) {
	id, ok := patientIDParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid patient id")
		return
	}

	var req dto.UpdateAgendaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.NextVisit.Set {
		writeError(w, r, http.StatusBadRequest, "proximoAtendimento is required")
		return
	}

	op := "set"
	if req.NextVisit.Value == nil {
		op = "clear"
	}

	p, err := h.Repo.SetNextVisit(r.Context(), id, req.NextVisit.Value)
	h.Metrics.ObserveAgendaMutation(op, err)
	if errors.Is(err, domain.ErrPatientNotFound) {
		writeError(w, r, http.StatusNotFound, "patient not found")
		return
	}
	if err != nil {
		loggerOr(h.Logger).Error("update agenda failed", "patient_id", id, "op", op, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPatientResponse(p))
}

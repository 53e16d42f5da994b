package handlers

import (
	"net/http"
	"time"
	"visit-route-service/internal/api/dto"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
	"visit-route-service/internal/services"
	"visit-route-service/pkg/logging"
)

// CalendarHandler serves read-only projections of the patient collection.
// Days are evaluated in Location.
type CalendarHandler struct {
	Repo     ports.PatientRepository
	Location *time.Location
	Logger   *logging.Logger
}

func (h *CalendarHandler) loc() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}

// Calendar returns next/last visit events grouped by day, optionally bounded
// by ?from= and ?to= (YYYY-MM-DD, inclusive).
func (h *CalendarHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	from, ok := optionalDay(r, "from")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, ok := optionalDay(r, "to")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}

	patients, err := h.Repo.ListPatients(r.Context())
	if err != nil {
		loggerOr(h.Logger).Error("calendar: list patients failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	cal := services.ProjectCalendar(patients, h.loc()).Between(from, to)

	res := dto.CalendarResponse{Days: make([]dto.CalendarDayResponse, 0, len(cal))}
	for _, day := range cal.Days() {
		next, last := cal.Counts(day)
		item := dto.CalendarDayResponse{
			Day:    day,
			Next:   next,
			Last:   last,
			Events: make([]dto.VisitEventResponse, 0, len(cal[day])),
		}
		for _, ev := range cal[day] {
			item.Events = append(item.Events, dto.NewVisitEventResponse(ev))
		}
		res.Days = append(res.Days, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Visits returns the eligible destinations of ?day=.
func (h *CalendarHandler) Visits(w http.ResponseWriter, r *http.Request) {
	day, err := domain.ParseDay(r.URL.Query().Get("day"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "day is required (YYYY-MM-DD)")
		return
	}

	patients, err := h.Repo.ListPatients(r.Context())
	if err != nil {
		loggerOr(h.Logger).Error("visits: list patients failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	dests := services.BuildVisitSet(patients, day, h.loc())
	res := dto.VisitSetResponse{
		Day:          day,
		Destinations: make([]dto.EligibleDestinationResponse, 0, len(dests)),
	}
	for _, d := range dests {
		res.Destinations = append(res.Destinations, dto.NewEligibleDestinationResponse(d))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func optionalDay(r *http.Request, key string) (domain.Day, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return domain.Day{}, true
	}
	d, err := domain.ParseDay(raw)
	if err != nil {
		return domain.Day{}, false
	}
	return d, true
}

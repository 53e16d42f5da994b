package handlers

import (
	"context"
	"errors"
	"net/http"
	"visit-route-service/internal/api/dto"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/services"
	"visit-route-service/pkg/logging"
)

// RoutePlanner computes a plan for an origin and a list of stops.
type RoutePlanner interface {
	Plan(ctx context.Context, origin domain.Coordinates, stops []services.RouteStop) (*domain.RoutePlan, error)
}

type RouteHandler struct {
	Planner RoutePlanner
	Logger  *logging.Logger
}

// Optimize answers one route optimization request. Approximate plans are a
// 200 with errorMessage set.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Origin == nil {
		writeError(w, r, http.StatusBadRequest, "origin is required")
		return
	}
	if len(req.Destinations) == 0 {
		writeError(w, r, http.StatusBadRequest, "at least one destination is required")
		return
	}

	origin := domain.Coordinates{Lat: req.Origin.Latitude, Lon: req.Origin.Longitude}
	stops := make([]services.RouteStop, 0, len(req.Destinations))
	for _, d := range req.Destinations {
		stops = append(stops, services.RouteStop{
			ID:       d.ID,
			Name:     d.Name,
			Address:  d.Address,
			Location: domain.Coordinates{Lat: d.Latitude, Lon: d.Longitude},
		})
	}

	plan, err := h.Planner.Plan(r.Context(), origin, stops)
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInsufficientDestinations):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		loggerOr(h.Logger).Error("optimize route failed", "stops", len(stops), "error", err)
		writeError(w, r, http.StatusBadGateway, "não foi possível otimizar a rota")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewOptimizeRouteResponse(plan))
}

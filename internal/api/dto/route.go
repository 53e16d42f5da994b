package dto

import "visit-route-service/internal/domain"

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteDestination struct {
	ID        int64   `json:"id"`
	Name      string  `json:"nome"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"endereco"`
}

type OptimizeRouteRequest struct {
	Origin       *LatLng            `json:"origin"`
	Destinations []RouteDestination `json:"destinations"`
}

type RouteLegResponse struct {
	DistanceText    string `json:"distanceText"`
	DurationText    string `json:"durationText"`
	DistanceMeters  int    `json:"distanceMeters,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

type OptimizeRouteResponse struct {
	OptimizedOrder       []int              `json:"optimizedOrder"`
	Legs                 []RouteLegResponse `json:"legs"`
	TotalDistanceText    string             `json:"totalDistanceText"`
	TotalDurationText    string             `json:"totalDurationText"`
	TotalDistanceMeters  int                `json:"totalDistanceMeters,omitempty"`
	TotalDurationSeconds int                `json:"totalDurationSeconds,omitempty"`
	UserLocation         *LatLng            `json:"userLocation,omitempty"`
	ErrorMessage         string             `json:"errorMessage,omitempty"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewOptimizeRouteRequest(origin domain.Coordinates, dests []domain.EligibleDestination) OptimizeRouteRequest {
	req := OptimizeRouteRequest{
		Origin:       &LatLng{Latitude: origin.Lat, Longitude: origin.Lon},
		Destinations: make([]RouteDestination, 0, len(dests)),
	}
	for _, d := range dests {
		req.Destinations = append(req.Destinations, RouteDestination{
			ID:        d.PatientID,
			Name:      d.Name,
			Latitude:  d.Location.Lat,
			Longitude: d.Location.Lon,
			Address:   d.Address,
		})
	}
	return req
}

func NewOptimizeRouteResponse(plan *domain.RoutePlan) OptimizeRouteResponse {
	res := OptimizeRouteResponse{
		OptimizedOrder:       plan.OptimizedOrder,
		Legs:                 make([]RouteLegResponse, 0, len(plan.Legs)),
		TotalDistanceText:    plan.TotalDistanceText,
		TotalDurationText:    plan.TotalDurationText,
		TotalDistanceMeters:  plan.TotalDistanceMeters,
		TotalDurationSeconds: plan.TotalDurationSeconds,
		UserLocation:         &LatLng{Latitude: plan.Origin.Lat, Longitude: plan.Origin.Lon},
		ErrorMessage:         plan.Message,
	}
	for _, l := range plan.Legs {
		res.Legs = append(res.Legs, RouteLegResponse(l))
	}
	return res
}

// ToDomain converts a wire response back into a plan. Approximate is derived
// from the error message marker.
func (r OptimizeRouteResponse) ToDomain(origin domain.Coordinates) *domain.RoutePlan {
	plan := &domain.RoutePlan{
		Origin:               origin,
		OptimizedOrder:       r.OptimizedOrder,
		Legs:                 make([]domain.RouteLeg, 0, len(r.Legs)),
		TotalDistanceText:    r.TotalDistanceText,
		TotalDurationText:    r.TotalDurationText,
		TotalDistanceMeters:  r.TotalDistanceMeters,
		TotalDurationSeconds: r.TotalDurationSeconds,
		Approximate:          domain.IsApproximateMessage(r.ErrorMessage),
		Message:              r.ErrorMessage,
	}
	for _, l := range r.Legs {
		plan.Legs = append(plan.Legs, domain.RouteLeg(l))
	}
	return plan
}

package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/platform/obs"
	"visit-route-service/internal/ports"
)

// Google caps optimized waypoints per request.
const MaxWaypoints = 25

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		WaypointOrder []int `json:"waypoint_order"`
		Legs          []struct {
			Distance struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"distance"`
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// GoogleDirectionsProvider implements DirectionsProvider with the Google
// Directions API and its optimize:true waypoint reordering.
//
// The route is requested as a loop that starts and ends at the origin so every
// stop can be reordered; the closing leg back to the origin is dropped.
//
// The provider is safe for concurrent use.
type GoogleDirectionsProvider struct {
	session  *http.Client
	apiKey   string
	baseURL  string
	language string
}

func NewGoogleDirectionsProvider(apiKey string, baseURL string) (*GoogleDirectionsProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google directions api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com"
	}

	return &GoogleDirectionsProvider{
		session:  &http.Client{Timeout: 15 * time.Second},
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: "pt-BR",
	}, nil
}

// OptimizeStops asks for the best order of stops starting from origin.
func (g *GoogleDirectionsProvider) OptimizeStops(
	ctx context.Context,
	origin domain.Coordinates,
	stops []domain.Coordinates,
) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "directions.OptimizeStops")(&err)

	if len(stops) == 0 {
		return ports.DirectionsResult{}, domain.ErrInsufficientDestinations
	}
	if len(stops) > MaxWaypoints {
		return ports.DirectionsResult{}, fmt.Errorf("directions: %d stops exceeds the %d waypoint limit", len(stops), MaxWaypoints)
	}

	endpoint := g.baseURL + "/maps/api/directions/json"
	req, err := g.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("directions request: %w", err)
	}

	waypoints := make([]string, 0, len(stops)+1)
	waypoints = append(waypoints, "optimize:true")
	for _, s := range stops {
		waypoints = append(waypoints, s.String())
	}

	q := req.URL.Query()
	q.Set("origin", origin.String())
	q.Set("destination", origin.String())
	q.Set("waypoints", strings.Join(waypoints, "|"))
	q.Set("mode", "driving")
	q.Set("language", g.language)
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := g.do(req)
	if err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if decoded.Status != "OK" {
		return ports.DirectionsResult{}, fmt.Errorf("directions status %s: %s", decoded.Status, decoded.ErrorMessage)
	}
	if len(decoded.Routes) == 0 {
		return ports.DirectionsResult{}, errors.New("directions returned no routes")
	}

	route := decoded.Routes[0]
	if len(route.Legs) != len(stops)+1 {
		return ports.DirectionsResult{}, fmt.Errorf(
			"directions returned %d legs for %d stops",
			len(route.Legs), len(stops),
		)
	}

	legs := make([]domain.RouteLeg, 0, len(stops))
	for _, l := range route.Legs[:len(stops)] {
		legs = append(legs, domain.RouteLeg{
			DistanceText:    l.Distance.Text,
			DurationText:    l.Duration.Text,
			DistanceMeters:  l.Distance.Value,
			DurationSeconds: l.Duration.Value,
		})
	}

	return ports.DirectionsResult{
		WaypointOrder: route.WaypointOrder,
		Legs:          legs,
	}, nil
}

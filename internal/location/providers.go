package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"visit-route-service/internal/domain"
)

// Request carries the positioning parameters handed to a provider.
type Request struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

// Provider is one positioning API.
type Provider interface {
	Name() string
	CurrentPosition(ctx context.Context, req Request) (domain.Coordinates, error)
}

// FuncProvider adapts a function to Provider.
type FuncProvider struct {
	Label string
	Fn    func(ctx context.Context, req Request) (domain.Coordinates, error)
}

func (p FuncProvider) Name() string { return p.Label }

func (p FuncProvider) CurrentPosition(ctx context.Context, req Request) (domain.Coordinates, error) {
	return p.Fn(ctx, req)
}

// FixedProvider reports the coordinates handed over by the field device
// (flags or DEVICE_LATITUDE/DEVICE_LONGITUDE). Empty values mean the device
// gave no fix.
type FixedProvider struct {
	Latitude  string
	Longitude string
}

func (p FixedProvider) Name() string { return "device" }

func (p FixedProvider) CurrentPosition(ctx context.Context, req Request) (domain.Coordinates, error) {
	if strings.TrimSpace(p.Latitude) == "" || strings.TrimSpace(p.Longitude) == "" {
		return domain.Coordinates{}, &PositionError{Code: CodePositionUnavailable, Message: "device reported no position"}
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(p.Latitude), 64)
	if err != nil {
		return domain.Coordinates{}, &PositionError{Code: CodePositionUnavailable, Message: "invalid latitude"}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(p.Longitude), 64)
	if err != nil {
		return domain.Coordinates{}, &PositionError{Code: CodePositionUnavailable, Message: "invalid longitude"}
	}

	c := domain.Coordinates{Lat: lat, Lon: lon}
	if !c.Valid() {
		return domain.Coordinates{}, &PositionError{Code: CodePositionUnavailable, Message: "coordinates out of range"}
	}
	return c, nil
}

// IPProvider asks an ip-api.com compatible endpoint for the caller's
// approximate position. It never serves a cached fix.
type IPProvider struct {
	URL     string
	Session *http.Client
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (p *IPProvider) Name() string { return "ip" }

func (p *IPProvider) CurrentPosition(ctx context.Context, req Request) (domain.Coordinates, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("ip location: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.MaximumAge == 0 {
		httpReq.Header.Set("Cache-Control", "no-cache")
	}

	session := p.Session
	if session == nil {
		session = http.DefaultClient
	}

	resp, err := session.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Coordinates{}, &PositionError{Code: CodeTimeout, Message: "ip location timed out"}
		}
		return domain.Coordinates{}, &PositionError{Code: CodePositionUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return domain.Coordinates{}, &PositionError{Code: CodePermissionDenied, Message: "ip location refused"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Coordinates{}, &PositionError{Code: CodePositionUnavailable, Message: fmt.Sprintf("ip location status %d", resp.StatusCode)}
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinates{}, &PositionError{Code: CodePositionUnavailable, Message: "ip location: malformed response"}
	}
	if body.Status != "" && body.Status != "success" {
		return domain.Coordinates{}, &PositionError{Code: CodePositionUnavailable, Message: body.Message}
	}

	c := domain.Coordinates{Lat: body.Lat, Lon: body.Lon}
	if !c.Valid() {
		return domain.Coordinates{}, &PositionError{Code: CodePositionUnavailable, Message: "ip location: coordinates out of range"}
	}
	return c, nil
}

package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"visit-route-service/internal/api/dto"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/platform/obs"
)

// Client talks to the visit route HTTP API. It implements the workflow's
// PatientSource, RouteOptimizer and AgendaWriter ports.
//
// Route and agenda calls carry no client-side timeout or retry: the caller's
// context bounds them and a failed attempt is reported once.
type Client struct {
	baseURL string
	session *http.Client
}

func New(baseURL string, session *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api client: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("api client: parse base url: %w", err)
	}
	if session == nil {
		session = &http.Client{}
	}
	return &Client{baseURL: baseURL, session: session}, nil
}

// ListPatients fetches the whole patient collection.
func (c *Client) ListPatients(ctx context.Context) (_ []*domain.Patient, err error) {
	defer obs.Time(ctx, "apiclient.ListPatients")(&err)

	req, err := c.newRequest(ctx, http.MethodGet, "/patients", nil)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	var res dto.ListPatientsResponse
	if err := c.do(req, &res); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	out := make([]*domain.Patient, 0, len(res.Patients))
	for _, p := range res.Patients {
		out = append(out, p.ToDomain())
	}
	return out, nil
}

// OptimizeRoute sends one optimization request. Every failure, including a
// payload that breaks the plan invariants, is a *domain.RouteServiceError.
func (c *Client) OptimizeRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.EligibleDestination,
) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "apiclient.OptimizeRoute")(&err)

	req, err := c.newRequest(ctx, http.MethodPost, "/routes/optimize", dto.NewOptimizeRouteRequest(origin, destinations))
	if err != nil {
		return nil, &domain.RouteServiceError{Message: "não foi possível montar a requisição de rota", Err: err}
	}

	var res dto.OptimizeRouteResponse
	if err := c.do(req, &res); err != nil {
		var se *httpStatusError
		if errors.As(err, &se) {
			return nil, &domain.RouteServiceError{Status: se.Code, Message: se.Message, Err: err}
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.RouteServiceError{Message: "requisição de rota cancelada", Err: err}
		}
		return nil, &domain.RouteServiceError{Message: "resposta inválida do serviço de rotas", Err: err}
	}

	plan := res.ToDomain(origin)
	if err := plan.Validate(len(destinations)); err != nil {
		return nil, &domain.RouteServiceError{Message: "resposta inválida do serviço de rotas", Err: err}
	}
	return plan, nil
}

// SetNextVisit replaces proximoAtendimento for one patient; nil clears it.
func (c *Client) SetNextVisit(ctx context.Context, patientID int64, at *time.Time) (_ *domain.Patient, err error) {
	defer obs.Time(ctx, "apiclient.SetNextVisit")(&err)

	body := dto.UpdateAgendaRequest{NextVisit: dto.OptionalTime{Set: true, Value: at}}
	req, err := c.newRequest(ctx, http.MethodPatch, "/patients/"+strconv.FormatInt(patientID, 10), body)
	if err != nil {
		return nil, fmt.Errorf("set next visit: %w", err)
	}

	var res dto.PatientResponse
	if err := c.do(req, &res); err != nil {
		return nil, fmt.Errorf("set next visit: patient %d: %w", patientID, err)
	}
	return res.ToDomain(), nil
}

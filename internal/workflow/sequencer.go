package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/location"
	"visit-route-service/internal/observability/metrics"
	"visit-route-service/internal/platform/obs"
	"visit-route-service/internal/ports"
	"visit-route-service/internal/services"
	"visit-route-service/pkg/logging"
)

// ErrStaleResult is returned when a route result arrives after the selection
// moved on. The result is dropped and nothing is notified.
var ErrStaleResult = errors.New("route result discarded: selection changed")

type Locator interface {
	Locate(ctx context.Context, opts location.Options) (location.Result, error)
}

// Sequencer turns the selected day's eligible destinations into a RoutePlan.
//
// Each Optimize call takes a fresh token from the store before doing any
// work. The plan is applied only if that token is still current when the
// optimizer answers, so a day change during the call wins.
type Sequencer struct {
	Store         *Store
	Patients      *PatientCache
	Locator       Locator
	Optimizer     ports.RouteOptimizer
	Notifier      ports.Notifier
	Metrics       *metrics.RouteMetrics
	Location      *time.Location
	LocateOptions location.Options
	Logger        *logging.Logger
}

type OptimizeResult struct {
	Plan *domain.RoutePlan
	Err  error
}

func (s *Sequencer) logger() *logging.Logger {
	if s.Logger == nil {
		return logging.Default()
	}
	return s.Logger
}

func (s *Sequencer) SelectDay(day domain.Day) State {
	return s.Store.Dispatch(SelectDay{Day: day})
}

func (s *Sequencer) Discard() State {
	return s.Store.Dispatch(DiscardRoute{})
}

// Destinations returns the eligible destinations of the selected day.
func (s *Sequencer) Destinations(ctx context.Context) ([]domain.EligibleDestination, error) {
	return s.destinationsFor(ctx, s.Store.State().SelectedDay)
}

func (s *Sequencer) destinationsFor(ctx context.Context, day domain.Day) ([]domain.EligibleDestination, error) {
	patients, err := s.Patients.Patients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	return services.BuildVisitSet(patients, day, s.Location), nil
}

// Optimize runs one sequencing attempt for the selected day: destinations,
// then origin, then exactly one optimizer call.
func (s *Sequencer) Optimize(ctx context.Context) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "workflow.Optimize")(&err)

	st := s.Store.Dispatch(RouteRequested{})
	token, day := st.RouteToken, st.SelectedDay

	if day.IsZero() {
		return nil, s.fail(ctx, token, fmt.Errorf("%w: no day selected", domain.ErrValidation),
			"Selecione um dia", "Escolha um dia no calendário antes de otimizar a rota.")
	}

	dests, err := s.destinationsFor(ctx, day)
	if err != nil {
		return nil, s.fail(ctx, token, fmt.Errorf("optimize route: %w", err),
			"Erro ao carregar pacientes", "Não foi possível carregar a lista de pacientes. Tente novamente.")
	}
	if len(dests) == 0 {
		return nil, s.fail(ctx, token, domain.ErrInsufficientDestinations,
			"Nenhum destino para o dia", "Não há pacientes com endereço georreferenciado agendados para "+day.String()+".")
	}

	fix, err := s.Locator.Locate(ctx, s.LocateOptions)
	if err != nil {
		// The locator has already notified the user.
		after := s.Store.Dispatch(RouteFailed{Token: token, Err: err.Error()})
		if after.RouteToken != token {
			return nil, ErrStaleResult
		}
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	if s.Store.State().RouteToken != token {
		return nil, ErrStaleResult
	}

	plan, err := s.Optimizer.OptimizeRoute(ctx, fix.Coordinates, dests)
	if err != nil {
		s.Metrics.ObserveOptimization(metrics.OutcomeError)
		body := "Não foi possível otimizar a rota. Tente novamente."
		var rse *domain.RouteServiceError
		if errors.As(err, &rse) && rse.Message != "" {
			body = rse.Message
		}
		return nil, s.fail(ctx, token, fmt.Errorf("optimize route: %w", err), "Erro ao otimizar rota", body)
	}

	after := s.Store.Dispatch(RouteSucceeded{Token: token, Day: day, Plan: plan, Stops: dests})
	if after.Plan != plan {
		s.logger().Info("discarding stale route result", "day", day.String(), "token", token, "current_token", after.RouteToken)
		return nil, ErrStaleResult
	}

	if plan.Approximate {
		s.Metrics.ObserveOptimization(metrics.OutcomeApproximate)
		s.notify(ctx, domain.Notification{
			Level:   domain.LevelSuccess,
			Title:   "Rota aproximada",
			Body:    plan.Message,
			Warning: true,
		})
	} else {
		s.Metrics.ObserveOptimization(metrics.OutcomeOK)
		s.notify(ctx, domain.Notification{
			Level: domain.LevelSuccess,
			Title: "Rota otimizada",
			Body:  fmt.Sprintf("%d paradas, %s, %s", len(dests), plan.TotalDistanceText, plan.TotalDurationText),
		})
	}

	return plan, nil
}

// OptimizeAsync runs Optimize in its own goroutine. The channel receives
// exactly one result and is then closed.
func (s *Sequencer) OptimizeAsync(ctx context.Context) <-chan OptimizeResult {
	out := make(chan OptimizeResult, 1)
	go func() {
		defer close(out)
		plan, err := s.Optimize(ctx)
		out <- OptimizeResult{Plan: plan, Err: err}
	}()
	return out
}

// NavigationURL builds the maps deep link of the current plan.
func (s *Sequencer) NavigationURL() (string, error) {
	st := s.Store.State()
	if st.Plan == nil {
		return "", errors.New("navigation url: no route plan for the selected day")
	}
	return services.MapsURL(st.Plan, st.PlanStops)
}

// fail records a failed attempt and notifies once. A failure whose token is
// no longer current belongs to an earlier selection and is dropped.
func (s *Sequencer) fail(ctx context.Context, token uint64, err error, title, body string) error {
	after := s.Store.Dispatch(RouteFailed{Token: token, Err: err.Error()})
	if after.RouteToken != token {
		s.logger().Info("discarding stale route failure", "token", token, "current_token", after.RouteToken, "error", err)
		return ErrStaleResult
	}
	s.notify(ctx, domain.Notification{Level: domain.LevelError, Title: title, Body: body})
	return err
}

func (s *Sequencer) notify(ctx context.Context, n domain.Notification) {
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, n)
	}
}

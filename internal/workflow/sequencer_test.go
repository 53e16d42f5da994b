package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
	"visit-route-service/internal/adapters/apiclient"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/location"
	"visit-route-service/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	brt    = time.FixedZone("BRT", -3*3600)
	origin = domain.Coordinates{Lat: -15.81, Lon: -48.06}
)

func patient7() *domain.Patient {
	return &domain.Patient{
		ID:        7,
		Name:      "Maria",
		Latitude:  fptr(-15.80),
		Longitude: fptr(-48.05),
		NextVisit: tptr(time.Date(2024, 3, 10, 9, 0, 0, 0, brt)),
	}
}

type harness struct {
	seq       *Sequencer
	store     *Store
	source    *fakeSource
	locator   *fakeLocator
	optimizer *fakeOptimizer
	notes     *Recorder
}

func newHarness(patients ...*domain.Patient) *harness {
	h := &harness{
		store:   NewStore(State{}),
		source:  &fakeSource{patients: patients},
		locator: &fakeLocator{at: origin},
		optimizer: &fakeOptimizer{fn: func(ctx context.Context, o domain.Coordinates, d []domain.EligibleDestination) (*domain.RoutePlan, error) {
			return singleStopPlan(o), nil
		}},
		notes: &Recorder{},
	}
	h.seq = &Sequencer{
		Store:         h.store,
		Patients:      NewPatientCache(h.source),
		Locator:       h.locator,
		Optimizer:     h.optimizer,
		Notifier:      h.notes,
		Location:      brt,
		LocateOptions: location.DefaultOptions(),
		Logger:        logging.Discard(),
	}
	return h
}

func TestOptimizeAppliesPlanForSelectedDay(t *testing.T) {
	h := newHarness(patient7())
	h.seq.SelectDay(day1)

	plan, err := h.seq.Optimize(context.Background())
	require.NoError(t, err)

	st := h.store.State()
	assert.Same(t, plan, st.Plan)
	assert.Equal(t, day1, st.PlanDay)
	assert.False(t, st.Pending)
	require.Len(t, st.PlanStops, 1)
	assert.Equal(t, int64(7), st.PlanStops[0].PatientID)

	notes := h.notes.All()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.LevelSuccess, notes[0].Level)
	assert.False(t, notes[0].Warning)
	assert.Equal(t, int32(1), h.optimizer.calls.Load())
}

func TestOptimizeWithoutDestinationsSkipsLocation(t *testing.T) {
	p := patient7()
	p.Latitude = nil
	h := newHarness(p)
	h.seq.SelectDay(day1)

	_, err := h.seq.Optimize(context.Background())
	assert.ErrorIs(t, err, domain.ErrInsufficientDestinations)
	assert.Zero(t, h.locator.calls.Load())
	assert.Zero(t, h.optimizer.calls.Load())
	assert.Len(t, h.notes.All(), 1)
	assert.Nil(t, h.store.State().Plan)
}

func TestOptimizeLocationFailure(t *testing.T) {
	h := newHarness(patient7())
	h.locator.err = &location.Error{Kind: location.KindPermissionDenied}
	h.seq.SelectDay(day1)

	_, err := h.seq.Optimize(context.Background())
	assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Zero(t, h.optimizer.calls.Load())
	// the locator owns the notification for its own failure
	assert.Empty(t, h.notes.All())
	assert.False(t, h.store.State().Pending)
}

func TestOptimizeRouteServiceErrorNotifiesOnceWithoutRetry(t *testing.T) {
	h := newHarness(patient7())
	h.optimizer.fn = func(ctx context.Context, o domain.Coordinates, d []domain.EligibleDestination) (*domain.RoutePlan, error) {
		return nil, &domain.RouteServiceError{Status: 502, Message: "Serviço de rotas fora do ar"}
	}
	h.seq.SelectDay(day1)

	_, err := h.seq.Optimize(context.Background())
	var rse *domain.RouteServiceError
	require.True(t, errors.As(err, &rse))

	assert.Equal(t, int32(1), h.optimizer.calls.Load())
	notes := h.notes.All()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.LevelError, notes[0].Level)
	assert.Equal(t, "Serviço de rotas fora do ar", notes[0].Body)
	assert.Nil(t, h.store.State().Plan)
	assert.NotEmpty(t, h.store.State().LastError)
}

func TestOptimizeApproximateIsWarningSuccess(t *testing.T) {
	h := newHarness(patient7())
	h.optimizer.fn = func(ctx context.Context, o domain.Coordinates, d []domain.EligibleDestination) (*domain.RoutePlan, error) {
		p := singleStopPlan(o)
		p.Approximate = true
		p.Message = "Rota calculada de forma aproximada"
		return p, nil
	}
	h.seq.SelectDay(day1)

	plan, err := h.seq.Optimize(context.Background())
	require.NoError(t, err)
	assert.True(t, plan.Approximate)

	notes := h.notes.All()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.LevelSuccess, notes[0].Level)
	assert.True(t, notes[0].Warning)
}

func TestOptimizeDiscardsResultAfterDayChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(patient7())
	entered := make(chan struct{})
	release := make(chan struct{})
	h.optimizer.fn = func(ctx context.Context, o domain.Coordinates, d []domain.EligibleDestination) (*domain.RoutePlan, error) {
		close(entered)
		<-release
		return singleStopPlan(o), nil
	}
	h.seq.SelectDay(day1)

	done := h.seq.OptimizeAsync(context.Background())
	<-entered
	h.seq.SelectDay(day2)
	close(release)

	res := <-done
	assert.ErrorIs(t, res.Err, ErrStaleResult)
	assert.Nil(t, res.Plan)

	st := h.store.State()
	assert.Nil(t, st.Plan)
	assert.Equal(t, day2, st.SelectedDay)
	assert.Empty(t, h.notes.All())

	_, open := <-done
	assert.False(t, open)
}

func TestOptimizeDropsFailureAfterDayChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(patient7())
	entered := make(chan struct{})
	release := make(chan struct{})
	h.optimizer.fn = func(ctx context.Context, o domain.Coordinates, d []domain.EligibleDestination) (*domain.RoutePlan, error) {
		close(entered)
		<-release
		return nil, &domain.RouteServiceError{Status: 500, Message: "falha no dia anterior"}
	}
	h.seq.SelectDay(day1)

	done := h.seq.OptimizeAsync(context.Background())
	<-entered
	h.seq.SelectDay(day2)
	close(release)

	res := <-done
	assert.ErrorIs(t, res.Err, ErrStaleResult)
	assert.Nil(t, res.Plan)

	st := h.store.State()
	assert.Equal(t, day2, st.SelectedDay)
	assert.Empty(t, st.LastError)
	assert.Empty(t, h.notes.All())
}

func TestNavigationURLForScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"optimizedOrder":[0],"legs":[{"distanceText":"2 km","durationText":"5 min"}],
			"totalDistanceText":"2 km","totalDurationText":"5 min"}`)
	}))
	defer srv.Close()

	client, err := apiclient.New(srv.URL, nil)
	require.NoError(t, err)

	h := newHarness(patient7())
	h.seq.Optimizer = client
	h.seq.SelectDay(day1)

	dests, err := h.seq.Destinations(context.Background())
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.Equal(t, int64(7), dests[0].PatientID)

	_, err = h.seq.Optimize(context.Background())
	require.NoError(t, err)

	link, err := h.seq.NavigationURL()
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "-15.8,-48.05", u.Query().Get("destination"))
	assert.Equal(t, "-15.81,-48.06", u.Query().Get("origin"))
	assert.False(t, u.Query().Has("waypoints"))
}

func TestNavigationURLWithoutPlan(t *testing.T) {
	h := newHarness()
	_, err := h.seq.NavigationURL()
	assert.Error(t, err)
}

func TestOptimizeWithoutSelectedDay(t *testing.T) {
	h := newHarness(patient7())
	_, err := h.seq.Optimize(context.Background())
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, h.source.calls.Load())
}

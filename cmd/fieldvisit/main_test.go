package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"visit-route-service/internal/adapters/directions"
	"visit-route-service/internal/adapters/repositories"
	"visit-route-service/internal/api"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/services"
	"visit-route-service/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func newTestAPI(t *testing.T) (*httptest.Server, *repositories.MemoryPatientRepository) {
	t.Helper()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	next := time.Date(2024, 3, 10, 9, 0, 0, 0, loc)

	repo := repositories.NewMemoryPatientRepository(domain.Patient{
		ID: 7, Name: "Maria", Address: "Rua A, 10",
		Latitude: fptr(-15.80), Longitude: fptr(-48.05),
		NextVisit: &next,
	})
	planner := &services.RoutePlanner{
		Directions: directions.NewMockProvider([]int{0}, []domain.RouteLeg{
			{DistanceText: "2 km", DurationText: "5 min", DistanceMeters: 2000, DurationSeconds: 300},
		}),
		Logger: logging.Discard(),
	}

	srv := httptest.NewServer(api.NewRouter(api.Config{Repo: repo, Planner: planner, Location: loc, Logger: logging.Discard()}))
	t.Cleanup(srv.Close)
	return srv, repo
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, io.Discard, strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRouteCommandPrintsOrderAndLink(t *testing.T) {
	srv, _ := newTestAPI(t)

	out, err := run(t, "", "route", "--api", srv.URL, "--tz", "America/Sao_Paulo",
		"--lat", "-15.81", "--lon", "-48.06", "--ip-location-url", "", "--day", "2024-03-10")
	require.NoError(t, err, out)

	assert.Contains(t, out, "1. #7 Maria  2 km, 5 min")
	assert.Contains(t, out, "https://www.google.com/maps/dir/?api=1&origin=-15.81%2C-48.06&destination=-15.8%2C-48.05&travelmode=driving")
	assert.Contains(t, out, "Rota otimizada")
}

func TestRouteCommandWithoutLocation(t *testing.T) {
	srv, _ := newTestAPI(t)

	out, err := run(t, "", "route", "--api", srv.URL, "--lat", "", "--lon", "",
		"--ip-location-url", "", "--day", "2024-03-10", "--tz", "America/Sao_Paulo")
	assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
	assert.Contains(t, out, "Localização indisponível")
}

func TestVisitsCommand(t *testing.T) {
	srv, _ := newTestAPI(t)

	out, err := run(t, "", "visits", "--api", srv.URL, "--tz", "America/Sao_Paulo", "--day", "2024-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, "#7 Maria  09:00")

	out, err = run(t, "", "visits", "--api", srv.URL, "--tz", "America/Sao_Paulo", "--day", "2024-03-11")
	require.NoError(t, err)
	assert.Contains(t, out, "nenhum paciente")
}

func TestScheduleAndClearCommands(t *testing.T) {
	srv, repo := newTestAPI(t)
	ctx := context.Background()

	_, err := run(t, "", "reschedule", "--api", srv.URL, "--tz", "America/Sao_Paulo",
		"--patient", "7", "--at", "2024-03-12 14:30")
	require.NoError(t, err)

	p, err := repo.GetPatient(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, p.NextVisit)
	assert.Equal(t, time.Date(2024, 3, 12, 17, 30, 0, 0, time.UTC), p.NextVisit.UTC())

	out, err := run(t, "n\n", "clear", "--api", srv.URL, "--patient", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "[s/N]")
	p, _ = repo.GetPatient(ctx, 7)
	assert.NotNil(t, p.NextVisit, "declined clear must not write")

	_, err = run(t, "s\n", "clear", "--api", srv.URL, "--patient", "7")
	require.NoError(t, err)
	p, _ = repo.GetPatient(ctx, 7)
	assert.Nil(t, p.NextVisit)
}

func TestScheduleCommandValidation(t *testing.T) {
	srv, _ := newTestAPI(t)

	_, err := run(t, "", "schedule", "--api", srv.URL, "--at", "2024-03-12 14:30")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// reschedule without a date does nothing
	_, err = run(t, "", "reschedule", "--api", srv.URL, "--patient", "7")
	assert.NoError(t, err)
}

func TestCalendarCommand(t *testing.T) {
	srv, _ := newTestAPI(t)

	out, err := run(t, "", "calendar", "--api", srv.URL, "--tz", "America/Sao_Paulo")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-10  próximos: 1  últimos: 0")
}

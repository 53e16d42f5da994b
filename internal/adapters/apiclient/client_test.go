package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"visit-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testOrigin = domain.Coordinates{Lat: -15.81, Lon: -48.06}
	testDests  = []domain.EligibleDestination{
		{PatientID: 7, Name: "Maria", Address: "Rua A, 10", Location: domain.Coordinates{Lat: -15.80, Lon: -48.05}},
	}
)

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", nil)
	require.NoError(t, err)
	return c
}

func TestOptimizeRouteSendsContractBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/routes/optimize", r.URL.Path)

		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"origin": {"latitude": -15.81, "longitude": -48.06},
			"destinations": [{"id": 7, "nome": "Maria", "latitude": -15.8, "longitude": -48.05, "endereco": "Rua A, 10"}]
		}`, string(b))

		fmt.Fprint(w, `{"optimizedOrder":[0],"legs":[{"distanceText":"2 km","durationText":"5 min"}],
			"totalDistanceText":"2 km","totalDurationText":"5 min","userLocation":{"latitude":-15.81,"longitude":-48.06}}`)
	})

	plan, err := c.OptimizeRoute(context.Background(), testOrigin, testDests)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, plan.OptimizedOrder)
	assert.Equal(t, "2 km", plan.Legs[0].DistanceText)
	assert.Equal(t, "5 min", plan.TotalDurationText)
	assert.False(t, plan.Approximate)
	assert.Equal(t, testOrigin, plan.Origin)
}

func TestOptimizeRouteFlagsApproximate(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"optimizedOrder":[0],"legs":[{"distanceText":"1,5 km","durationText":"3 min"}],
			"totalDistanceText":"1,5 km","totalDurationText":"3 min",
			"errorMessage":"Rota calculada de forma aproximada"}`)
	})

	plan, err := c.OptimizeRoute(context.Background(), testOrigin, testDests)
	require.NoError(t, err)
	assert.True(t, plan.Approximate)
	assert.Equal(t, "Rota calculada de forma aproximada", plan.Message)
}

func TestOptimizeRouteSurfacesServerErrorVerbatim(t *testing.T) {
	var hits int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":"Chave da API do Google Maps inválida"}`)
	})

	_, err := c.OptimizeRoute(context.Background(), testOrigin, testDests)

	var rse *domain.RouteServiceError
	require.True(t, errors.As(err, &rse))
	assert.Equal(t, http.StatusBadGateway, rse.Status)
	assert.Equal(t, "Chave da API do Google Maps inválida", rse.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestOptimizeRouteRejectsMalformedPlans(t *testing.T) {
	bodies := map[string]string{
		"not json":       `<html>oops</html>`,
		"short order":    `{"optimizedOrder":[],"legs":[{"distanceText":"1 km","durationText":"2 min"}]}`,
		"missing legs":   `{"optimizedOrder":[0],"legs":[]}`,
		"index overflow": `{"optimizedOrder":[3],"legs":[{"distanceText":"1 km","durationText":"2 min"}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, body) })

			_, err := c.OptimizeRoute(context.Background(), testOrigin, testDests)
			var rse *domain.RouteServiceError
			require.True(t, errors.As(err, &rse), "err = %v", err)
			assert.Zero(t, rse.Status)
		})
	}
}

func TestListPatients(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patients", r.URL.Path)
		fmt.Fprint(w, `{"patients":[
			{"id":7,"nome":"Maria","endereco":"Rua A","latitude":-15.8,"longitude":-48.05,
			 "ultimoAtendimento":null,"proximoAtendimento":"2024-03-10T09:00:00-03:00","updatedAt":"2024-03-01T00:00:00Z"},
			{"id":8,"nome":"José","endereco":"","latitude":null,"longitude":null,
			 "ultimoAtendimento":null,"proximoAtendimento":null,"updatedAt":"2024-03-01T00:00:00Z"}]}`)
	})

	patients, err := c.ListPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 2)
	require.NotNil(t, patients[0].NextVisit)
	assert.Equal(t, 12, patients[0].NextVisit.UTC().Hour())
	assert.Nil(t, patients[1].Latitude)
}

func TestSetNextVisitSendsNullWhenClearing(t *testing.T) {
	var got map[string]any
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/patients/7", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"id":7,"nome":"Maria","endereco":"","latitude":null,"longitude":null,
			"ultimoAtendimento":null,"proximoAtendimento":null,"updatedAt":"2024-03-01T00:00:00Z"}`)
	})

	p, err := c.SetNextVisit(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Nil(t, p.NextVisit)

	v, ok := got["proximoAtendimento"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestSetNextVisitSendsTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 12, 10, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"proximoAtendimento":"2024-03-12T10:00:00-03:00"}`, string(b))
		fmt.Fprint(w, `{"id":7,"nome":"Maria","endereco":"","latitude":null,"longitude":null,
			"ultimoAtendimento":null,"proximoAtendimento":"2024-03-12T10:00:00-03:00","updatedAt":"2024-03-01T00:00:00Z"}`)
	})

	p, err := c.SetNextVisit(context.Background(), 7, &at)
	require.NoError(t, err)
	require.NotNil(t, p.NextVisit)
	assert.True(t, p.NextVisit.Equal(at))
}

func TestSetNextVisitNon2xx(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
	})

	_, err := c.SetNextVisit(context.Background(), 7, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code 500")
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("  ", nil)
	assert.Error(t, err)
}

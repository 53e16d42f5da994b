package api

import (
	"net/http"
	"time"
	"visit-route-service/internal/api/handlers"
	"visit-route-service/internal/observability/metrics"
	"visit-route-service/internal/ports"
	"visit-route-service/pkg/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config carries the dependencies of the HTTP surface.
type Config struct {
	Repo           ports.PatientRepository
	Planner        handlers.RoutePlanner
	Metrics        *metrics.RouteMetrics
	MetricsHandler http.Handler
	Location       *time.Location
	Logger         *logging.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Recoverer)

	patients := &handlers.PatientHandler{Repo: cfg.Repo, Metrics: cfg.Metrics, Logger: logger}
	calendar := &handlers.CalendarHandler{Repo: cfg.Repo, Location: cfg.Location, Logger: logger}
	routes := &handlers.RouteHandler{Planner: cfg.Planner, Logger: logger}

	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", patients.List)
		r.Get("/{id}", patients.Get)
		r.Patch("/{id}", patients.UpdateAgenda)
	})
	r.Get("/calendar", calendar.Calendar)
	r.Get("/visits", calendar.Visits)
	r.Post("/routes/optimize", routes.Optimize)

	return r
}

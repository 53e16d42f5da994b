package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"
	"visit-route-service/internal/adapters/cache"
	"visit-route-service/internal/adapters/directions"
	"visit-route-service/internal/adapters/repositories"
	"visit-route-service/internal/api"
	"visit-route-service/internal/config"
	"visit-route-service/internal/observability/metrics"
	"visit-route-service/internal/platform/db"
	"visit-route-service/internal/platform/obs"
	"visit-route-service/internal/ports"
	"visit-route-service/internal/services"
	"visit-route-service/pkg/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Google Directions) behind ports
// and starts the HTTP server.
func main() {
	dotenv := config.LoadDotEnv()
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	obs.SetLogger(logger.Logger)
	if !dotenv {
		logger.Info("no .env file found, using environment variables")
	}

	ctx := context.Background()
	loc := config.Location(cfg.Timezone)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	routeMetrics := metrics.NewRouteMetrics(registry)

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("open patient repository", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	planner := &services.RoutePlanner{
		Metrics:         routeMetrics,
		Logger:          logger,
		AverageSpeedKmh: cfg.AverageSpeedKmh,
	}

	if cfg.GoogleMapsAPIKey != "" {
		provider, err := directions.NewGoogleDirectionsProvider(cfg.GoogleMapsAPIKey, cfg.DirectionsBaseURL)
		if err != nil {
			logger.Error("create directions provider", "error", err)
			os.Exit(1)
		}
		planner.Directions = provider
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, every route will be approximate")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, plan cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			planner.Cache = cache.NewRedisPlanCache(rdb, cfg.RouteCacheTTL)
		}
	}

	router := api.NewRouter(api.Config{
		Repo:           repo,
		Planner:        planner,
		Metrics:        routeMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Location:       loc,
		Logger:         logger,
	})

	// Timeouts cover a cold directions call.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

// openRepository connects to Postgres when DATABASE_URL is set and otherwise
// serves the seed file from memory.
func openRepository(ctx context.Context, cfg *config.Config, logger *logging.Logger) (ports.PatientRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, serving seed data from memory", "seed_path", cfg.SeedPath)
		repo, err := repositories.LoadMemoryPatientRepository(cfg.SeedPath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}

	pool, err := db.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewPgPatientRepository(pool), pool.Close, nil
}

package main

import (
	"database/sql"
	"flag"
	"os"
	"visit-route-service/internal/adapters/repositories"
	"visit-route-service/internal/config"
	"visit-route-service/internal/platform/db"
	"visit-route-service/pkg/logging"
)

func main() {
	skipSeed := flag.Bool("schema-only", false, "initialize the schema without seeding patients")
	flag.Parse()

	if !config.LoadDotEnv() {
		logging.Default().Info("no .env file found, using environment variables")
	}
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	seedPath := cfg.SeedPath
	if *skipSeed {
		seedPath = ""
	}
	if err := initAndSeed(logger, sqlDB, seedPath); err != nil {
		logger.Error("dbtool failed", "error", err)
		os.Exit(1)
	}
}

func initAndSeed(logger *logging.Logger, sqlDB *sql.DB, seedPath string) error {
	logger.Info("initializing database schema")
	if err := repositories.InitSchema(sqlDB); err != nil {
		return err
	}
	logger.Info("schema ready")

	if seedPath == "" {
		return nil
	}

	logger.Info("seeding database", "path", seedPath)
	if err := repositories.SeedFromJSON(sqlDB, seedPath); err != nil {
		return err
	}
	logger.Info("seeding complete")

	return nil
}

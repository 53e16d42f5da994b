package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the Postgres schema used by the service.
// cmd/migrate carries the same DDL as versioned migrations; this helper keeps
// local runs and demos one command away.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPatientsQuery := `
	CREATE TABLE IF NOT EXISTS patients (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		last_visit TIMESTAMPTZ,
		next_visit TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_patients_next_visit
	ON patients(next_visit);
	`

	statements := []string{
		createPatientsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PatientSeed struct {
	ID        int64      `json:"id"`
	Name      string     `json:"nome"`
	Address   string     `json:"endereco"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	LastVisit *time.Time `json:"ultimoAtendimento"`
	NextVisit *time.Time `json:"proximoAtendimento"`
}

// Populate the database with patient data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed patients: read %q: %w", jsonPath, err)
	}

	var data []PatientSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed patients: parse json: %w", err)
	}

	return SeedPatients(db, data)
}

// Upsert validated seed rows in one transaction.
func SeedPatients(db *sql.DB, data []PatientSeed) error {
	if db == nil {
		return errors.New("seed patients: DB is nil")
	}

	rows := make([]PatientSeed, 0, len(data))
	for i, item := range data {
		if item.ID <= 0 {
			return fmt.Errorf("seed patients: invalid id at index %d: %d", i+1, item.ID)
		}

		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return fmt.Errorf("seed patients: item at index %d: name cannot be empty", i+1)
		}
		if (item.Latitude == nil) != (item.Longitude == nil) {
			return fmt.Errorf("seed patients: item at index %d: latitude and longitude must be set together", i+1)
		}
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed patients: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO patients (id, name, address, latitude, longitude, last_visit, next_visit)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		address = EXCLUDED.address,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		last_visit = EXCLUDED.last_visit,
		next_visit = EXCLUDED.next_visit,
		updated_at = now();
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed patients: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.Exec(p.ID, p.Name, p.Address, p.Latitude, p.Longitude, p.LastVisit, p.NextVisit); err != nil {
			return fmt.Errorf("seed patients: insert id=%d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed patients: commit tx: %w", err)
	}

	return nil
}

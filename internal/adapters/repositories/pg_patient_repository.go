package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/platform/obs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repository needs. pgxmock pools
// satisfy it as well.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const patientColumns = `id, name, address, latitude, longitude, last_visit, next_visit, updated_at`

// Postgres-backed implementation of the PatientRepository port.
type PgPatientRepository struct{ DB DBTX }

func NewPgPatientRepository(db DBTX) *PgPatientRepository {
	return &PgPatientRepository{DB: db}
}

// Return all patients stored in the database.
func (r *PgPatientRepository) ListPatients(ctx context.Context) (_ []*domain.Patient, err error) {
	defer obs.Time(ctx, "patients.List")(&err)

	if r.DB == nil {
		return nil, errors.New("pg patient repository: DB is nil")
	}

	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY id`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list patients: query patients table: %w", err)
	}
	defer rows.Close()

	patients := make([]*domain.Patient, 0, 64)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("list patients: scan row: %w", err)
		}
		patients = append(patients, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patients: row iteration: %w", err)
	}

	return patients, nil
}

// Return one patient by id.
func (r *PgPatientRepository) GetPatient(ctx context.Context, id int64) (_ *domain.Patient, err error) {
	defer obs.Time(ctx, "patients.Get")(&err)

	if r.DB == nil {
		return nil, errors.New("pg patient repository: DB is nil")
	}

	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	p, err := scanPatient(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get patient %d: %w", id, domain.ErrPatientNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get patient %d: %w", id, err)
	}

	return p, nil
}

// Replace the next_visit column of one patient and return the updated row.
// Writing the value already stored is a harmless no-op update.
func (r *PgPatientRepository) SetNextVisit(ctx context.Context, id int64, at *time.Time) (_ *domain.Patient, err error) {
	defer obs.Time(ctx, "patients.SetNextVisit")(&err)

	if r.DB == nil {
		return nil, errors.New("pg patient repository: DB is nil")
	}

	query := `
	UPDATE patients
	SET next_visit = $2,
		updated_at = now()
	WHERE id = $1
	RETURNING ` + patientColumns

	p, err := scanPatient(r.DB.QueryRow(ctx, query, id, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("set next visit: patient %d: %w", id, domain.ErrPatientNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set next visit: patient %d: %w", id, err)
	}

	return p, nil
}

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	var (
		p         domain.Patient
		lat, lon  *float64
		last, nxt *time.Time
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Address, &lat, &lon, &last, &nxt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Latitude, p.Longitude = lat, lon
	p.LastVisit, p.NextVisit = last, nxt
	return &p, nil
}

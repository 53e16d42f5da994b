package repositories

import (
	"context"
	"errors"
	"testing"
	"time"
	"visit-route-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var patientCols = []string{"id", "name", "address", "latitude", "longitude", "last_visit", "next_visit", "updated_at"}

func fptr(v float64) *float64 { return &v }

func TestPgPatientRepository_ListPatients(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	next := time.Date(2024, 3, 12, 13, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	rows := mock.NewRows(patientCols).
		AddRow(int64(7), "Maria", "Rua A, 10", fptr(-15.80), fptr(-48.05), nil, &next, updated).
		AddRow(int64(8), "José", "", nil, nil, nil, nil, updated)
	mock.ExpectQuery(`SELECT .* FROM patients ORDER BY id`).WillReturnRows(rows)

	repo := NewPgPatientRepository(mock)
	got, err := repo.ListPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, "Maria", got[0].Name)
	require.NotNil(t, got[0].NextVisit)
	assert.True(t, got[0].NextVisit.Equal(next))
	c, ok := got[0].Coordinates()
	assert.True(t, ok)
	assert.Equal(t, domain.Coordinates{Lat: -15.80, Lon: -48.05}, c)

	assert.Nil(t, got[1].Latitude)
	assert.Nil(t, got[1].NextVisit)
	_, ok = got[1].Coordinates()
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgPatientRepository_ListPatientsQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .* FROM patients`).WillReturnError(errors.New("connection reset"))

	_, err = NewPgPatientRepository(mock).ListPatients(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list patients: query patients table")
}

func TestPgPatientRepository_GetPatientNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .* FROM patients WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPgPatientRepository(mock).GetPatient(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgPatientRepository_SetNextVisit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	at := time.Date(2024, 3, 12, 13, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE patients\s+SET next_visit = \$2`).
		WithArgs(int64(7), pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows(patientCols).
			AddRow(int64(7), "Maria", "Rua A, 10", fptr(-15.80), fptr(-48.05), nil, &at, updated))

	p, err := NewPgPatientRepository(mock).SetNextVisit(context.Background(), 7, &at)
	require.NoError(t, err)
	require.NotNil(t, p.NextVisit)
	assert.True(t, p.NextVisit.Equal(at))
	assert.Equal(t, updated, p.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgPatientRepository_ClearNextVisit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	updated := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`UPDATE patients`).
		WithArgs(int64(7), pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows(patientCols).
			AddRow(int64(7), "Maria", "Rua A, 10", nil, nil, nil, nil, updated))

	p, err := NewPgPatientRepository(mock).SetNextVisit(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Nil(t, p.NextVisit)
}

func TestPgPatientRepository_SetNextVisitUnknownPatient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE patients`).
		WithArgs(int64(42), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPgPatientRepository(mock).SetNextVisit(context.Background(), 42, nil)
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}

func TestPgPatientRepository_NilDB(t *testing.T) {
	repo := &PgPatientRepository{}
	_, err := repo.ListPatients(context.Background())
	assert.Error(t, err)
}

package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"
	"visit-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPatientRepository_SetAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPatientRepository(domain.Patient{ID: 2, Name: "José"}, domain.Patient{ID: 1, Name: "Maria"})

	list, err := repo.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)

	at := time.Date(2024, 3, 12, 13, 0, 0, 0, time.UTC)
	p, err := repo.SetNextVisit(ctx, 1, &at)
	require.NoError(t, err)
	require.NotNil(t, p.NextVisit)
	assert.True(t, p.NextVisit.Equal(at))

	// the stored value must not alias the caller's pointer
	at = at.Add(time.Hour)
	got, err := repo.GetPatient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 13, got.NextVisit.Hour())

	for range 2 {
		p, err = repo.SetNextVisit(ctx, 1, nil)
		require.NoError(t, err)
		assert.Nil(t, p.NextVisit)
	}
}

func TestMemoryPatientRepository_NotFound(t *testing.T) {
	repo := NewMemoryPatientRepository()
	_, err := repo.GetPatient(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
	_, err = repo.SetNextVisit(context.Background(), 5, nil)
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}

func TestLoadMemoryPatientRepository(t *testing.T) {
	repo, err := LoadMemoryPatientRepository(filepath.Join("..", "..", "..", "data", "seeds", "patients.json"))
	require.NoError(t, err)

	list, err := repo.ListPatients(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, list)
	for _, p := range list {
		assert.NotEmpty(t, p.Name)
	}
}

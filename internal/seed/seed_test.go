package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-appointment-scheduling/internal/appointment"
	"github.com/hackgods/clinic-appointment-scheduling/internal/config"
)

func TestGenerate(t *testing.T) {
	dir := Generate(Options{Doctors: 3, Patients: 5, Seed: 42})

	require.Len(t, dir.Doctors, 3)
	require.Len(t, dir.Patients, 5)

	for _, d := range dir.Doctors {
		assert.NotEmpty(t, d.Name)
		require.NotNil(t, d.Specialty)
		assert.Contains(t, specialties, *d.Specialty)

		week := dir.Weeks[d.ID]
		assert.Len(t, week, 10)
		for _, w := range week {
			assert.GreaterOrEqual(t, w.Weekday, 0)
			assert.LessOrEqual(t, w.Weekday, 4)
		}
	}
	for _, p := range dir.Patients {
		require.NotNil(t, p.Email)
		assert.Contains(t, *p.Email, "@")
	}
}

func TestLoadIsRepeatable(t *testing.T) {
	ctx := context.Background()
	repo := appointment.NewMemoryRepository()
	svc := appointment.NewService(repo, nil, config.Config{})

	dir := Generate(Options{Doctors: 2, Patients: 2, Seed: 7})

	require.NoError(t, Load(ctx, repo, svc, dir))
	require.NoError(t, Load(ctx, repo, svc, dir))

	for _, d := range dir.Doctors {
		entries, err := svc.ListSchedule(ctx, d.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 10)
	}

	_, err := repo.GetPatientByID(ctx, dir.Patients[0].ID)
	assert.NoError(t, err)
}

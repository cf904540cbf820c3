package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSourceFindsEmbeddedFiles(t *testing.T) {
	migrations, err := migrationSource().FindMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	first := migrations[0]
	assert.Equal(t, "0001_init.sql", first.Id)
	assert.NotEmpty(t, first.Up)
	assert.NotEmpty(t, first.Down)
}

func TestInitMigrationKeepsBookingBackstops(t *testing.T) {
	raw, err := migrationFiles.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)

	schema := string(raw)
	assert.Contains(t, schema, "appointments_doctor_date_start_key UNIQUE (doctor_id, date, start_time)")
	assert.Contains(t, schema, "appointments_no_overlap EXCLUDE USING gist")
	assert.Contains(t, schema, "weekly_schedules_doctor_weekday_start_key")
}

package appointment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateScheduleEntry(t *testing.T) {
	f := newFixture(t)

	t.Run("duplicate start on the same weekday", func(t *testing.T) {
		_, err := f.svc.CreateScheduleEntry(f.ctx, CreateScheduleRequest{DoctorID: f.doctor, Weekday: 0, StartTime: "09:00", EndTime: "10:00"})
		assert.ErrorIs(t, err, ErrScheduleDuplicate)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("overlapping entries are allowed", func(t *testing.T) {
		f.addSchedule(t, f.doctor, 0, "10:00", "12:00")
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.svc.CreateScheduleEntry(f.ctx, CreateScheduleRequest{DoctorID: f.doctor, Weekday: 7, StartTime: "09:00", EndTime: "10:00"})
		assert.ErrorIs(t, err, ErrInvalidWeekday)

		_, err = f.svc.CreateScheduleEntry(f.ctx, CreateScheduleRequest{DoctorID: f.doctor, Weekday: 2, StartTime: "10:00", EndTime: "09:00"})
		assert.ErrorIs(t, err, ErrInvalidInterval)

		_, err = f.svc.CreateScheduleEntry(f.ctx, CreateScheduleRequest{DoctorID: uuid.New(), Weekday: 2, StartTime: "09:00", EndTime: "10:00"})
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("created disabled", func(t *testing.T) {
		disabled := false
		entry, err := f.svc.CreateScheduleEntry(f.ctx, CreateScheduleRequest{DoctorID: f.doctor, Weekday: 4, StartTime: "15:00", EndTime: "16:00", Enabled: &disabled})
		require.NoError(t, err)
		assert.False(t, entry.Enabled)
	})

	entries, err := f.svc.ListSchedule(f.ctx, f.doctor)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, clock("09:00"), entries[0].StartTime)
	assert.Equal(t, clock("10:00"), entries[1].StartTime)
	assert.Equal(t, 4, entries[2].Weekday)
}

func TestScheduleInUse(t *testing.T) {
	f := newFixture(t)

	entries, err := f.svc.ListSchedule(f.ctx, f.doctor)
	require.NoError(t, err)
	monday := entries[0]

	f.book(t, f.patient, nextMonday, "09:00", "09:30")
	f.book(t, f.patient, "2026-10-26", "10:30", "11:00")
	// Starts after the window, so it does not count.
	f.book(t, f.patient, nextMonday, "11:00", "11:30")

	_, err = f.svc.SetScheduleEnabled(f.ctx, f.doctor, monday.ID, false)
	var inUse *ScheduleInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, 2, inUse.Count)
	assert.ErrorIs(t, err, ErrConflict)

	err = f.svc.DeleteScheduleEntry(f.ctx, f.doctor, monday.ID)
	require.ErrorAs(t, err, &inUse)

	t.Run("past appointments do not block", func(t *testing.T) {
		f.setNow(pinnedNow.AddDate(0, 0, 21))
		defer f.setNow(pinnedNow)

		entry, err := f.svc.SetScheduleEnabled(f.ctx, f.doctor, monday.ID, false)
		require.NoError(t, err)
		assert.False(t, entry.Enabled)

		entry, err = f.svc.SetScheduleEnabled(f.ctx, f.doctor, monday.ID, true)
		require.NoError(t, err)
		assert.True(t, entry.Enabled)
	})

	t.Run("enabling never checks", func(t *testing.T) {
		entry := f.addSchedule(t, f.doctor, 0, "10:00", "12:00")

		_, err := f.svc.SetScheduleEnabled(f.ctx, f.doctor, entry.ID, false)
		require.ErrorAs(t, err, &inUse)
		assert.Equal(t, 2, inUse.Count, "the 10:30 and 11:00 starts")

		updated, err := f.svc.SetScheduleEnabled(f.ctx, f.doctor, entry.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.Enabled)
	})

	t.Run("released once appointments are cancelled", func(t *testing.T) {
		appointments, err := f.svc.ListAppointments(f.ctx, ListRequest{Actor: Actor{ID: f.doctor, Role: RoleDoctor}})
		require.NoError(t, err)
		for _, a := range appointments {
			_, err := f.svc.Cancel(f.ctx, CancelRequest{Actor: Actor{ID: f.doctor, Role: RoleDoctor}, AppointmentID: a.ID})
			require.NoError(t, err)
		}

		require.NoError(t, f.svc.DeleteScheduleEntry(f.ctx, f.doctor, monday.ID))
	})
}

func TestScheduleOwnership(t *testing.T) {
	f := newFixture(t)
	entries, err := f.svc.ListSchedule(f.ctx, f.doctor)
	require.NoError(t, err)

	_, err = f.svc.SetScheduleEnabled(f.ctx, f.other, entries[0].ID, false)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	err = f.svc.DeleteScheduleEntry(f.ctx, f.other, entries[0].ID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	err = f.svc.DeleteScheduleEntry(f.ctx, f.doctor, uuid.New())
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

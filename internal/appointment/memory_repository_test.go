package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTransactionRollback(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")

	appt := Appointment{
		ID:        uuid.New(),
		PatientID: f.patient,
		DoctorID:  f.doctor,
		Date:      date(nextMonday),
		StartTime: clock("09:00"),
		EndTime:   clock("09:30"),
		Status:    StatusScheduled,
	}

	err := f.repo.InDoctorTransaction(f.ctx, f.doctor, []time.Time{appt.Date}, func(ctx context.Context, tx Tx) error {
		_, err := tx.CreateAppointment(ctx, appt)
		require.NoError(t, err)
		_, err = tx.AppendHistory(ctx, History{AppointmentID: appt.ID, NewStatus: StatusScheduled})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = f.repo.GetAppointmentByID(f.ctx, appt.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	history, err := f.repo.ListHistory(f.ctx, appt.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	t.Run("cancelled context discards the write", func(t *testing.T) {
		ctx, cancel := context.WithCancel(f.ctx)
		err := f.repo.InDoctorTransaction(ctx, f.doctor, nil, func(ctx context.Context, tx Tx) error {
			_, err := tx.CreateAppointment(ctx, appt)
			cancel()
			return err
		})
		assert.ErrorIs(t, err, context.Canceled)

		_, err = f.repo.GetAppointmentByID(f.ctx, appt.ID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestMemoryCreateAppointmentBackstop(t *testing.T) {
	f := newFixture(t)
	base := Appointment{
		PatientID: f.patient,
		DoctorID:  f.doctor,
		Date:      date(nextMonday),
		StartTime: clock("09:00"),
		EndTime:   clock("10:00"),
		Status:    StatusScheduled,
	}
	create := func(a Appointment) error {
		a.ID = uuid.New()
		return f.repo.InDoctorTransaction(f.ctx, f.doctor, []time.Time{a.Date}, func(ctx context.Context, tx Tx) error {
			_, err := tx.CreateAppointment(ctx, a)
			return err
		})
	}

	require.NoError(t, create(base))

	overlapping := base
	overlapping.StartTime, overlapping.EndTime = clock("09:30"), clock("10:30")
	assert.ErrorIs(t, create(overlapping), ErrSlotTaken)

	sameStart := base
	sameStart.EndTime = clock("09:30")
	sameStart.Status = StatusCancelled
	assert.ErrorIs(t, create(sameStart), ErrSlotTaken, "the start triple is unique whatever the status")

	otherDoctor := base
	otherDoctor.DoctorID = f.other
	assert.NoError(t, create(otherDoctor))
}

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{ErrInvalidDateFormat, ErrValidation},
		{ErrDuration, ErrValidation},
		{ErrSlotTaken, ErrConflict},
		{ErrSlotBeingBooked, ErrConflict},
		{&ScheduleInUseError{Count: 1}, ErrConflict},
		{&BlackoutConflictError{}, ErrConflict},
		{ErrBlackoutNotFound, ErrNotFound},
		{ErrNotCancellable, ErrState},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, categoryOf(tt.err))
		})
	}
}

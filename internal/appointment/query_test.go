package appointment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAppointments(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, f.patient, nextMonday, "09:00", "09:30")
	second := f.book(t, f.patient, "2026-10-26", "09:00", "09:30")
	third := f.book(t, f.second, nextMonday, "10:00", "10:30")

	_, err := f.svc.Cancel(f.ctx, CancelRequest{Actor: Actor{ID: f.patient, Role: RolePatient}, AppointmentID: first.ID})
	require.NoError(t, err)

	ids := func(appointments []Appointment) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(appointments))
		for _, a := range appointments {
			out = append(out, a.ID)
		}
		return out
	}

	t.Run("patient sees own appointments newest first", func(t *testing.T) {
		got, err := f.svc.ListAppointments(f.ctx, ListRequest{Actor: Actor{ID: f.patient, Role: RolePatient}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second.ID, first.ID}, ids(got))
	})

	t.Run("doctor sees the agenda oldest first", func(t *testing.T) {
		got, err := f.svc.ListAppointments(f.ctx, ListRequest{Actor: Actor{ID: f.doctor, Role: RoleDoctor}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{first.ID, third.ID, second.ID}, ids(got))
	})

	t.Run("filters", func(t *testing.T) {
		doctor := Actor{ID: f.doctor, Role: RoleDoctor}

		got, err := f.svc.ListAppointments(f.ctx, ListRequest{Actor: doctor, Status: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{first.ID}, ids(got))

		got, err = f.svc.ListAppointments(f.ctx, ListRequest{Actor: doctor, DateFrom: "2026-10-20"})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second.ID}, ids(got))

		got, err = f.svc.ListAppointments(f.ctx, ListRequest{Actor: doctor, DateTo: nextMonday, Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{third.ID}, ids(got))

		got, err = f.svc.ListAppointments(f.ctx, ListRequest{Actor: doctor, Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects", func(t *testing.T) {
		_, err := f.svc.ListAppointments(f.ctx, ListRequest{Actor: Actor{ID: f.doctor, Role: RoleDoctor}, Status: "pending"})
		assert.ErrorIs(t, err, ErrInvalidStatus)

		_, err = f.svc.ListAppointments(f.ctx, ListRequest{Actor: Actor{ID: f.doctor, Role: RoleDoctor}, DateFrom: "20-10-2026"})
		assert.ErrorIs(t, err, ErrInvalidDateFormat)

		_, err = f.svc.ListAppointments(f.ctx, ListRequest{Actor: Actor{Role: RoleDoctor}})
		assert.ErrorIs(t, err, ErrMissingIdentity)
	})
}

func TestGetAppointmentOwnership(t *testing.T) {
	f := newFixture(t)
	appt := f.book(t, f.patient, nextMonday, "09:00", "09:30")

	for _, actor := range []Actor{{ID: f.patient, Role: RolePatient}, {ID: f.doctor, Role: RoleDoctor}} {
		got, err := f.svc.GetAppointment(f.ctx, actor, appt.ID)
		require.NoError(t, err)
		assert.Equal(t, appt.ID, got.ID)
	}

	for _, actor := range []Actor{{ID: f.second, Role: RolePatient}, {ID: f.other, Role: RoleDoctor}, {ID: f.doctor, Role: RolePatient}} {
		_, err := f.svc.GetAppointment(f.ctx, actor, appt.ID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)

		_, err = f.svc.AppointmentHistory(f.ctx, actor, appt.ID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	doctor := Actor{ID: f.doctor, Role: RoleDoctor}

	a := f.book(t, f.patient, nextMonday, "09:00", "09:30")
	b := f.book(t, f.patient, nextMonday, "09:30", "10:00")
	f.book(t, f.second, nextMonday, "10:00", "10:30")

	_, err := f.svc.TransitionStatus(f.ctx, TransitionRequest{DoctorID: f.doctor, AppointmentID: a.ID, NewStatus: "confirmed"})
	require.NoError(t, err)
	_, err = f.svc.TransitionStatus(f.ctx, TransitionRequest{DoctorID: f.doctor, AppointmentID: b.ID, NewStatus: "no_show"})
	require.NoError(t, err)

	stats, err := f.svc.Stats(f.ctx, doctor)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 3, Scheduled: 1, Confirmed: 1, NoShow: 1, Upcoming: 2}, stats)

	stats, err = f.svc.Stats(f.ctx, Actor{ID: f.second, Role: RolePatient})
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 1, Scheduled: 1, Upcoming: 1}, stats)

	f.setNow(pinnedNow.AddDate(0, 0, 8))
	stats, err = f.svc.Stats(f.ctx, doctor)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Upcoming, "active appointments in the past are not upcoming")
}

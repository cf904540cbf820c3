package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-appointment-scheduling/internal/config"
	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

// Monday 12 Oct 2026, 08:00 in the clinic timezone.
var pinnedNow = time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC)

const (
	nextMonday  = "2026-10-19"
	nextTuesday = "2026-10-20"
)

type fixture struct {
	ctx     context.Context
	repo    *MemoryRepository
	svc     *Service
	doctor  uuid.UUID
	other   uuid.UUID // a second doctor
	patient uuid.UUID
	second  uuid.UUID // a second patient
}

// newFixture returns a service over an in-memory store with two doctors, two
// patients and a Monday 09:00-11:00 schedule for the first doctor.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:     context.Background(),
		repo:    NewMemoryRepository(),
		doctor:  uuid.New(),
		other:   uuid.New(),
		patient: uuid.New(),
		second:  uuid.New(),
	}
	f.svc = NewService(f.repo, nil, config.Config{})
	f.svc.now = func() time.Time { return pinnedNow }

	require.NoError(t, f.repo.UpsertDoctor(f.ctx, Doctor{ID: f.doctor, Name: "Dr. Ana Ruiz"}))
	require.NoError(t, f.repo.UpsertDoctor(f.ctx, Doctor{ID: f.other, Name: "Dr. Luis Vega"}))
	require.NoError(t, f.repo.UpsertPatient(f.ctx, Patient{ID: f.patient, Name: "Marta Gil"}))
	require.NoError(t, f.repo.UpsertPatient(f.ctx, Patient{ID: f.second, Name: "Pablo Soto"}))

	f.addSchedule(t, f.doctor, 0, "09:00", "11:00")
	return f
}

func (f *fixture) setNow(t time.Time) {
	f.svc.now = func() time.Time { return t }
}

func (f *fixture) addSchedule(t *testing.T, doctorID uuid.UUID, weekday int, start, end string) *WeeklyScheduleEntry {
	t.Helper()
	entry, err := f.svc.CreateScheduleEntry(f.ctx, CreateScheduleRequest{
		DoctorID:  doctorID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return entry
}

func (f *fixture) book(t *testing.T, patientID uuid.UUID, date, start, end string) *Appointment {
	t.Helper()
	appt, err := f.svc.Book(f.ctx, BookRequest{
		PatientID: patientID,
		DoctorID:  f.doctor,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Reason:    "check-up",
	})
	require.NoError(t, err)
	return appt
}

func clock(s string) timeslot.Clock {
	c, err := timeslot.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func date(s string) time.Time {
	d, err := timeslot.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func slotStrings(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.String()+"-"+s.EndTime.String())
	}
	return out
}

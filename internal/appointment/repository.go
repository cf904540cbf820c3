package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

// Repository contains all store interactions needed by the service. Reads
// outside a transaction may be slightly stale; every write goes through Tx.
type Repository interface {
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	// Doctors ordered by name; a nil specialty lists everyone.
	ListDoctors(ctx context.Context, specialty *string) ([]Doctor, error)
	// Distinct non-empty specialties, sorted.
	ListSpecialties(ctx context.Context) ([]string, error)

	// Enabled entries for one weekday, ordered by start_time.
	ListScheduleForWeekday(ctx context.Context, doctorID uuid.UUID, weekday int) ([]WeeklyScheduleEntry, error)
	ListSchedule(ctx context.Context, doctorID uuid.UUID) ([]WeeklyScheduleEntry, error)

	ListBlackoutsOn(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Blackout, error)
	ListBlackoutsFrom(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Blackout, error)

	// Active appointments for one doctor and date, ordered by start_time.
	ActiveAppointmentsFor(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error)
	// Active appointments overlapping the clock window on any date in [dateFrom, dateTo].
	FindActiveInWindow(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo time.Time, start, end timeslot.Clock) ([]Appointment, error)

	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)
	CountByStatus(ctx context.Context, filter AppointmentFilter, today time.Time) (Stats, error)
	ListHistory(ctx context.Context, appointmentID uuid.UUID) ([]History, error)

	// InDoctorTransaction runs fn in a single transaction that holds the
	// doctor's calendar lock for each given date, or the doctor-wide lock when
	// no dates are given. Locks are taken in ascending date order. If fn returns
	// an error nothing it wrote is kept.
	InDoctorTransaction(ctx context.Context, doctorID uuid.UUID, dates []time.Time, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the write side of the store, valid only inside InDoctorTransaction.
type Tx interface {
	ExistsActiveOverlap(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end timeslot.Clock) (bool, error)
	ListBlackoutsOn(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Blackout, error)
	FindActiveInWindow(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo time.Time, start, end timeslot.Clock) ([]Appointment, error)
	ListActiveFrom(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Appointment, error)

	CreateAppointment(ctx context.Context, appt Appointment) (*Appointment, error)
	// GetAppointmentForUpdate locks the row until the transaction ends.
	GetAppointmentForUpdate(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus, notes string, at time.Time) (*Appointment, error)
	AppendHistory(ctx context.Context, h History) (*History, error)

	GetScheduleEntry(ctx context.Context, doctorID, entryID uuid.UUID) (*WeeklyScheduleEntry, error)
	CreateScheduleEntry(ctx context.Context, entry WeeklyScheduleEntry) (*WeeklyScheduleEntry, error)
	SetScheduleEnabled(ctx context.Context, doctorID, entryID uuid.UUID, enabled bool, at time.Time) (*WeeklyScheduleEntry, error)
	DeleteScheduleEntry(ctx context.Context, doctorID, entryID uuid.UUID) error

	CreateBlackouts(ctx context.Context, blackouts []Blackout) ([]Blackout, error)
	DeleteBlackout(ctx context.Context, doctorID, blackoutID uuid.UUID) error
}

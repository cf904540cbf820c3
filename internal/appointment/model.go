package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// ActiveStatuses hold a slot and block other bookings.
var ActiveStatuses = []AppointmentStatus{StatusScheduled, StatusConfirmed}

func (s AppointmentStatus) Active() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func (s AppointmentStatus) Valid() bool {
	return s.Active() || s.Terminal()
}

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// Actor is the authenticated caller as supplied by the auth collaborator.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

type Patient struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Doctor struct {
	ID        uuid.UUID
	Name      string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeeklyScheduleEntry is a recurring availability window. Weekday is 0 for
// Monday through 6 for Sunday.
type WeeklyScheduleEntry struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	Weekday   int
	StartTime timeslot.Clock
	EndTime   timeslot.Clock
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether an appointment starting at c on date falls inside
// this entry's window.
func (e WeeklyScheduleEntry) Covers(date time.Time, c timeslot.Clock) bool {
	return timeslot.Weekday(date) == e.Weekday && e.StartTime <= c && c < e.EndTime
}

type Blackout struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	Date      time.Time
	StartTime timeslot.Clock
	EndTime   timeslot.Clock
	Reason    *string
	CreatedAt time.Time
}

func (b Blackout) Interval() timeslot.Interval {
	return timeslot.Interval{Date: b.Date, Start: b.StartTime, End: b.EndTime}
}

type Appointment struct {
	ID        uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      time.Time
	StartTime timeslot.Clock
	EndTime   timeslot.Clock
	Status    AppointmentStatus
	Reason    string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Appointment) Interval() timeslot.Interval {
	return timeslot.Interval{Date: a.Date, Start: a.StartTime, End: a.EndTime}
}

// OwnedBy reports whether actor is the appointment's patient or doctor.
func (a Appointment) OwnedBy(actor Actor) bool {
	switch actor.Role {
	case RolePatient:
		return a.PatientID == actor.ID
	case RoleDoctor:
		return a.DoctorID == actor.ID
	}
	return false
}

// History is one append-only status transition. PreviousStatus is empty for
// the creation row.
type History struct {
	ID             int64
	AppointmentID  uuid.UUID
	PreviousStatus AppointmentStatus
	NewStatus      AppointmentStatus
	ChangedBy      uuid.UUID
	ChangedByRole  Role
	Reason         *string
	CreatedAt      time.Time
}

// Slot is a free bookable window produced by the slot generator.
type Slot struct {
	StartTime timeslot.Clock
	EndTime   timeslot.Clock
}

type Stats struct {
	Total     int
	Scheduled int
	Confirmed int
	Completed int
	Cancelled int
	NoShow    int
	Upcoming  int
}

// AppointmentFilter narrows ListAppointments. Exactly one of PatientID or
// DoctorID is set by the service.
type AppointmentFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *AppointmentStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

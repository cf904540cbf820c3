package appointment

import (
	"errors"
	"fmt"
)

// Every error the service returns for a rejected request unwraps to one of
// these categories so the transport can map it without knowing each case.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrState      = errors.New("invalid state")
)

type categoryError struct {
	category error
	msg      string
}

func (e *categoryError) Error() string { return e.msg }
func (e *categoryError) Unwrap() error { return e.category }

func newError(category error, msg string) error {
	return &categoryError{category: category, msg: msg}
}

var (
	ErrInvalidDateFormat = newError(ErrValidation, "invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat = newError(ErrValidation, "invalid time format, use HH:MM or HH:MM:SS")
	ErrPastDate          = newError(ErrValidation, "date is in the past")
	ErrInvalidInterval   = newError(ErrValidation, "start_time must be before end_time")
	ErrDuration          = newError(ErrValidation, "appointment must last between 30 and 120 minutes")
	ErrInvalidStatus     = newError(ErrValidation, "invalid status value")
	ErrInvalidWeekday    = newError(ErrValidation, "weekday must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidSlotLength = newError(ErrValidation, "slot length must be between 5 and 240 minutes")
	ErrInvalidRange      = newError(ErrValidation, "invalid blackout range")
	ErrMissingIdentity   = newError(ErrValidation, "actor identity is required")

	ErrSlotTaken         = newError(ErrConflict, "this time slot is no longer available")
	ErrDoctorUnavailable = newError(ErrConflict, "the doctor is unavailable at this time")
	ErrSlotBeingBooked   = newError(ErrConflict, "slot is currently being booked, please retry")
	ErrScheduleDuplicate = newError(ErrConflict, "a schedule entry already starts at this time on this weekday")
	ErrBlackoutOverlap   = newError(ErrConflict, "blackout overlaps an existing blackout")

	ErrDoctorNotFound      = newError(ErrNotFound, "doctor not found")
	ErrPatientNotFound     = newError(ErrNotFound, "patient not found")
	ErrAppointmentNotFound = newError(ErrNotFound, "appointment not found")
	ErrBlackoutNotFound    = newError(ErrNotFound, "blackout not found")
	ErrScheduleNotFound    = newError(ErrNotFound, "schedule entry not found")

	ErrInvalidStatusTransition = newError(ErrState, "invalid status transition")
	ErrNoOpTransition          = newError(ErrState, "appointment already has this status")
	ErrNotCancellable          = newError(ErrState, "appointment can no longer be cancelled")
)

// ScheduleInUseError rejects disabling or deleting a schedule entry that
// still has upcoming active appointments inside its window.
type ScheduleInUseError struct {
	Count int
}

func (e *ScheduleInUseError) Error() string {
	return fmt.Sprintf("schedule entry has %d upcoming appointment(s)", e.Count)
}

func (e *ScheduleInUseError) Unwrap() error { return ErrConflict }

// BlackoutConflictError is the soft warning returned when a blackout would
// cover active appointments and the caller did not force it.
type BlackoutConflictError struct {
	Appointments []Appointment
}

func (e *BlackoutConflictError) Error() string {
	return fmt.Sprintf("blackout overlaps %d active appointment(s), resubmit with force to proceed", len(e.Appointments))
}

func (e *BlackoutConflictError) Unwrap() error { return ErrConflict }

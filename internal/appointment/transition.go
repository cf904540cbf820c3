package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/observability"
)

var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled: {StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether the state machine has an edge from -> to.
// Terminal statuses have no outbound edges.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var ErrCorruptHistory = errors.New("appointment history does not form a valid chain")

// ReplayHistory rebuilds the current status from the full ordered history.
func ReplayHistory(rows []History) (AppointmentStatus, error) {
	if len(rows) == 0 {
		return "", ErrCorruptHistory
	}
	var status AppointmentStatus
	for i, row := range rows {
		if row.PreviousStatus != status {
			return "", fmt.Errorf("%w: row %d starts from %q, expected %q", ErrCorruptHistory, i, row.PreviousStatus, status)
		}
		if i == 0 && row.NewStatus != StatusScheduled {
			return "", fmt.Errorf("%w: first row creates %q", ErrCorruptHistory, row.NewStatus)
		}
		if i > 0 && !CanTransition(status, row.NewStatus) {
			return "", fmt.Errorf("%w: row %d moves %q to %q", ErrCorruptHistory, i, status, row.NewStatus)
		}
		status = row.NewStatus
	}
	return status, nil
}

type CancelRequest struct {
	Actor         Actor
	AppointmentID uuid.UUID
	Reason        string
}

// Cancel releases an active appointment on behalf of its patient or doctor.
func (s *Service) Cancel(ctx context.Context, req CancelRequest) (*Appointment, error) {
	if req.Actor.ID == uuid.Nil || !req.Actor.Role.Valid() {
		return nil, ErrMissingIdentity
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "cancelled by " + string(req.Actor.Role)
	}

	return s.transition(ctx, req.Actor, req.AppointmentID, StatusCancelled, "", reason, func(current Appointment) error {
		if !current.Status.Active() {
			return ErrNotCancellable
		}
		return nil
	})
}

type TransitionRequest struct {
	DoctorID      uuid.UUID
	AppointmentID uuid.UUID
	NewStatus     string
	Notes         string
}

// TransitionStatus moves one of the doctor's appointments along the status
// state machine. Non-empty notes replace the appointment notes.
func (s *Service) TransitionStatus(ctx context.Context, req TransitionRequest) (*Appointment, error) {
	to := AppointmentStatus(strings.TrimSpace(req.NewStatus))
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	if req.DoctorID == uuid.Nil {
		return nil, ErrMissingIdentity
	}

	notes := strings.TrimSpace(req.Notes)
	reason := notes
	if reason == "" {
		reason = "status updated by doctor"
	}

	actor := Actor{ID: req.DoctorID, Role: RoleDoctor}
	return s.transition(ctx, actor, req.AppointmentID, to, notes, reason, func(current Appointment) error {
		if current.Status.Terminal() {
			return ErrInvalidStatusTransition
		}
		// Nothing moves back to scheduled.
		if to == StatusScheduled {
			return ErrInvalidStatus
		}
		if current.Status == to {
			return ErrNoOpTransition
		}
		if !CanTransition(current.Status, to) {
			return ErrInvalidStatusTransition
		}
		return nil
	})
}

// transition updates the status and appends the history row in one
// transaction. check sees the row as locked inside that transaction.
func (s *Service) transition(ctx context.Context, actor Actor, id uuid.UUID, to AppointmentStatus, notes, reason string, check func(current Appointment) error) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.OwnedBy(actor) {
		return nil, ErrAppointmentNotFound
	}

	var updated *Appointment
	var from AppointmentStatus

	err = s.repo.InDoctorTransaction(ctx, appt.DoctorID, []time.Time{appt.Date}, func(ctx context.Context, tx Tx) error {
		current, err := tx.GetAppointmentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := check(*current); err != nil {
			return err
		}

		now := s.now().UTC()
		u, err := tx.UpdateAppointmentStatus(ctx, id, current.Status, to, notes, now)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		if _, err := tx.AppendHistory(ctx, History{
			AppointmentID:  id,
			PreviousStatus: current.Status,
			NewStatus:      to,
			ChangedBy:      actor.ID,
			ChangedByRole:  actor.Role,
			Reason:         strPtr(reason),
			CreatedAt:      now,
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		from = current.Status
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", id.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor_role", string(actor.Role)).
		Msg("appointment status changed")

	return updated, nil
}

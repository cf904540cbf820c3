package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/observability"
	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

const (
	MinAppointmentMinutes = 30
	MaxAppointmentMinutes = 120

	reasonCreatedByPatient = "created by patient"
)

type BookRequest struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      string
	StartTime string
	EndTime   string
	Reason    string
}

// Book reserves [StartTime, EndTime) with the doctor on Date for the patient.
// Validation fails fast in a fixed order; the overlap and blackout checks are
// repeated inside the doctor-day transaction so two patients racing for the
// same window cannot both commit.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if err := s.checkNotPast(date, &start); err != nil {
		return nil, err
	}
	interval := timeslot.Interval{Date: date, Start: start, End: end}
	if start >= end {
		return nil, ErrInvalidInterval
	}
	if d := interval.Duration(); d < MinAppointmentMinutes*time.Minute || d > MaxAppointmentMinutes*time.Minute {
		return nil, ErrDuration
	}

	if err := s.requirePatient(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if err := s.requireDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	var created *Appointment

	err = s.withDayLock(ctx, req.DoctorID, date, func(lockCtx context.Context) error {
		return s.repo.InDoctorTransaction(lockCtx, req.DoctorID, []time.Time{date}, func(ctx context.Context, tx Tx) error {
			taken, err := tx.ExistsActiveOverlap(ctx, req.DoctorID, date, start, end)
			if err != nil {
				return fmt.Errorf("check active overlap: %w", err)
			}
			if taken {
				return ErrSlotTaken
			}

			blackouts, err := tx.ListBlackoutsOn(ctx, req.DoctorID, date)
			if err != nil {
				return fmt.Errorf("check blackouts: %w", err)
			}
			for _, b := range blackouts {
				if timeslot.Overlaps(interval, b.Interval()) {
					return ErrDoctorUnavailable
				}
			}

			now := s.now().UTC()
			appt, err := tx.CreateAppointment(ctx, Appointment{
				ID:        uuid.New(),
				PatientID: req.PatientID,
				DoctorID:  req.DoctorID,
				Date:      date,
				StartTime: start,
				EndTime:   end,
				Status:    StatusScheduled,
				Reason:    strings.TrimSpace(req.Reason),
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}

			if _, err := tx.AppendHistory(ctx, History{
				AppointmentID:  appt.ID,
				PreviousStatus: "",
				NewStatus:      StatusScheduled,
				ChangedBy:      req.PatientID,
				ChangedByRole:  RolePatient,
				Reason:         strPtr(reasonCreatedByPatient),
				CreatedAt:      now,
			}); err != nil {
				return fmt.Errorf("append history: %w", err)
			}

			created = appt
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", created.ID.String()).
		Str("doctor_id", created.DoctorID.String()).
		Str("interval", created.Interval().String()).
		Msg("appointment booked")

	return created, nil
}

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

const maxBlackoutRangeDays = 366

type CreateBlackoutRequest struct {
	DoctorID  uuid.UUID
	DateFrom  string
	DateTo    string // empty for a single day
	StartTime string
	EndTime   string
	Reason    *string
	Force     bool
}

// BlackoutResult carries the created rows and, for forced requests, the
// active appointments that now sit inside a blackout.
type BlackoutResult struct {
	Blackouts []Blackout
	Conflicts []Appointment
}

type BlackoutWindow struct {
	DoctorID  uuid.UUID
	DateFrom  string
	DateTo    string
	StartTime string
	EndTime   string
}

type parsedWindow struct {
	from, to   time.Time
	start, end timeslot.Clock
}

func parseBlackoutWindow(w BlackoutWindow) (parsedWindow, error) {
	from, err := parseDate(w.DateFrom)
	if err != nil {
		return parsedWindow{}, err
	}
	to := from
	if strings.TrimSpace(w.DateTo) != "" {
		if to, err = parseDate(w.DateTo); err != nil {
			return parsedWindow{}, err
		}
	}
	start, end, err := parseWindow(w.StartTime, w.EndTime)
	if err != nil {
		return parsedWindow{}, err
	}
	if from.After(to) || start >= end {
		return parsedWindow{}, ErrInvalidRange
	}
	if len(timeslot.DatesBetween(from, to)) > maxBlackoutRangeDays {
		return parsedWindow{}, fmt.Errorf("%w: at most %d days", ErrInvalidRange, maxBlackoutRangeDays)
	}
	return parsedWindow{from: from, to: to, start: start, end: end}, nil
}

// CreateBlackout blocks the same clock window on every date of the range.
// The batch is all-or-nothing. Active appointments inside the window turn the
// request into a *BlackoutConflictError unless Force is set.
func (s *Service) CreateBlackout(ctx context.Context, req CreateBlackoutRequest) (*BlackoutResult, error) {
	w, err := parseBlackoutWindow(BlackoutWindow{
		DoctorID:  req.DoctorID,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return nil, err
	}
	if err := s.checkNotPast(w.from, nil); err != nil {
		return nil, err
	}
	if err := s.requireDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	var reason *string
	if req.Reason != nil {
		if r := strings.TrimSpace(*req.Reason); r != "" {
			reason = &r
		}
	}

	dates := timeslot.DatesBetween(w.from, w.to)
	result := &BlackoutResult{}

	err = s.repo.InDoctorTransaction(ctx, req.DoctorID, dates, func(ctx context.Context, tx Tx) error {
		now := s.now().UTC()
		rows := make([]Blackout, 0, len(dates))
		for _, d := range dates {
			candidate := timeslot.Interval{Date: d, Start: w.start, End: w.end}
			existing, err := tx.ListBlackoutsOn(ctx, req.DoctorID, d)
			if err != nil {
				return fmt.Errorf("list blackouts: %w", err)
			}
			for _, b := range existing {
				if timeslot.Overlaps(candidate, b.Interval()) {
					return fmt.Errorf("%w on %s", ErrBlackoutOverlap, timeslot.FormatDate(d))
				}
			}
			rows = append(rows, Blackout{
				ID:        uuid.New(),
				DoctorID:  req.DoctorID,
				Date:      d,
				StartTime: w.start,
				EndTime:   w.end,
				Reason:    reason,
				CreatedAt: now,
			})
		}

		conflicts, err := tx.FindActiveInWindow(ctx, req.DoctorID, w.from, w.to, w.start, w.end)
		if err != nil {
			return fmt.Errorf("find conflicting appointments: %w", err)
		}
		if len(conflicts) > 0 && !req.Force {
			return &BlackoutConflictError{Appointments: conflicts}
		}

		created, err := tx.CreateBlackouts(ctx, rows)
		if err != nil {
			return fmt.Errorf("create blackouts: %w", err)
		}
		result.Blackouts = created
		result.Conflicts = conflicts
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	event := logger.Info()
	if len(result.Conflicts) > 0 {
		event = logger.Warn().Int("conflicting_appointments", len(result.Conflicts))
	}
	event.Str("doctor_id", req.DoctorID.String()).
		Int("days", len(result.Blackouts)).
		Msg("blackout created")

	return result, nil
}

// CheckBlackoutConflicts is the read-only pre-check for CreateBlackout.
func (s *Service) CheckBlackoutConflicts(ctx context.Context, w BlackoutWindow) ([]Appointment, error) {
	pw, err := parseBlackoutWindow(w)
	if err != nil {
		return nil, err
	}
	if err := s.requireDoctor(ctx, w.DoctorID); err != nil {
		return nil, err
	}
	conflicts, err := s.repo.FindActiveInWindow(ctx, w.DoctorID, pw.from, pw.to, pw.start, pw.end)
	if err != nil {
		return nil, fmt.Errorf("find conflicting appointments: %w", err)
	}
	return conflicts, nil
}

// ListBlackouts returns the doctor's blackouts from today on.
func (s *Service) ListBlackouts(ctx context.Context, doctorID uuid.UUID) ([]Blackout, error) {
	if err := s.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	blackouts, err := s.repo.ListBlackoutsFrom(ctx, doctorID, s.today())
	if err != nil {
		return nil, fmt.Errorf("list blackouts: %w", err)
	}
	return blackouts, nil
}

// DeleteBlackout removes one of the doctor's blackouts. A blackout owned by
// someone else is reported as not found.
func (s *Service) DeleteBlackout(ctx context.Context, doctorID, blackoutID uuid.UUID) error {
	return s.repo.InDoctorTransaction(ctx, doctorID, nil, func(ctx context.Context, tx Tx) error {
		return tx.DeleteBlackout(ctx, doctorID, blackoutID)
	})
}

package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/observability"
)

type CreateScheduleRequest struct {
	DoctorID  uuid.UUID
	Weekday   int
	StartTime string
	EndTime   string
	Enabled   *bool // nil means enabled
}

func (s *Service) ListSchedule(ctx context.Context, doctorID uuid.UUID) ([]WeeklyScheduleEntry, error) {
	if err := s.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListSchedule(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return entries, nil
}

// CreateScheduleEntry adds a recurring window. Entries of the same doctor may
// overlap; only an identical weekday and start time is rejected.
func (s *Service) CreateScheduleEntry(ctx context.Context, req CreateScheduleRequest) (*WeeklyScheduleEntry, error) {
	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, ErrInvalidWeekday
	}
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, ErrInvalidInterval
	}
	if err := s.requireDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	var created *WeeklyScheduleEntry
	err = s.repo.InDoctorTransaction(ctx, req.DoctorID, nil, func(ctx context.Context, tx Tx) error {
		now := s.now().UTC()
		entry, err := tx.CreateScheduleEntry(ctx, WeeklyScheduleEntry{
			ID:        uuid.New(),
			DoctorID:  req.DoctorID,
			Weekday:   req.Weekday,
			StartTime: start,
			EndTime:   end,
			Enabled:   enabled,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetScheduleEnabled toggles an entry. Disabling is refused while upcoming
// active appointments start inside the entry's window.
func (s *Service) SetScheduleEnabled(ctx context.Context, doctorID, entryID uuid.UUID, enabled bool) (*WeeklyScheduleEntry, error) {
	var updated *WeeklyScheduleEntry
	err := s.repo.InDoctorTransaction(ctx, doctorID, nil, func(ctx context.Context, tx Tx) error {
		entry, err := tx.GetScheduleEntry(ctx, doctorID, entryID)
		if err != nil {
			return err
		}
		if !enabled && entry.Enabled {
			if err := s.ensureScheduleUnused(ctx, tx, *entry); err != nil {
				return err
			}
		}
		u, err := tx.SetScheduleEnabled(ctx, doctorID, entryID, enabled, s.now().UTC())
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteScheduleEntry(ctx context.Context, doctorID, entryID uuid.UUID) error {
	err := s.repo.InDoctorTransaction(ctx, doctorID, nil, func(ctx context.Context, tx Tx) error {
		entry, err := tx.GetScheduleEntry(ctx, doctorID, entryID)
		if err != nil {
			return err
		}
		if err := s.ensureScheduleUnused(ctx, tx, *entry); err != nil {
			return err
		}
		return tx.DeleteScheduleEntry(ctx, doctorID, entryID)
	})
	if err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("doctor_id", doctorID.String()).
		Str("schedule_id", entryID.String()).
		Msg("schedule entry deleted")
	return nil
}

func (s *Service) ensureScheduleUnused(ctx context.Context, tx Tx, entry WeeklyScheduleEntry) error {
	upcoming, err := tx.ListActiveFrom(ctx, entry.DoctorID, s.today())
	if err != nil {
		return fmt.Errorf("list upcoming appointments: %w", err)
	}
	count := 0
	for _, a := range upcoming {
		if entry.Covers(a.Date, a.StartTime) {
			count++
		}
	}
	if count > 0 {
		return &ScheduleInUseError{Count: count}
	}
	return nil
}

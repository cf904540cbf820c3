package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/config"
	redisclient "github.com/hackgods/clinic-appointment-scheduling/internal/redis"
	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	cfg    config.Config
	now    func() time.Time
}

// NewService wires the scheduling core. locker may be nil, in which case the
// store transaction alone serialises bookings for a doctor and day.
func NewService(repo Repository, locker redisclient.Locker, cfg config.Config) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *Service) location() *time.Location {
	return s.cfg.Location()
}

// today is the current calendar date in the clinic timezone.
func (s *Service) today() time.Time {
	return timeslot.DateOf(s.now(), s.location())
}

func (s *Service) clockNow() timeslot.Clock {
	return timeslot.ClockOf(s.now().In(s.location()))
}

// checkNotPast rejects dates before today and, when start is given, a start
// time on today that has already passed.
func (s *Service) checkNotPast(date time.Time, start *timeslot.Clock) error {
	today := s.today()
	if date.Before(today) {
		return ErrPastDate
	}
	if start != nil && date.Equal(today) && *start <= s.clockNow() {
		return ErrPastDate
	}
	return nil
}

func (s *Service) withDayLock(ctx context.Context, doctorID uuid.UUID, date time.Time, fn func(ctx context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}
	err := s.locker.WithDayLock(ctx, doctorID, date, fn)
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrSlotBeingBooked
	}
	return err
}

func (s *Service) requireDoctor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetDoctorByID(ctx, id); err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return err
		}
		return fmt.Errorf("load doctor: %w", err)
	}
	return nil
}

func (s *Service) requirePatient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetPatientByID(ctx, id); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return err
		}
		return fmt.Errorf("load patient: %w", err)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	d, err := timeslot.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return d, nil
}

func parseClock(s string) (timeslot.Clock, error) {
	c, err := timeslot.ParseClock(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return c, nil
}

func parseWindow(start, end string) (timeslot.Clock, timeslot.Clock, error) {
	startClock, err := parseClock(start)
	if err != nil {
		return 0, 0, err
	}
	endClock, err := parseClock(end)
	if err != nil {
		return 0, 0, err
	}
	return startClock, endClock, nil
}

func strPtr(s string) *string {
	return &s
}

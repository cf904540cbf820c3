package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

const (
	DefaultSlotLength = 30
	minSlotLength     = 5
	maxSlotLength     = 240
)

type SlotsRequest struct {
	DoctorID          uuid.UUID
	Date              string
	SlotLengthMinutes int // zero means DefaultSlotLength
}

// GenerateSlots lists the free slots of a doctor on one date: every enabled
// weekly schedule entry for that weekday cut into fixed-length slots, minus
// anything overlapping a blackout or an active appointment. Reads are not
// locked; Book re-validates under the doctor-day lock.
func (s *Service) GenerateSlots(ctx context.Context, req SlotsRequest) ([]Slot, error) {
	length := req.SlotLengthMinutes
	if length == 0 {
		length = DefaultSlotLength
	}
	if length < minSlotLength || length > maxSlotLength {
		return nil, ErrInvalidSlotLength
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotPast(date, nil); err != nil {
		return nil, err
	}
	if err := s.requireDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListScheduleForWeekday(ctx, req.DoctorID, timeslot.Weekday(date))
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	if len(entries) == 0 {
		return []Slot{}, nil
	}

	booked, err := s.repo.ActiveAppointmentsFor(ctx, req.DoctorID, date)
	if err != nil {
		return nil, fmt.Errorf("list active appointments: %w", err)
	}
	blackouts, err := s.repo.ListBlackoutsOn(ctx, req.DoctorID, date)
	if err != nil {
		return nil, fmt.Errorf("list blackouts: %w", err)
	}

	notAfter := timeslot.Clock(-1)
	if date.Equal(s.today()) {
		notAfter = s.clockNow()
	}

	return freeSlots(date, entries, booked, blackouts, length, notAfter), nil
}

// freeSlots walks each entry in order. Trailing partial slots are dropped and
// overlapping entries may yield overlapping slots. Slots starting at or
// before notAfter are skipped.
func freeSlots(date time.Time, entries []WeeklyScheduleEntry, booked []Appointment, blackouts []Blackout, length int, notAfter timeslot.Clock) []Slot {
	busy := make([]timeslot.Interval, 0, len(booked)+len(blackouts))
	for _, a := range booked {
		if a.Status.Active() {
			busy = append(busy, a.Interval())
		}
	}
	for _, b := range blackouts {
		busy = append(busy, b.Interval())
	}

	out := make([]Slot, 0)
	for _, entry := range entries {
		if !entry.Enabled {
			continue
		}
		for start := entry.StartTime; ; start = start.AddMinutes(length) {
			end := start.AddMinutes(length)
			if end > entry.EndTime {
				break
			}
			if start <= notAfter {
				continue
			}
			candidate := timeslot.Interval{Date: date, Start: start, End: end}
			if overlapsAny(candidate, busy) {
				continue
			}
			out = append(out, Slot{StartTime: start, EndTime: end})
		}
	}
	return out
}

func overlapsAny(candidate timeslot.Interval, busy []timeslot.Interval) bool {
	for _, b := range busy {
		if timeslot.Overlaps(candidate, b) {
			return true
		}
	}
	return false
}

// Package timeslot holds the date and clock arithmetic shared by schedules,
// blackouts and appointments. Intervals are half-open: [Start, End).
package timeslot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	secondsPerDay = 24 * 60 * 60
)

var (
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTime = errors.New("invalid time, expected HH:MM or HH:MM:SS")
)

// Clock is a time of day in seconds since midnight.
type Clock int

func NewClock(hour, minute, second int) Clock {
	return Clock(hour*3600 + minute*60 + second)
}

// ParseClock accepts "HH:MM" and "HH:MM:SS".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClock(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// ClockOf returns the wall clock of t in its own location.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

func (c Clock) Hour() int   { return int(c) / 3600 }
func (c Clock) Minute() int { return int(c) % 3600 / 60 }
func (c Clock) Second() int { return int(c) % 60 }

// AddMinutes returns c shifted by n minutes. The result is not wrapped at
// midnight so callers can compare it against an end bound.
func (c Clock) AddMinutes(n int) Clock {
	return c + Clock(n*60)
}

// Valid reports whether c falls inside a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < secondsPerDay
}

func (c Clock) Duration() time.Duration {
	return time.Duration(c) * time.Second
}

// String renders HH:MM, or HH:MM:SS when seconds are set.
func (c Clock) String() string {
	if c.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
	}
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ParseDate parses an ISO date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// DateOf truncates t to its calendar date in loc, returned as midnight UTC so
// dates compare with Equal/Before regardless of where they came from.
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// Weekday numbers days Monday=0 through Sunday=6.
func Weekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// DatesBetween returns every date in [from, to], both inclusive.
func DatesBetween(from, to time.Time) []time.Time {
	if to.Before(from) {
		return nil
	}
	out := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Interval is a half-open window [Start, End) on a calendar date.
type Interval struct {
	Date  time.Time
	Start Clock
	End   Clock
}

func (i Interval) Valid() bool {
	return i.Start.Valid() && i.End > i.Start && i.End <= secondsPerDay
}

// Overlaps is false for intervals on different dates. Touching intervals
// (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	if !a.Date.Equal(b.Date) {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

func ContainsPoint(i Interval, c Clock) bool {
	return i.Start <= c && c < i.End
}

// DurationMinutes truncates to whole minutes; use Duration for bounds checks.
func DurationMinutes(i Interval) int {
	return int(i.End-i.Start) / 60
}

// Duration is the exact length of the interval, seconds included.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.End-i.Start) * time.Second
}

func (i Interval) String() string {
	return fmt.Sprintf("%s %s-%s", FormatDate(i.Date), i.Start, i.End)
}

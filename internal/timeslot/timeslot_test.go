package timeslot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "09:30", want: NewClock(9, 30, 0)},
		{in: "09:30:15", want: NewClock(9, 30, 15)},
		{in: " 23:59 ", want: NewClock(23, 59, 0)},
		{in: "24:00", wantErr: true},
		{in: "9.30", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTime))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "09:00", NewClock(9, 0, 0).String())
	assert.Equal(t, "17:45:30", NewClock(17, 45, 30).String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("19/10/2026")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestWeekdayStartsOnMonday(t *testing.T) {
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, Weekday(monday))
	assert.Equal(t, 6, Weekday(monday.AddDate(0, 0, 6)))
	assert.Equal(t, 0, Weekday(monday.AddDate(0, 0, 7)))
}

func TestDateOfUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	// 03:00 UTC is still the previous evening in Mexico City.
	instant := time.Date(2026, 10, 20, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), DateOf(instant, loc))
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), DateOf(instant, time.UTC))
}

func TestDatesBetween(t *testing.T) {
	from := time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)

	dates := DatesBetween(from, to)
	require.Len(t, dates, 4)
	assert.Equal(t, from, dates[0])
	assert.Equal(t, to, dates[3])

	assert.Empty(t, DatesBetween(to, from))
	assert.Len(t, DatesBetween(from, from), 1)
}

func TestOverlaps(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	at := func(d time.Time, sh, sm, eh, em int) Interval {
		return Interval{Date: d, Start: NewClock(sh, sm, 0), End: NewClock(eh, em, 0)}
	}

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", at(day, 9, 0, 9, 30), at(day, 9, 0, 9, 30), true},
		{"partial", at(day, 9, 0, 10, 0), at(day, 9, 30, 10, 30), true},
		{"contained", at(day, 9, 0, 12, 0), at(day, 10, 0, 10, 30), true},
		{"touching", at(day, 9, 0, 9, 30), at(day, 9, 30, 10, 0), false},
		{"disjoint", at(day, 9, 0, 9, 30), at(day, 11, 0, 11, 30), false},
		{"different dates", at(day, 9, 0, 10, 0), at(day.AddDate(0, 0, 1), 9, 0, 10, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestContainsPointAndDuration(t *testing.T) {
	i := Interval{
		Date:  time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Start: NewClock(9, 0, 0),
		End:   NewClock(10, 30, 0),
	}

	assert.True(t, ContainsPoint(i, NewClock(9, 0, 0)))
	assert.True(t, ContainsPoint(i, NewClock(10, 29, 59)))
	assert.False(t, ContainsPoint(i, NewClock(10, 30, 0)))
	assert.Equal(t, 90, DurationMinutes(i))
	assert.Equal(t, 90*time.Minute, i.Duration())
	assert.True(t, i.Valid())

	i.End = NewClock(10, 30, 59)
	assert.Equal(t, 90, DurationMinutes(i))
	assert.Equal(t, 90*time.Minute+59*time.Second, i.Duration())

	i.End = i.Start
	assert.False(t, i.Valid())
}

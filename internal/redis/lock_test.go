package redisclient

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-appointment-scheduling/internal/observability"
)

func TestDayLockKey(t *testing.T) {
	doctorID := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "lock:doctor-day:7c9e6679-7425-40de-944b-e07fc1f90ae7:2026-10-19", DayLockKey(doctorID, date))
	assert.NotEqual(t, DayLockKey(doctorID, date), DayLockKey(doctorID, date.AddDate(0, 0, 1)))
	assert.NotEqual(t, DayLockKey(doctorID, date), DayLockKey(uuid.New(), date))
}

func TestCommandTimeout(t *testing.T) {
	assert.Equal(t, 2*time.Second, commandTimeout(0))
	assert.Equal(t, 2*time.Second, commandTimeout(30*time.Second))
	assert.Equal(t, 1250*time.Millisecond, commandTimeout(5*time.Second))
	assert.Equal(t, 100*time.Millisecond, commandTimeout(200*time.Millisecond))
}

func TestUnlockFailureIsLogged(t *testing.T) {
	// Nothing listens on port 1, so every command fails fast.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	var buf bytes.Buffer
	ctx := observability.WithLogger(context.Background(), zerolog.New(&buf))

	locker := &redisDayLocker{client: client, ttl: time.Second}
	key := DayLockKey(uuid.New(), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	locker.unlock(cancelled, key, uuid.NewString())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "release day lock", entry["message"])
	assert.Equal(t, key, entry["key"])
	assert.Contains(t, entry["error"], "release day lock")
}

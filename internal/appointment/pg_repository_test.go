package appointment

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-appointment-scheduling/internal/config"
	"github.com/hackgods/clinic-appointment-scheduling/internal/db"
)

// newPgFixture runs against the database in POSTGRES_DSN. Every call gets
// fresh doctor and patient ids so repeated runs do not collide.
func newPgFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := db.ConnectPostgres(ctx, dsn, "clinic-test")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = db.Migrate(pool)
	require.NoError(t, err)

	repo := NewPgRepository(pool)
	f := &fixture{
		ctx:     ctx,
		doctor:  uuid.New(),
		other:   uuid.New(),
		patient: uuid.New(),
		second:  uuid.New(),
	}
	f.svc = NewService(repo, nil, config.Config{})
	f.svc.now = func() time.Time { return pinnedNow }

	require.NoError(t, repo.UpsertDoctor(ctx, Doctor{ID: f.doctor, Name: "Dr. Ana Ruiz"}))
	require.NoError(t, repo.UpsertDoctor(ctx, Doctor{ID: f.other, Name: "Dr. Luis Vega"}))
	require.NoError(t, repo.UpsertPatient(ctx, Patient{ID: f.patient, Name: "Marta Gil"}))
	require.NoError(t, repo.UpsertPatient(ctx, Patient{ID: f.second, Name: "Pablo Soto"}))

	f.addSchedule(t, f.doctor, 0, "09:00", "11:00")
	return f
}

func TestPgConcurrentBookingsOneWins(t *testing.T) {
	f := newPgFixture(t)

	const callers = 25
	patients := make([]uuid.UUID, callers)
	for i := range patients {
		patients[i] = uuid.New()
		require.NoError(t, f.svc.repo.(*PgRepository).UpsertPatient(f.ctx, Patient{ID: patients[i], Name: "Patient"}))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		won  int
		errs []error
	)
	for _, patientID := range patients {
		wg.Add(1)
		go func(patientID uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.Book(f.ctx, BookRequest{
				PatientID: patientID,
				DoctorID:  f.doctor,
				Date:      nextMonday,
				StartTime: "09:30",
				EndTime:   "10:00",
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				won++
				return
			}
			errs = append(errs, err)
		}(patientID)
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrSlotTaken)
	}

	active, err := f.svc.repo.ActiveAppointmentsFor(f.ctx, f.doctor, date(nextMonday))
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestPgConstraintBackstops(t *testing.T) {
	f := newPgFixture(t)
	repo := f.svc.repo

	insert := func(start, end string) error {
		appt := Appointment{
			ID:        uuid.New(),
			PatientID: f.patient,
			DoctorID:  f.doctor,
			Date:      date(nextMonday),
			StartTime: clock(start),
			EndTime:   clock(end),
			Status:    StatusScheduled,
			CreatedAt: pinnedNow,
			UpdatedAt: pinnedNow,
		}
		// Straight through the transaction so only the schema can refuse it.
		return repo.InDoctorTransaction(f.ctx, f.doctor, []time.Time{appt.Date}, func(ctx context.Context, tx Tx) error {
			_, err := tx.CreateAppointment(ctx, appt)
			return err
		})
	}

	require.NoError(t, insert("09:00", "10:00"))
	assert.ErrorIs(t, insert("09:00", "09:30"), ErrSlotTaken, "same start")
	assert.ErrorIs(t, insert("09:30", "10:30"), ErrSlotTaken, "overlap")
	assert.NoError(t, insert("10:00", "10:30"), "touching windows do not overlap")

	entry := WeeklyScheduleEntry{
		ID:        uuid.New(),
		DoctorID:  f.doctor,
		Weekday:   0,
		StartTime: clock("09:00"),
		EndTime:   clock("10:00"),
		Enabled:   true,
		CreatedAt: pinnedNow,
		UpdatedAt: pinnedNow,
	}
	err := repo.InDoctorTransaction(f.ctx, f.doctor, nil, func(ctx context.Context, tx Tx) error {
		_, err := tx.CreateScheduleEntry(ctx, entry)
		return err
	})
	assert.ErrorIs(t, err, ErrScheduleDuplicate)
}

func TestPgScheduleLockWaitsForBookings(t *testing.T) {
	f := newPgFixture(t)
	repo := f.svc.repo

	entered := make(chan struct{})
	release := make(chan struct{})
	bookingDone := make(chan error, 1)

	// Hold a day lock, which shares the doctor-wide lock.
	go func() {
		bookingDone <- repo.InDoctorTransaction(f.ctx, f.doctor, []time.Time{date(nextMonday)}, func(ctx context.Context, tx Tx) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(f.ctx, 300*time.Millisecond)
	defer cancel()
	err := repo.InDoctorTransaction(ctx, f.doctor, nil, func(ctx context.Context, tx Tx) error {
		return nil
	})
	require.Error(t, err, "a schedule writer waits for open day locks")
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)

	// Another doctor's schedule is not blocked.
	assert.NoError(t, repo.InDoctorTransaction(f.ctx, f.other, nil, func(ctx context.Context, tx Tx) error {
		return nil
	}))

	close(release)
	require.NoError(t, <-bookingDone)
	assert.NoError(t, repo.InDoctorTransaction(f.ctx, f.doctor, nil, func(ctx context.Context, tx Tx) error {
		return nil
	}))
}

package appointment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

// Constraint names from internal/db/migrations/0001_init.sql.
const (
	constraintAppointmentStart   = "appointments_doctor_date_start_key"
	constraintAppointmentOverlap = "appointments_no_overlap"
	constraintScheduleStart      = "weekly_schedules_doctor_weekday_start_key"

	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

const appointmentColumns = `id, patient_id, doctor_id, date, start_time, end_time, status, reason, notes, created_at, updated_at`

var pgDialect = goqu.Dialect("postgres")

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// querier is satisfied by both the pool and an open pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Helpers

func pgClock(c timeslot.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c) * 1_000_000, Valid: true}
}

func clockFrom(t pgtype.Time) timeslot.Clock {
	return timeslot.Clock(t.Microseconds / 1_000_000)
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanScheduleEntry(row pgx.Row) (*WeeklyScheduleEntry, error) {
	var e WeeklyScheduleEntry
	var start, end pgtype.Time
	err := row.Scan(&e.ID, &e.DoctorID, &e.Weekday, &start, &end, &e.Enabled, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	e.StartTime = clockFrom(start)
	e.EndTime = clockFrom(end)
	return &e, nil
}

func scanBlackout(row pgx.Row) (*Blackout, error) {
	var b Blackout
	var start, end pgtype.Time
	err := row.Scan(&b.ID, &b.DoctorID, &b.Date, &start, &end, &b.Reason, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlackoutNotFound
		}
		return nil, err
	}
	b.StartTime = clockFrom(start)
	b.EndTime = clockFrom(end)
	return &b, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var start, end pgtype.Time
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.Date,
		&start,
		&end,
		&a.Status,
		&a.Reason,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	a.StartTime = clockFrom(start)
	a.EndTime = clockFrom(end)
	return &a, nil
}

func scanHistory(row pgx.Row) (*History, error) {
	var h History
	err := row.Scan(
		&h.ID,
		&h.AppointmentID,
		&h.PreviousStatus,
		&h.NewStatus,
		&h.ChangedBy,
		&h.ChangedByRole,
		&h.Reason,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// mapConstraintError turns the schema backstops into domain errors.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgExclusionViolation && pgErr.ConstraintName == constraintAppointmentOverlap:
		return ErrSlotTaken
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintAppointmentStart:
		return ErrSlotTaken
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintScheduleStart:
		return ErrScheduleDuplicate
	}
	return err
}

// Directory

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

// ListDoctors returns the directory ordered by name, optionally narrowed to
// one specialty.
func (r *PgRepository) ListDoctors(ctx context.Context, specialty *string) ([]Doctor, error) {
	ds := pgDialect.From("doctors").Prepared(true).
		Select("id", "name", "specialty", "created_at", "updated_at").
		Order(goqu.C("name").Asc(), goqu.C("id").Asc())
	if specialty != nil {
		ds = ds.Where(goqu.C("specialty").Eq(*specialty))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build doctors query: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanDoctor)
}

func (r *PgRepository) ListSpecialties(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT specialty
		FROM doctors
		WHERE specialty IS NOT NULL AND specialty <> ''
		ORDER BY specialty
	`)
	if err != nil {
		return nil, err
	}
	specialties, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	return specialties, nil
}

// UpsertPatient is used by the seeder; the scheduling core never writes patients.
func (r *PgRepository) UpsertPatient(ctx context.Context, p Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (id, name, email, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, updated_at = now()
	`, p.ID, p.Name, p.Email)
	if err != nil {
		return fmt.Errorf("upsert patient: %w", err)
	}
	return nil
}

func (r *PgRepository) UpsertDoctor(ctx context.Context, d Doctor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (id, name, specialty, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, specialty = EXCLUDED.specialty, updated_at = now()
	`, d.ID, d.Name, d.Specialty)
	if err != nil {
		return fmt.Errorf("upsert doctor: %w", err)
	}
	return nil
}

// Availability

func (r *PgRepository) ListScheduleForWeekday(ctx context.Context, doctorID uuid.UUID, weekday int) ([]WeeklyScheduleEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, weekday, start_time, end_time, enabled, created_at, updated_at
		FROM weekly_schedules
		WHERE doctor_id = $1 AND weekday = $2 AND enabled
		ORDER BY start_time
	`, doctorID, weekday)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanScheduleEntry)
}

func (r *PgRepository) ListSchedule(ctx context.Context, doctorID uuid.UUID) ([]WeeklyScheduleEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, weekday, start_time, end_time, enabled, created_at, updated_at
		FROM weekly_schedules
		WHERE doctor_id = $1
		ORDER BY weekday, start_time
	`, doctorID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanScheduleEntry)
}

func (r *PgRepository) ListBlackoutsOn(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Blackout, error) {
	return listBlackoutsOn(ctx, r.pool, doctorID, date)
}

func (r *PgRepository) ListBlackoutsFrom(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Blackout, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, date, start_time, end_time, reason, created_at
		FROM blackouts
		WHERE doctor_id = $1 AND date >= $2
		ORDER BY date, start_time
	`, doctorID, from)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBlackout)
}

func (r *PgRepository) ActiveAppointmentsFor(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND status IN ('scheduled', 'confirmed')
		ORDER BY start_time
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAppointment)
}

func (r *PgRepository) FindActiveInWindow(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo time.Time, start, end timeslot.Clock) ([]Appointment, error) {
	return findActiveInWindow(ctx, r.pool, doctorID, dateFrom, dateTo, start, end)
}

// Appointments

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func filterDataset(filter AppointmentFilter) *goqu.SelectDataset {
	ds := pgDialect.From("appointments").Prepared(true)
	if filter.PatientID != nil {
		ds = ds.Where(goqu.C("patient_id").Eq(filter.PatientID.String()))
	}
	if filter.DoctorID != nil {
		ds = ds.Where(goqu.C("doctor_id").Eq(filter.DoctorID.String()))
	}
	if filter.Status != nil {
		ds = ds.Where(goqu.C("status").Eq(string(*filter.Status)))
	}
	if filter.DateFrom != nil {
		ds = ds.Where(goqu.C("date").Gte(timeslot.FormatDate(*filter.DateFrom)))
	}
	if filter.DateTo != nil {
		ds = ds.Where(goqu.C("date").Lte(timeslot.FormatDate(*filter.DateTo)))
	}
	return ds
}

// ListAppointments orders a patient's list newest first and a doctor's agenda
// oldest first.
func (r *PgRepository) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error) {
	ds := filterDataset(filter).Select(
		"id", "patient_id", "doctor_id", "date", "start_time", "end_time",
		"status", "reason", "notes", "created_at", "updated_at",
	)
	if filter.PatientID != nil {
		ds = ds.Order(goqu.C("date").Desc(), goqu.C("start_time").Desc())
	} else {
		ds = ds.Order(goqu.C("date").Asc(), goqu.C("start_time").Asc())
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAppointment)
}

func (r *PgRepository) CountByStatus(ctx context.Context, filter AppointmentFilter, today time.Time) (Stats, error) {
	countStatus := func(s AppointmentStatus) any {
		return goqu.L("COUNT(*) FILTER (WHERE status = ?)", string(s))
	}
	ds := filterDataset(filter).Select(
		goqu.COUNT(goqu.Star()),
		countStatus(StatusScheduled),
		countStatus(StatusConfirmed),
		countStatus(StatusCompleted),
		countStatus(StatusCancelled),
		countStatus(StatusNoShow),
		goqu.L("COUNT(*) FILTER (WHERE status IN ('scheduled', 'confirmed') AND date >= ?)", timeslot.FormatDate(today)),
	)

	query, args, err := ds.ToSQL()
	if err != nil {
		return Stats{}, fmt.Errorf("build stats query: %w", err)
	}

	var st Stats
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&st.Total,
		&st.Scheduled,
		&st.Confirmed,
		&st.Completed,
		&st.Cancelled,
		&st.NoShow,
		&st.Upcoming,
	)
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (r *PgRepository) ListHistory(ctx context.Context, appointmentID uuid.UUID) ([]History, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, appointment_id, previous_status, new_status, changed_by, changed_by_role, reason, created_at
		FROM appointment_history
		WHERE appointment_id = $1
		ORDER BY created_at, id
	`, appointmentID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanHistory)
}

// InDoctorTransaction serialises writers per doctor and day with
// transaction-scoped advisory locks. Day lockers share the doctor-wide lock,
// schedule writers take it exclusively.
func (r *PgRepository) InDoctorTransaction(ctx context.Context, doctorID uuid.UUID, dates []time.Time, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	doctorKey := "doctor:" + doctorID.String()
	if len(dates) == 0 {
		if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, doctorKey); err != nil {
			return fmt.Errorf("acquire doctor lock: %w", err)
		}
	} else {
		if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock_shared(hashtext($1))`, doctorKey); err != nil {
			return fmt.Errorf("acquire doctor lock: %w", err)
		}
		sorted := append([]time.Time(nil), dates...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
		for _, d := range sorted {
			key := doctorKey + ":" + timeslot.FormatDate(d)
			if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
				return fmt.Errorf("acquire day lock: %w", err)
			}
		}
	}

	if err = fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		err = mapConstraintError(err)
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func listBlackoutsOn(ctx context.Context, q querier, doctorID uuid.UUID, date time.Time) ([]Blackout, error) {
	rows, err := q.Query(ctx, `
		SELECT id, doctor_id, date, start_time, end_time, reason, created_at
		FROM blackouts
		WHERE doctor_id = $1 AND date = $2
		ORDER BY start_time
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBlackout)
}

func findActiveInWindow(ctx context.Context, q querier, doctorID uuid.UUID, dateFrom, dateTo time.Time, start, end timeslot.Clock) ([]Appointment, error) {
	rows, err := q.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND date BETWEEN $2 AND $3
		  AND status IN ('scheduled', 'confirmed')
		  AND start_time < $5
		  AND end_time > $4
		ORDER BY date, start_time
	`, doctorID, dateFrom, dateTo, pgClock(start), pgClock(end))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAppointment)
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) ExistsActiveOverlap(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end timeslot.Clock) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND date = $2
			  AND status IN ('scheduled', 'confirmed')
			  AND start_time < $4
			  AND end_time > $3
		)
	`, doctorID, date, pgClock(start), pgClock(end)).Scan(&exists)
	return exists, err
}

func (t *pgTx) ListBlackoutsOn(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Blackout, error) {
	return listBlackoutsOn(ctx, t.tx, doctorID, date)
}

func (t *pgTx) FindActiveInWindow(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo time.Time, start, end timeslot.Clock) ([]Appointment, error) {
	return findActiveInWindow(ctx, t.tx, doctorID, dateFrom, dateTo, start, end)
}

func (t *pgTx) ListActiveFrom(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Appointment, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND date >= $2 AND status IN ('scheduled', 'confirmed')
		ORDER BY date, start_time
	`, doctorID, from)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAppointment)
}

func (t *pgTx) CreateAppointment(ctx context.Context, appt Appointment) (*Appointment, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, date, start_time, end_time, status, reason, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+appointmentColumns,
		appt.ID, appt.PatientID, appt.DoctorID, appt.Date, pgClock(appt.StartTime), pgClock(appt.EndTime),
		string(appt.Status), appt.Reason, appt.Notes, appt.CreatedAt, appt.UpdatedAt,
	)
	created, err := scanAppointment(row)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return created, nil
}

func (t *pgTx) GetAppointmentForUpdate(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanAppointment(row)
}

func (t *pgTx) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus, notes string, at time.Time) (*Appointment, error) {
	row := t.tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    notes = CASE WHEN $4::text = '' THEN notes ELSE $4::text END,
		    updated_at = $5
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns,
		id, string(to), string(from), notes, at,
	)
	return scanAppointment(row)
}

func (t *pgTx) AppendHistory(ctx context.Context, h History) (*History, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO appointment_history (appointment_id, previous_status, new_status, changed_by, changed_by_role, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, appointment_id, previous_status, new_status, changed_by, changed_by_role, reason, created_at
	`, h.AppointmentID, string(h.PreviousStatus), string(h.NewStatus), h.ChangedBy, string(h.ChangedByRole), h.Reason, h.CreatedAt)
	return scanHistory(row)
}

func (t *pgTx) GetScheduleEntry(ctx context.Context, doctorID, entryID uuid.UUID) (*WeeklyScheduleEntry, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT id, doctor_id, weekday, start_time, end_time, enabled, created_at, updated_at
		FROM weekly_schedules
		WHERE id = $1 AND doctor_id = $2
		FOR UPDATE
	`, entryID, doctorID)
	return scanScheduleEntry(row)
}

func (t *pgTx) CreateScheduleEntry(ctx context.Context, entry WeeklyScheduleEntry) (*WeeklyScheduleEntry, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO weekly_schedules (id, doctor_id, weekday, start_time, end_time, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, doctor_id, weekday, start_time, end_time, enabled, created_at, updated_at
	`, entry.ID, entry.DoctorID, entry.Weekday, pgClock(entry.StartTime), pgClock(entry.EndTime), entry.Enabled, entry.CreatedAt, entry.UpdatedAt)
	created, err := scanScheduleEntry(row)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return created, nil
}

func (t *pgTx) SetScheduleEnabled(ctx context.Context, doctorID, entryID uuid.UUID, enabled bool, at time.Time) (*WeeklyScheduleEntry, error) {
	row := t.tx.QueryRow(ctx, `
		UPDATE weekly_schedules
		SET enabled = $3, updated_at = $4
		WHERE id = $1 AND doctor_id = $2
		RETURNING id, doctor_id, weekday, start_time, end_time, enabled, created_at, updated_at
	`, entryID, doctorID, enabled, at)
	return scanScheduleEntry(row)
}

func (t *pgTx) DeleteScheduleEntry(ctx context.Context, doctorID, entryID uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM weekly_schedules WHERE id = $1 AND doctor_id = $2`, entryID, doctorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (t *pgTx) CreateBlackouts(ctx context.Context, blackouts []Blackout) ([]Blackout, error) {
	batch := &pgx.Batch{}
	for _, b := range blackouts {
		batch.Queue(`
			INSERT INTO blackouts (id, doctor_id, date, start_time, end_time, reason, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, b.ID, b.DoctorID, b.Date, pgClock(b.StartTime), pgClock(b.EndTime), b.Reason, b.CreatedAt)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("insert blackouts: %w", err)
	}
	return append([]Blackout(nil), blackouts...), nil
}

func (t *pgTx) DeleteBlackout(ctx context.Context, doctorID, blackoutID uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM blackouts WHERE id = $1 AND doctor_id = $2`, blackoutID, doctorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlackoutNotFound
	}
	return nil
}

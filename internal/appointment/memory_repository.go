package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

// MemoryRepository is a process-local store for development and tests. A
// transaction holds the store's write lock for its whole duration, so it is
// trivially serialisable, and is rolled back from a snapshot on error.
type MemoryRepository struct {
	mu sync.RWMutex

	patients     map[uuid.UUID]Patient
	doctors      map[uuid.UUID]Doctor
	schedule     map[uuid.UUID]WeeklyScheduleEntry
	blackouts    map[uuid.UUID]Blackout
	appointments map[uuid.UUID]Appointment
	history      []History
	historySeq   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		patients:     make(map[uuid.UUID]Patient),
		doctors:      make(map[uuid.UUID]Doctor),
		schedule:     make(map[uuid.UUID]WeeklyScheduleEntry),
		blackouts:    make(map[uuid.UUID]Blackout),
		appointments: make(map[uuid.UUID]Appointment),
	}
}

func (r *MemoryRepository) UpsertPatient(ctx context.Context, p Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[p.ID] = p
	return nil
}

func (r *MemoryRepository) UpsertDoctor(ctx context.Context, d Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctors[d.ID] = d
	return nil
}

func (r *MemoryRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) ListDoctors(ctx context.Context, specialty *string) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		if specialty != nil && (d.Specialty == nil || *d.Specialty != *specialty) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *MemoryRepository) ListSpecialties(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, d := range r.doctors {
		if d.Specialty == nil || *d.Specialty == "" {
			continue
		}
		if _, ok := seen[*d.Specialty]; ok {
			continue
		}
		seen[*d.Specialty] = struct{}{}
		out = append(out, *d.Specialty)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryRepository) ListScheduleForWeekday(ctx context.Context, doctorID uuid.UUID, weekday int) ([]WeeklyScheduleEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []WeeklyScheduleEntry
	for _, e := range r.schedule {
		if e.DoctorID == doctorID && e.Weekday == weekday && e.Enabled {
			out = append(out, e)
		}
	}
	sortSchedule(out)
	return out, nil
}

func (r *MemoryRepository) ListSchedule(ctx context.Context, doctorID uuid.UUID) ([]WeeklyScheduleEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []WeeklyScheduleEntry
	for _, e := range r.schedule {
		if e.DoctorID == doctorID {
			out = append(out, e)
		}
	}
	sortSchedule(out)
	return out, nil
}

func (r *MemoryRepository) ListBlackoutsOn(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Blackout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.blackoutsOn(doctorID, date), nil
}

func (r *MemoryRepository) ListBlackoutsFrom(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Blackout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Blackout
	for _, b := range r.blackouts {
		if b.DoctorID == doctorID && !b.Date.Before(from) {
			out = append(out, b)
		}
	}
	sortBlackouts(out)
	return out, nil
}

func (r *MemoryRepository) ActiveAppointmentsFor(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeOn(doctorID, date), nil
}

func (r *MemoryRepository) FindActiveInWindow(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo time.Time, start, end timeslot.Clock) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeInWindow(doctorID, dateFrom, dateTo, start, end), nil
}

func (r *MemoryRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.filtered(filter)

	newestFirst := filter.PatientID != nil
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return appointmentBefore(out[j], out[i])
		}
		return appointmentBefore(out[i], out[j])
	})

	if filter.Offset >= len(out) {
		return []Appointment{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) CountByStatus(ctx context.Context, filter AppointmentFilter, today time.Time) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var st Stats
	for _, a := range r.filtered(filter) {
		st.Total++
		switch a.Status {
		case StatusScheduled:
			st.Scheduled++
		case StatusConfirmed:
			st.Confirmed++
		case StatusCompleted:
			st.Completed++
		case StatusCancelled:
			st.Cancelled++
		case StatusNoShow:
			st.NoShow++
		}
		if a.Status.Active() && !a.Date.Before(today) {
			st.Upcoming++
		}
	}
	return st, nil
}

func (r *MemoryRepository) ListHistory(ctx context.Context, appointmentID uuid.UUID) ([]History, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []History
	for _, h := range r.history {
		if h.AppointmentID == appointmentID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *MemoryRepository) InDoctorTransaction(ctx context.Context, doctorID uuid.UUID, dates []time.Time, fn func(ctx context.Context, tx Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := r.snapshot()
	if err := fn(ctx, memoryTx{r: r}); err != nil {
		r.restore(snap)
		return err
	}
	// A caller that gave up before commit must not observe a partial write.
	if err := ctx.Err(); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

type memorySnapshot struct {
	schedule     map[uuid.UUID]WeeklyScheduleEntry
	blackouts    map[uuid.UUID]Blackout
	appointments map[uuid.UUID]Appointment
	history      []History
	historySeq   int64
}

func (r *MemoryRepository) snapshot() memorySnapshot {
	snap := memorySnapshot{
		schedule:     make(map[uuid.UUID]WeeklyScheduleEntry, len(r.schedule)),
		blackouts:    make(map[uuid.UUID]Blackout, len(r.blackouts)),
		appointments: make(map[uuid.UUID]Appointment, len(r.appointments)),
		history:      append([]History(nil), r.history...),
		historySeq:   r.historySeq,
	}
	for k, v := range r.schedule {
		snap.schedule[k] = v
	}
	for k, v := range r.blackouts {
		snap.blackouts[k] = v
	}
	for k, v := range r.appointments {
		snap.appointments[k] = v
	}
	return snap
}

func (r *MemoryRepository) restore(snap memorySnapshot) {
	r.schedule = snap.schedule
	r.blackouts = snap.blackouts
	r.appointments = snap.appointments
	r.history = snap.history
	r.historySeq = snap.historySeq
}

// Helpers below expect r.mu to be held.

func (r *MemoryRepository) blackoutsOn(doctorID uuid.UUID, date time.Time) []Blackout {
	var out []Blackout
	for _, b := range r.blackouts {
		if b.DoctorID == doctorID && b.Date.Equal(date) {
			out = append(out, b)
		}
	}
	sortBlackouts(out)
	return out
}

func (r *MemoryRepository) activeOn(doctorID uuid.UUID, date time.Time) []Appointment {
	var out []Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Status.Active() {
			out = append(out, a)
		}
	}
	sortAppointments(out)
	return out
}

func (r *MemoryRepository) activeInWindow(doctorID uuid.UUID, dateFrom, dateTo time.Time, start, end timeslot.Clock) []Appointment {
	var out []Appointment
	for _, a := range r.appointments {
		if a.DoctorID != doctorID || !a.Status.Active() {
			continue
		}
		if a.Date.Before(dateFrom) || a.Date.After(dateTo) {
			continue
		}
		if timeslot.Overlaps(a.Interval(), timeslot.Interval{Date: a.Date, Start: start, End: end}) {
			out = append(out, a)
		}
	}
	sortAppointments(out)
	return out
}

func (r *MemoryRepository) filtered(filter AppointmentFilter) []Appointment {
	out := make([]Appointment, 0)
	for _, a := range r.appointments {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.DateFrom != nil && a.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && a.Date.After(*filter.DateTo) {
			continue
		}
		out = append(out, a)
	}
	return out
}

type memoryTx struct {
	r *MemoryRepository
}

func (t memoryTx) ExistsActiveOverlap(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end timeslot.Clock) (bool, error) {
	window := timeslot.Interval{Date: date, Start: start, End: end}
	for _, a := range t.r.activeOn(doctorID, date) {
		if timeslot.Overlaps(window, a.Interval()) {
			return true, nil
		}
	}
	return false, nil
}

func (t memoryTx) ListBlackoutsOn(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Blackout, error) {
	return t.r.blackoutsOn(doctorID, date), nil
}

func (t memoryTx) FindActiveInWindow(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo time.Time, start, end timeslot.Clock) ([]Appointment, error) {
	return t.r.activeInWindow(doctorID, dateFrom, dateTo, start, end), nil
}

func (t memoryTx) ListActiveFrom(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range t.r.appointments {
		if a.DoctorID == doctorID && a.Status.Active() && !a.Date.Before(from) {
			out = append(out, a)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (t memoryTx) CreateAppointment(ctx context.Context, appt Appointment) (*Appointment, error) {
	for _, a := range t.r.appointments {
		if a.DoctorID == appt.DoctorID && a.Date.Equal(appt.Date) && a.StartTime == appt.StartTime {
			return nil, ErrSlotTaken
		}
		if a.DoctorID == appt.DoctorID && a.Status.Active() && appt.Status.Active() &&
			timeslot.Overlaps(a.Interval(), appt.Interval()) {
			return nil, ErrSlotTaken
		}
	}
	t.r.appointments[appt.ID] = appt
	return &appt, nil
}

func (t memoryTx) GetAppointmentForUpdate(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := t.r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (t memoryTx) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus, notes string, at time.Time) (*Appointment, error) {
	a, ok := t.r.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	if notes != "" {
		a.Notes = notes
	}
	a.UpdatedAt = at
	t.r.appointments[id] = a
	return &a, nil
}

func (t memoryTx) AppendHistory(ctx context.Context, h History) (*History, error) {
	t.r.historySeq++
	h.ID = t.r.historySeq
	t.r.history = append(t.r.history, h)
	return &h, nil
}

func (t memoryTx) GetScheduleEntry(ctx context.Context, doctorID, entryID uuid.UUID) (*WeeklyScheduleEntry, error) {
	e, ok := t.r.schedule[entryID]
	if !ok || e.DoctorID != doctorID {
		return nil, ErrScheduleNotFound
	}
	return &e, nil
}

func (t memoryTx) CreateScheduleEntry(ctx context.Context, entry WeeklyScheduleEntry) (*WeeklyScheduleEntry, error) {
	for _, e := range t.r.schedule {
		if e.DoctorID == entry.DoctorID && e.Weekday == entry.Weekday && e.StartTime == entry.StartTime {
			return nil, ErrScheduleDuplicate
		}
	}
	t.r.schedule[entry.ID] = entry
	return &entry, nil
}

func (t memoryTx) SetScheduleEnabled(ctx context.Context, doctorID, entryID uuid.UUID, enabled bool, at time.Time) (*WeeklyScheduleEntry, error) {
	e, ok := t.r.schedule[entryID]
	if !ok || e.DoctorID != doctorID {
		return nil, ErrScheduleNotFound
	}
	e.Enabled = enabled
	e.UpdatedAt = at
	t.r.schedule[entryID] = e
	return &e, nil
}

func (t memoryTx) DeleteScheduleEntry(ctx context.Context, doctorID, entryID uuid.UUID) error {
	e, ok := t.r.schedule[entryID]
	if !ok || e.DoctorID != doctorID {
		return ErrScheduleNotFound
	}
	delete(t.r.schedule, entryID)
	return nil
}

func (t memoryTx) CreateBlackouts(ctx context.Context, blackouts []Blackout) ([]Blackout, error) {
	for _, b := range blackouts {
		t.r.blackouts[b.ID] = b
	}
	return append([]Blackout(nil), blackouts...), nil
}

func (t memoryTx) DeleteBlackout(ctx context.Context, doctorID, blackoutID uuid.UUID) error {
	b, ok := t.r.blackouts[blackoutID]
	if !ok || b.DoctorID != doctorID {
		return ErrBlackoutNotFound
	}
	delete(t.r.blackouts, blackoutID)
	return nil
}

func appointmentBefore(a, b Appointment) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.StartTime < b.StartTime
}

func sortAppointments(out []Appointment) {
	sort.Slice(out, func(i, j int) bool { return appointmentBefore(out[i], out[j]) })
}

func sortSchedule(out []WeeklyScheduleEntry) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday != out[j].Weekday {
			return out[i].Weekday < out[j].Weekday
		}
		return out[i].StartTime < out[j].StartTime
	})
}

func sortBlackouts(out []Blackout) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
}

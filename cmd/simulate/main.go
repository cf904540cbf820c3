package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/hackgods/clinic-appointment-scheduling/internal/config"
	"github.com/hackgods/clinic-appointment-scheduling/internal/db"
	"github.com/hackgods/clinic-appointment-scheduling/internal/observability"
	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

// The simulator points many patients at one doctor and one day so that every
// booking races, then checks in Postgres that no two active appointments of
// that doctor overlap.

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	CancelRatio  float64
	ReadRatio    float64
	PatientLimit int
	Date         time.Time
	DoctorID     uuid.UUID
}

type DataPool struct {
	Patients []uuid.UUID

	mu           sync.RWMutex
	appointments []booked
}

type booked struct {
	ID        uuid.UUID
	PatientID uuid.UUID
}

func (dp *DataPool) AddAppointment(b booked) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, b)
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (booked, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return booked{}, false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[percentileIndex(len(latencies), 50)]
	p95 = latencies[percentileIndex(len(latencies), 95)]
	return avg, min, max, p50, p95
}

func percentileIndex(n, p int) int {
	idx := n * p / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Metrics struct {
	Booking       OperationMetrics
	Cancel        OperationMetrics
	ReadSlots     OperationMetrics
	ListByPatient OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

type slotsPayload struct {
	Slots []struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	} `json:"slots"`
}

func main() {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load base config")
	}
	observability.InitLogger("simulate", baseCfg.Env, baseCfg.LogLevel)

	if baseCfg.StoreDriver != config.StoreDriverPostgres {
		log.Fatal().Msg("simulate reads patients and verifies results in Postgres; set STORE_DRIVER=postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, baseCfg.PostgresDSN, "clinic-simulate")
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pgPool.Close()

	cfg, err := loadConfig(baseCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	dataPool, doctorID, err := loadDataPool(ctx, pgPool, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load data pool")
	}
	cfg.DoctorID = doctorID

	log.Info().
		Int("patients", len(dataPool.Patients)).
		Str("doctor_id", doctorID.String()).
		Str("date", timeslot.FormatDate(cfg.Date)).
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Msg("simulator starting")

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	sim.Run()
	sim.PrintReport()

	overlaps, err := countOverlaps(context.Background(), pgPool, doctorID, cfg.Date)
	if err != nil {
		log.Fatal().Err(err).Msg("verify overlaps")
	}
	if overlaps > 0 {
		log.Fatal().Int("pairs", overlaps).Msg("overlapping active appointments found")
	}
	log.Info().Msg("no overlapping active appointments")
}

func loadConfig(base config.Config) (SimConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SIM_API_BASE_URL", "http://localhost:8080")
	v.SetDefault("SIM_DURATION", "30s")
	v.SetDefault("SIM_WORKERS", 10)
	v.SetDefault("SIM_BOOKING_RATIO", 0.5)
	v.SetDefault("SIM_CANCEL_RATIO", 0.1)
	v.SetDefault("SIM_READ_RATIO", 0.4)
	v.SetDefault("SIM_PATIENT_LIMIT", 4000)

	cfg := SimConfig{
		APIBaseURL:   strings.TrimRight(v.GetString("SIM_API_BASE_URL"), "/"),
		Duration:     v.GetDuration("SIM_DURATION"),
		Workers:      v.GetInt("SIM_WORKERS"),
		BookingRatio: v.GetFloat64("SIM_BOOKING_RATIO"),
		CancelRatio:  v.GetFloat64("SIM_CANCEL_RATIO"),
		ReadRatio:    v.GetFloat64("SIM_READ_RATIO"),
		PatientLimit: v.GetInt("SIM_PATIENT_LIMIT"),
	}

	// Default to the next weekday so seeded schedules apply.
	date := timeslot.DateOf(time.Now(), base.Location()).AddDate(0, 0, 1)
	for timeslot.Weekday(date) > 4 {
		date = date.AddDate(0, 0, 1)
	}
	if raw := v.GetString("SIM_DATE"); raw != "" {
		d, err := timeslot.ParseDate(raw)
		if err != nil {
			return SimConfig{}, fmt.Errorf("SIM_DATE: %w", err)
		}
		date = d
	}
	cfg.Date = date

	if raw := v.GetString("SIM_DOCTOR_ID"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return SimConfig{}, fmt.Errorf("SIM_DOCTOR_ID: %w", err)
		}
		cfg.DoctorID = id
	}

	if cfg.Workers <= 0 {
		return SimConfig{}, errors.New("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return SimConfig{}, errors.New("SIM_DURATION must be > 0")
	}

	total := cfg.BookingRatio + cfg.CancelRatio + cfg.ReadRatio
	if total <= 0 {
		return SimConfig{}, errors.New("operation ratios must add up to more than 0")
	}
	cfg.BookingRatio /= total
	cfg.CancelRatio /= total
	cfg.ReadRatio /= total

	return cfg, nil
}

// loadDataPool picks patients and, unless one is configured, a doctor who
// works on the simulated weekday.
func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, uuid.UUID, error) {
	dataPool := &DataPool{}

	rows, err := pool.Query(ctx, `SELECT id FROM patients LIMIT $1`, cfg.PatientLimit)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("load patients: %w", err)
	}
	dataPool.Patients, err = pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("load patients: %w", err)
	}
	if len(dataPool.Patients) == 0 {
		return nil, uuid.Nil, errors.New("no patients loaded; run cmd/seed first")
	}

	doctorID := cfg.DoctorID
	if doctorID == uuid.Nil {
		err := pool.QueryRow(ctx, `
			SELECT doctor_id FROM weekly_schedules
			WHERE weekday = $1 AND enabled
			ORDER BY doctor_id
			LIMIT 1
		`, timeslot.Weekday(cfg.Date)).Scan(&doctorID)
		if err != nil {
			return nil, uuid.Nil, fmt.Errorf("pick doctor: %w", err)
		}
	}

	return dataPool, doctorID, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookingRatio:
				s.doBooking(ctx, rng)
			case r < s.config.BookingRatio+s.config.CancelRatio:
				s.doCancel(ctx, rng)
			case rng.Intn(2) == 0:
				s.doReadSlots(ctx, rng)
			default:
				s.doListByPatient(ctx, rng)
			}
		}
	}
}

func (s *Simulator) newRequest(ctx context.Context, method, path string, actor uuid.UUID, role string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", actor.String())
	req.Header.Set("X-User-Role", role)
	return req
}

func (s *Simulator) fetchSlots(ctx context.Context, patientID uuid.UUID) (slotsPayload, int, error) {
	path := fmt.Sprintf("/api/v1/doctors/%s/slots?date=%s", s.config.DoctorID, timeslot.FormatDate(s.config.Date))
	resp, err := s.client.Do(s.newRequest(ctx, http.MethodGet, path, patientID, "patient", nil))
	if err != nil {
		return slotsPayload{}, 0, err
	}
	defer resp.Body.Close()

	var payload slotsPayload
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return slotsPayload{}, resp.StatusCode, err
		}
	}
	return payload, resp.StatusCode, nil
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	patientID := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	start := time.Now()

	slots, status, err := s.fetchSlots(ctx, patientID)
	if err != nil || status != http.StatusOK {
		s.metrics.Booking.Record(time.Since(start), false, false)
		return
	}
	if len(slots.Slots) == 0 {
		return
	}

	// Most workers go for the earliest slot so bookings collide.
	idx := 0
	if rng.Intn(4) == 0 {
		idx = rng.Intn(len(slots.Slots))
	}
	slot := slots.Slots[idx]

	req := s.newRequest(ctx, http.MethodPost, "/api/v1/appointments", patientID, "patient", map[string]string{
		"doctor_id":  s.config.DoctorID.String(),
		"date":       timeslot.FormatDate(s.config.Date),
		"start_time": slot.StartTime,
		"end_time":   slot.EndTime,
		"reason":     "simulated visit",
	})

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	conflict := false

	if err == nil {
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusCreated:
			success = true
			var apptResp struct {
				ID uuid.UUID `json:"id"`
			}
			if json.NewDecoder(resp.Body).Decode(&apptResp) == nil && apptResp.ID != uuid.Nil {
				s.pool.AddAppointment(booked{ID: apptResp.ID, PatientID: patientID})
			}
		case http.StatusConflict:
			conflict = true
		}
	}

	s.metrics.Booking.Record(latency, success, conflict)
}

func (s *Simulator) doCancel(ctx context.Context, rng *rand.Rand) {
	appt, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()

	path := fmt.Sprintf("/api/v1/appointments/%s/cancel", appt.ID)
	resp, err := s.client.Do(s.newRequest(ctx, http.MethodPost, path, appt.PatientID, "patient", map[string]string{
		"reason": "simulated cancellation",
	}))
	latency := time.Since(start)

	success := false
	conflict := false

	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
		conflict = resp.StatusCode == http.StatusConflict
	}

	s.metrics.Cancel.Record(latency, success, conflict)
}

func (s *Simulator) doReadSlots(ctx context.Context, rng *rand.Rand) {
	patientID := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	start := time.Now()
	_, status, err := s.fetchSlots(ctx, patientID)
	s.metrics.ReadSlots.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doListByPatient(ctx context.Context, rng *rand.Rand) {
	appt, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()

	resp, err := s.client.Do(s.newRequest(ctx, http.MethodGet, "/api/v1/appointments?limit=20", appt.PatientID, "patient", nil))
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.ListByPatient.Record(latency, success, false)
}

// countOverlaps counts pairs of active appointments of the doctor on date
// whose half-open intervals intersect.
func countOverlaps(ctx context.Context, pool *pgxpool.Pool, doctorID uuid.UUID, date time.Time) (int, error) {
	var n int
	err := pool.QueryRow(ctx, `
		SELECT count(*)
		FROM appointments a
		JOIN appointments b
		  ON a.doctor_id = b.doctor_id
		 AND a.date = b.date
		 AND a.id < b.id
		 AND a.start_time < b.end_time
		 AND b.start_time < a.end_time
		WHERE a.doctor_id = $1
		  AND a.date = $2
		  AND a.status IN ('scheduled', 'confirmed')
		  AND b.status IN ('scheduled', 'confirmed')
	`, doctorID, date).Scan(&n)
	return n, err
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Printf("Doctor: %s on %s\n", s.config.DoctorID, timeslot.FormatDate(s.config.Date))
	fmt.Println()

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Cancel", &s.metrics.Cancel)
	printOperationReport("Read slots", &s.metrics.ReadSlots)
	printOperationReport("List by Patient", &s.metrics.ListByPatient)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

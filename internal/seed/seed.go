// Package seed generates a fake clinic directory and working weeks for local
// runs and load simulation.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/appointment"
)

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

type Options struct {
	Doctors  int
	Patients int
	// Seed makes the output reproducible; 0 picks a random seed.
	Seed uint64
}

// Window is one recurring working block. Weekday is 0 for Monday.
type Window struct {
	Weekday   int
	StartTime string
	EndTime   string
}

type Directory struct {
	Doctors  []appointment.Doctor
	Patients []appointment.Patient
	Weeks    map[uuid.UUID][]Window
}

// DirectoryStore is implemented by both appointment stores.
type DirectoryStore interface {
	UpsertDoctor(ctx context.Context, d appointment.Doctor) error
	UpsertPatient(ctx context.Context, p appointment.Patient) error
}

// Generate builds doctors with a Monday to Friday week split around lunch,
// and patients with fake contact details.
func Generate(opts Options) Directory {
	faker := gofakeit.New(opts.Seed)

	dir := Directory{
		Doctors:  make([]appointment.Doctor, 0, opts.Doctors),
		Patients: make([]appointment.Patient, 0, opts.Patients),
		Weeks:    make(map[uuid.UUID][]Window, opts.Doctors),
	}

	for i := 0; i < opts.Doctors; i++ {
		specialty := faker.RandomString(specialties)
		d := appointment.Doctor{
			ID:        uuid.New(),
			Name:      "Dr. " + faker.Name(),
			Specialty: &specialty,
		}
		dir.Doctors = append(dir.Doctors, d)

		morning := faker.Number(8, 9)
		afternoonEnd := faker.Number(16, 18)
		var week []Window
		for weekday := 0; weekday < 5; weekday++ {
			week = append(week,
				Window{Weekday: weekday, StartTime: fmt.Sprintf("%02d:00", morning), EndTime: "13:00"},
				Window{Weekday: weekday, StartTime: "14:00", EndTime: fmt.Sprintf("%02d:00", afternoonEnd)},
			)
		}
		dir.Weeks[d.ID] = week
	}

	for i := 0; i < opts.Patients; i++ {
		email := faker.Email()
		dir.Patients = append(dir.Patients, appointment.Patient{
			ID:    uuid.New(),
			Name:  faker.Name(),
			Email: &email,
		})
	}

	return dir
}

// Load writes the directory to store and creates each doctor's week through
// the service. Entries that already exist are skipped so reruns are safe.
func Load(ctx context.Context, store DirectoryStore, svc *appointment.Service, dir Directory) error {
	for _, d := range dir.Doctors {
		if err := store.UpsertDoctor(ctx, d); err != nil {
			return err
		}
	}
	for _, p := range dir.Patients {
		if err := store.UpsertPatient(ctx, p); err != nil {
			return err
		}
	}

	for _, d := range dir.Doctors {
		for _, w := range dir.Weeks[d.ID] {
			_, err := svc.CreateScheduleEntry(ctx, appointment.CreateScheduleRequest{
				DoctorID:  d.ID,
				Weekday:   w.Weekday,
				StartTime: w.StartTime,
				EndTime:   w.EndTime,
			})
			if err != nil && !errors.Is(err, appointment.ErrScheduleDuplicate) {
				return fmt.Errorf("schedule for doctor %s: %w", d.ID, err)
			}
		}
	}
	return nil
}

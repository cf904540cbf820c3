package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ListRequest struct {
	Actor    Actor
	Status   string
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}

// ListAppointments returns the actor's own appointments. Patients see newest
// first, doctors see their agenda oldest first.
func (s *Service) ListAppointments(ctx context.Context, req ListRequest) ([]Appointment, error) {
	filter, err := s.actorFilter(req.Actor)
	if err != nil {
		return nil, err
	}

	if st := strings.TrimSpace(req.Status); st != "" {
		status := AppointmentStatus(st)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}
	if req.DateFrom != "" {
		d, err := parseDate(req.DateFrom)
		if err != nil {
			return nil, err
		}
		filter.DateFrom = &d
	}
	if req.DateTo != "" {
		d, err := parseDate(req.DateTo)
		if err != nil {
			return nil, err
		}
		filter.DateTo = &d
	}

	filter.Limit = req.Limit
	if filter.Limit <= 0 {
		filter.Limit = 50 // default
	}
	if filter.Limit > 200 {
		filter.Limit = 200 // max
	}
	filter.Offset = req.Offset
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	appointments, err := s.repo.ListAppointments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) GetAppointment(ctx context.Context, actor Actor, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.OwnedBy(actor) {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

func (s *Service) AppointmentHistory(ctx context.Context, actor Actor, id uuid.UUID) ([]History, error) {
	if _, err := s.GetAppointment(ctx, actor, id); err != nil {
		return nil, err
	}
	history, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return history, nil
}

// Stats counts the actor's appointments per status plus the upcoming active ones.
func (s *Service) Stats(ctx context.Context, actor Actor) (Stats, error) {
	filter, err := s.actorFilter(actor)
	if err != nil {
		return Stats{}, err
	}
	stats, err := s.repo.CountByStatus(ctx, filter, s.today())
	if err != nil {
		return Stats{}, fmt.Errorf("count appointments: %w", err)
	}
	return stats, nil
}

func (s *Service) actorFilter(actor Actor) (AppointmentFilter, error) {
	if actor.ID == uuid.Nil {
		return AppointmentFilter{}, ErrMissingIdentity
	}
	id := actor.ID
	switch actor.Role {
	case RolePatient:
		return AppointmentFilter{PatientID: &id}, nil
	case RoleDoctor:
		return AppointmentFilter{DoctorID: &id}, nil
	}
	return AppointmentFilter{}, ErrMissingIdentity
}

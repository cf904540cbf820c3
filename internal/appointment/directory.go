package appointment

import (
	"context"
	"fmt"
	"strings"
)

// ListDoctors is the patient-facing directory used to find a doctor before
// asking for slots. An empty specialty lists every doctor.
func (s *Service) ListDoctors(ctx context.Context, specialty string) ([]Doctor, error) {
	var filter *string
	if sp := strings.TrimSpace(specialty); sp != "" {
		filter = &sp
	}
	doctors, err := s.repo.ListDoctors(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) ListSpecialties(ctx context.Context) ([]string, error) {
	specialties, err := s.repo.ListSpecialties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return specialties, nil
}

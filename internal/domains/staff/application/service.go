package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/Apurer/petcare-booking/internal/domains/staff/domain"
	"github.com/Apurer/petcare-booking/internal/domains/staff/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// Service answers which staff members may be booked.
type Service struct {
	directory ports.Directory
}

func NewService(directory ports.Directory) *Service {
	return &Service{directory: directory}
}

// ListActive returns members that can take bookings.
func (s *Service) ListActive(ctx context.Context) ([]domain.Member, error) {
	members, err := s.directory.ListStaff(ctx, ports.Filter{Status: domain.StatusActive})
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	active := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.Eligible() {
			active = append(active, m)
		}
	}
	return active, nil
}

// EnsureActive fails with a staffId validation error unless the member is ACTIVE.
func (s *Service) EnsureActive(ctx context.Context, staffID string) error {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return apperr.Validation("staffId", "is required")
	}
	active, err := s.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, m := range active {
		if m.ID == staffID {
			return nil
		}
	}
	return apperr.Validation("staffId", "staff member is not available")
}

var _ ports.Service = (*Service)(nil)

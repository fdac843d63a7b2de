package ports

import (
	"context"

	"github.com/Apurer/petcare-booking/internal/domains/staff/domain"
)

// Filter narrows a staff listing; an empty Status lists everyone.
type Filter struct {
	Status domain.Status
}

// Directory lists accounts with the STAFF role.
type Directory interface {
	ListStaff(ctx context.Context, filter Filter) ([]domain.Member, error)
}

// Service exposes staff lookups to the booking and reschedule flows.
type Service interface {
	ListActive(ctx context.Context) ([]domain.Member, error)
	EnsureActive(ctx context.Context, staffID string) error
}

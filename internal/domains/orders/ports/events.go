package ports

import (
	"context"
	"time"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
)

// EventPublisher fans order events out to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// ExpiryScheduler arranges for an unpaid order to be expired once its window closes.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, orderID string, createdAt time.Time) error
}

// StaffChecker confirms a staff member may be assigned.
type StaffChecker interface {
	EnsureActive(ctx context.Context, staffID string) error
}

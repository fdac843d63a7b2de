package ports

import (
	"context"
	"time"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
)

// StatusUpdate is a compare-and-set transition. The directory applies it only
// while the stored status still equals ExpectedStatus and answers
// apperr.ErrStateConflict otherwise.
type StatusUpdate struct {
	OrderID        string
	ExpectedStatus domain.Status
	Status         domain.Status
	Note           string
	Description    string
	StaffID        string
}

// ChangeRequest asks the directory to move a PAID order to a new slot or staff.
// The directory marks the order's change as consumed in the same write and
// answers apperr.ErrStateConflict when it was already consumed or the order is not PAID.
type ChangeRequest struct {
	OrderID       string
	Note          string
	ExecutionDate time.Time
	StaffID       string
}

// Directory is the order registry owned by the remote backend.
type Directory interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersByAccount(ctx context.Context, accountID string) ([]*domain.Order, error)
	ListUnpaidCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, update StatusUpdate) (*domain.Order, error)
	RequestChangeEmployee(ctx context.Context, req ChangeRequest) (*domain.Order, error)
}

package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
)

// TransitionResult reports the order after a transition attempt.
// Applied is false when the order had already moved on; that is not an error.
type TransitionResult struct {
	Order   *domain.Order
	Applied bool
}

// SweepResult summarizes one expiry sweep. A failure on one order never stops the rest.
type SweepResult struct {
	Expired []string
	Skipped int
	Failed  map[string]string
}

// ListQuery selects an account's orders; an empty Status means all.
type ListQuery struct {
	AccountID string
	Status    domain.Status
}

// CancelCommand is a customer cancellation.
type CancelCommand struct {
	OrderID     string `json:"-" validate:"required"`
	Note        string `json:"note" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// PaymentConfirmation reports a successful deposit payment.
type PaymentConfirmation struct {
	OrderID string
	Amount  decimal.Decimal
}

// ChangeCommand is the single reschedule a paid order is allowed.
type ChangeCommand struct {
	OrderID       string
	ExecutionDate time.Time
	StaffID       string
	Note          string
}

// Lifecycle drives orders through their state machine.
type Lifecycle interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, query ListQuery) ([]*domain.Order, error)
	Sweep(ctx context.Context) (*SweepResult, error)
	SweepAccount(ctx context.Context, accountID string) (*SweepResult, error)
	ExpireOrder(ctx context.Context, orderID string) (*TransitionResult, error)
	Cancel(ctx context.Context, cmd CancelCommand) (*TransitionResult, error)
	ConfirmPayment(ctx context.Context, confirmation PaymentConfirmation) (*TransitionResult, error)
	Complete(ctx context.Context, orderID string) (*TransitionResult, error)
}

// Rescheduler handles the one-time change of slot or staff.
type Rescheduler interface {
	Eligibility(ctx context.Context, orderID string) (*domain.Order, domain.ChangeEligibility, error)
	Change(ctx context.Context, cmd ChangeCommand) (*domain.Order, error)
}

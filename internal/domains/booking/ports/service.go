package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	orderdomain "github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	orderports "github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	petdomain "github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	petports "github.com/Apurer/petcare-booking/internal/domains/pets/ports"
	staffdomain "github.com/Apurer/petcare-booking/internal/domains/staff/domain"
)

// BeginInput opens a booking session. A previous session of the same
// customer is discarded first.
type BeginInput struct {
	AccountID         string `json:"accountId" validate:"required"`
	PreviousSessionID string `json:"previousSessionId"`
}

// SelectionInput stages one product.
type SelectionInput struct {
	ProductID    string          `json:"productId" validate:"required"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
}

// PetInput is the pet form.
type PetInput struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Age    int     `json:"age"`
	TypeID string  `json:"typeId"`
}

// SubmitInput is the booking form.
type SubmitInput struct {
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string           `json:"time" validate:"required,datetime=15:04"`
	StaffMode   domain.StaffMode `json:"staffMode" validate:"required,oneof=auto manual"`
	StaffID     string           `json:"staffId" validate:"required_if=StaffMode manual"`
	Note        string           `json:"note"`
	Description string           `json:"description"`
}

// SubmitResult is the created (or retried) order and where to pay for it.
type SubmitResult struct {
	Order   *orderdomain.Order
	Payment *PaymentHandle
	// Reused is true when a pending unpaid order was retried instead of creating a new one.
	Reused bool
}

// PaymentCallback reports a completed payment for a session's order.
type PaymentCallback struct {
	SessionID string
	OrderID   string
	Amount    decimal.Decimal
}

// Service is the booking flow from staged selection to paid order.
type Service interface {
	Begin(ctx context.Context, input BeginInput) (*domain.Staging, error)
	Session(ctx context.Context, sessionID string) (*domain.Staging, error)
	PutSelection(ctx context.Context, sessionID string, input SelectionInput) (*domain.Staging, error)
	AddCartItem(ctx context.Context, sessionID string, input SelectionInput) (*domain.Staging, error)
	RemoveCartItem(ctx context.Context, sessionID, productID string) (*domain.Staging, error)
	Abandon(ctx context.Context, sessionID string) error
	ResolvePet(ctx context.Context, sessionID string, input PetInput) (*petports.Resolution, error)
	Submit(ctx context.Context, sessionID string, input SubmitInput) (*SubmitResult, error)
	ConfirmPayment(ctx context.Context, callback PaymentCallback) (*orderports.TransitionResult, error)
	Slots(ctx context.Context, date string) ([]domain.Slot, error)
	PetTypes(ctx context.Context) ([]petdomain.PetType, error)
	ActiveStaff(ctx context.Context) ([]staffdomain.Member, error)
}

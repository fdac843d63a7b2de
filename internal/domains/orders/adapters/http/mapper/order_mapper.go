package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
)

// ProductLine is the HTTP representation of an ordered product.
type ProductLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is the HTTP representation of an order.
type Order struct {
	ID             string          `json:"orderId"`
	PetID          string          `json:"petId"`
	AccountID      string          `json:"accountId"`
	Products       []ProductLine   `json:"productList"`
	ExecutionDate  time.Time       `json:"executionDate"`
	Status         string          `json:"status"`
	Type           string          `json:"type"`
	StaffID        string          `json:"staffId,omitempty"`
	Note           string          `json:"note,omitempty"`
	Description    string          `json:"description,omitempty"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	Deposit        decimal.Decimal `json:"deposit"`
	CreatedDate    time.Time       `json:"createdDate"`
	ExpiresAt      *time.Time      `json:"expiresAt,omitempty"`
	ChangeConsumed bool            `json:"changeConsumed"`
}

// TransitionResult reports a transition attempt.
type TransitionResult struct {
	Order   Order `json:"order"`
	Applied bool  `json:"applied"`
}

// SweepResult is the HTTP representation of a sweep.
type SweepResult struct {
	Expired []string          `json:"expired"`
	Skipped int               `json:"skipped"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// ChangeEligibility tells the client whether the change form may be shown.
type ChangeEligibility struct {
	OrderID       string `json:"orderId"`
	Eligible      bool   `json:"eligible"`
	Reason        string `json:"reason,omitempty"`
	StaffRequired bool   `json:"staffRequired"`
}

// CancelRequest is the customer cancellation form.
type CancelRequest struct {
	Note        string `json:"note"`
	Description string `json:"description"`
}

// ChangeRequest is the reschedule form; date and time follow the booking form layouts.
type ChangeRequest struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	StaffID string `json:"staffId"`
	Note    string `json:"note"`
}

// PaymentConfirmationRequest reports a completed deposit payment.
type PaymentConfirmationRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func ToCancelCommand(orderID string, req CancelRequest) ports.CancelCommand {
	return ports.CancelCommand{OrderID: orderID, Note: req.Note, Description: req.Description}
}

func ToPaymentConfirmation(orderID string, req PaymentConfirmationRequest) ports.PaymentConfirmation {
	return ports.PaymentConfirmation{OrderID: orderID, Amount: req.Amount}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	products := make([]ProductLine, 0, len(order.Products))
	for _, p := range order.Products {
		products = append(products, ProductLine{ProductID: p.ProductID, Quantity: p.Quantity, Price: p.Price})
	}
	out := Order{
		ID:             order.ID,
		PetID:          order.PetID,
		AccountID:      order.AccountID,
		Products:       products,
		ExecutionDate:  order.ExecutionDate,
		Status:         string(order.Status),
		Type:           string(order.Type),
		StaffID:        order.StaffID,
		Note:           order.Note,
		Description:    order.Description,
		FinalAmount:    order.FinalAmount,
		Deposit:        order.Deposit(),
		CreatedDate:    order.CreatedAt,
		ChangeConsumed: order.ChangeConsumed,
	}
	if order.Status == domain.StatusUnpaid {
		expires := order.ExpiresAt()
		out.ExpiresAt = &expires
	}
	return out
}

func FromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomainOrder(o))
	}
	return out
}

func FromTransitionResult(result *ports.TransitionResult) TransitionResult {
	if result == nil {
		return TransitionResult{}
	}
	return TransitionResult{Order: FromDomainOrder(result.Order), Applied: result.Applied}
}

func FromSweepResult(result *ports.SweepResult) SweepResult {
	if result == nil {
		return SweepResult{Expired: []string{}}
	}
	return SweepResult{Expired: result.Expired, Skipped: result.Skipped, Failed: result.Failed}
}

func FromEligibility(orderID string, e domain.ChangeEligibility) ChangeEligibility {
	return ChangeEligibility{OrderID: orderID, Eligible: e.Eligible, Reason: e.Reason, StaffRequired: e.StaffRequired}
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusUnpaid    Status = "UNPAID"
	StatusPaid      Status = "PAID"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

// Type records who asked for the order; it never changes after creation.
type Type string

const (
	TypeManagerRequest  Type = "MANAGER_REQUEST"
	TypeCustomerRequest Type = "CUSTOMER_REQUEST"
)

const (
	// ExpiryWindow is how long an order may stay unpaid.
	ExpiryWindow = 30 * time.Minute
	// AutoCancelNote is written on orders canceled by the expiry sweep.
	AutoCancelNote = "auto-canceled, unpaid after 30 minutes"
	// PaymentNote is written when a payment confirmation moves an order to PAID.
	PaymentNote = "Payment successful"
)

var depositRate = decimal.RequireFromString("0.2")

var transitions = map[Status][]Status{
	StatusUnpaid:    {StatusPaid, StatusCanceled},
	StatusPaid:      {StatusPaid, StatusCompleted, StatusCanceled},
	StatusCompleted: {},
	StatusCanceled:  {},
}

var (
	ErrMissingPet        = errors.New("pet id is required")
	ErrMissingAccount    = errors.New("account id is required")
	ErrEmptyProducts     = errors.New("at least one product is required")
	ErrInvalidAmount     = errors.New("final amount must be greater than zero")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidType       = errors.New("order type is invalid")
	ErrMissingStaff      = errors.New("staff id is required for customer requested orders")
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

// ProductLine is one purchased product inside an order.
type ProductLine struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Order is the booking aggregate owned by the remote order directory.
type Order struct {
	ID             string
	PetID          string
	AccountID      string
	Products       []ProductLine
	ExecutionDate  time.Time
	Status         Status
	Type           Type
	StaffID        string
	Note           string
	Description    string
	FinalAmount    decimal.Decimal
	CreatedAt      time.Time
	ChangeConsumed bool
}

// IsValid reports whether the status is known.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine allows s -> target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string { return string(s) }

// ParseStatus converts user input into a Status. The match is case-insensitive.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (t Type) IsValid() bool {
	return t == TypeManagerRequest || t == TypeCustomerRequest
}

// Validate enforces the creation invariants.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.PetID) == "" {
		return ErrMissingPet
	}
	if strings.TrimSpace(o.AccountID) == "" {
		return ErrMissingAccount
	}
	if len(o.Products) == 0 {
		return ErrEmptyProducts
	}
	if !o.FinalAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if !o.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !o.Type.IsValid() {
		return ErrInvalidType
	}
	if o.Type == TypeCustomerRequest && strings.TrimSpace(o.StaffID) == "" {
		return ErrMissingStaff
	}
	return nil
}

// Transition moves the order to target when the state machine allows it.
func (o *Order) Transition(target Status) error {
	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	o.Status = target
	return nil
}

// Deposit is the 20% share charged up front.
func (o *Order) Deposit() decimal.Decimal {
	return Deposit(o.FinalAmount)
}

// Deposit computes 20% of amount.
func Deposit(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(depositRate).Round(2)
}

// ExpiresAt is the instant after which an unpaid order is swept.
func (o *Order) ExpiresAt() time.Time {
	return o.CreatedAt.Add(ExpiryWindow)
}

// Expired reports whether the order is unpaid and past its expiry window.
func (o *Order) Expired(now time.Time) bool {
	return o.Status == StatusUnpaid && !now.Before(o.ExpiresAt())
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Products = append([]ProductLine(nil), o.Products...)
	return &clone
}

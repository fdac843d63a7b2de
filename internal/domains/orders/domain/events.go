package domain

import "time"

// Event is the base interface for all order events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	Base() BaseEvent
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
	OrderID   string
	AccountID string
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// Base exposes the routing metadata.
func (e BaseEvent) Base() BaseEvent {
	return e
}

// NewBase stamps event metadata from an order.
func NewBase(order *Order, at time.Time) BaseEvent {
	return BaseEvent{Timestamp: at, OrderID: order.ID, AccountID: order.AccountID}
}

// OrderCreated is raised after the directory accepted a new order.
type OrderCreated struct {
	BaseEvent
	Type          Type
	ExecutionDate time.Time
	FinalAmount   string
}

func (e OrderCreated) EventName() string { return "orders.order.created" }

// OrderPaid is raised when a payment confirmation moved the order to PAID.
type OrderPaid struct {
	BaseEvent
	Amount string
}

func (e OrderPaid) EventName() string { return "orders.order.paid" }

// OrderCanceled is raised on customer cancellation.
type OrderCanceled struct {
	BaseEvent
	PreviousStatus Status
	Note           string
}

func (e OrderCanceled) EventName() string { return "orders.order.canceled" }

// OrderExpired is raised when the sweep cancels an unpaid order.
type OrderExpired struct {
	BaseEvent
	CreatedAt time.Time
}

func (e OrderExpired) EventName() string { return "orders.order.expired" }

// OrderRescheduled is raised once the single change request succeeded.
type OrderRescheduled struct {
	BaseEvent
	ExecutionDate time.Time
	StaffID       string
}

func (e OrderRescheduled) EventName() string { return "orders.order.rescheduled" }

// OrderCompleted is raised on fulfillment.
type OrderCompleted struct {
	BaseEvent
}

func (e OrderCompleted) EventName() string { return "orders.order.completed" }

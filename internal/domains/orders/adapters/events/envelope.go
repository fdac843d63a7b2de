package events

import (
	"time"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
)

// Envelope is the wire shape of an order event on every channel.
type Envelope struct {
	Type       string       `json:"type"`
	OrderID    string       `json:"orderId"`
	AccountID  string       `json:"accountId"`
	OccurredAt time.Time    `json:"occurredAt"`
	Payload    domain.Event `json:"payload"`
}

// NewEnvelope wraps a domain event.
func NewEnvelope(event domain.Event) Envelope {
	base := event.Base()
	return Envelope{
		Type:       event.EventName(),
		OrderID:    base.OrderID,
		AccountID:  base.AccountID,
		OccurredAt: event.OccurredAt(),
		Payload:    event,
	}
}

package events

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*Broadcaster)(nil)

const subscriberBuffer = 16

// Broadcaster delivers events to in-process subscribers of an account.
// Slow subscribers lose events instead of blocking publishers.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	logger *slog.Logger
}

type subscription struct {
	ch chan Envelope
}

func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Broadcaster{subs: map[string]map[*subscription]struct{}{}, logger: logger}
}

// Subscribe registers for the account's events until cancel is called.
func (b *Broadcaster) Subscribe(accountID string) (<-chan Envelope, func()) {
	sub := &subscription{ch: make(chan Envelope, subscriberBuffer)}
	b.mu.Lock()
	if b.subs[accountID] == nil {
		b.subs[accountID] = map[*subscription]struct{}{}
	}
	b.subs[accountID][sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[accountID], sub)
			if len(b.subs[accountID]) == 0 {
				delete(b.subs, accountID)
			}
			b.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

func (b *Broadcaster) Publish(ctx context.Context, events ...domain.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, event := range events {
		envelope := NewEnvelope(event)
		for sub := range b.subs[envelope.AccountID] {
			select {
			case sub.ch <- envelope:
			default:
				b.logger.LogAttrs(ctx, slog.LevelWarn, "dropping order event for slow subscriber",
					slog.String("event.type", envelope.Type), slog.String("order.id", envelope.OrderID))
			}
		}
	}
	return nil
}

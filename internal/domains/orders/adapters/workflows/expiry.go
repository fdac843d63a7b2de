package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/petcare-booking/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.ExpiryScheduler = (*TemporalExpiryScheduler)(nil)
	_ ports.ExpiryScheduler = (*InlineExpiryScheduler)(nil)
)

// TemporalExpiryScheduler starts one durable expiry timer per order.
type TemporalExpiryScheduler struct {
	client    client.Client
	taskQueue string
}

func NewTemporalExpiryScheduler(c client.Client) *TemporalExpiryScheduler {
	return &TemporalExpiryScheduler{client: c, taskQueue: orderworkflows.OrderExpiryTaskQueue}
}

// ScheduleExpiry is idempotent per order: a timer that already runs is kept.
func (s *TemporalExpiryScheduler) ScheduleExpiry(ctx context.Context, orderID string, createdAt time.Time) error {
	if s == nil || s.client == nil {
		return errors.New("temporal expiry scheduler not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        ExpiryWorkflowID(orderID),
		TaskQueue: s.taskQueue,
	}
	_, err := s.client.ExecuteWorkflow(ctx, options, orderworkflows.OrderExpiryWorkflow, orderworkflows.OrderExpiryWorkflowInput{
		OrderID:  orderID,
		Deadline: createdAt.Add(domain.ExpiryWindow),
		TraceID:  workflowTraceID(ctx),
	})
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return nil
	}
	return err
}

// ExpiryWorkflowID names the timer workflow of an order.
func ExpiryWorkflowID(orderID string) string {
	return fmt.Sprintf("order-expiry-%s", orderID)
}

// Expirer is the part of the lifecycle an in-process timer needs.
type Expirer interface {
	ExpireOrder(ctx context.Context, orderID string) (*ports.TransitionResult, error)
}

// InlineExpiryScheduler arms in-process timers. Timers die with the process;
// the periodic sweep covers whatever they miss.
type InlineExpiryScheduler struct {
	mu      sync.Mutex
	expirer Expirer
	timers  map[string]*time.Timer
	logger  *slog.Logger
	now     func() time.Time
}

func NewInlineExpiryScheduler(logger *slog.Logger) *InlineExpiryScheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &InlineExpiryScheduler{timers: map[string]*time.Timer{}, logger: logger, now: time.Now}
}

// Attach sets the lifecycle the timers call back into. Until it is attached,
// ScheduleExpiry does nothing and expiry is left to the sweep.
func (s *InlineExpiryScheduler) Attach(expirer Expirer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expirer = expirer
}

func (s *InlineExpiryScheduler) ScheduleExpiry(_ context.Context, orderID string, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expirer == nil {
		return nil
	}
	if _, ok := s.timers[orderID]; ok {
		return nil
	}
	wait := createdAt.Add(domain.ExpiryWindow).Sub(s.now())
	if wait < 0 {
		wait = 0
	}
	expirer := s.expirer
	s.timers[orderID] = time.AfterFunc(wait, func() {
		s.mu.Lock()
		delete(s.timers, orderID)
		s.mu.Unlock()
		ctx := context.Background()
		if _, err := expirer.ExpireOrder(ctx, orderID); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "inline order expiry failed",
				slog.String("order.id", orderID), slog.String("error", err.Error()))
		}
	})
	return nil
}

// Pending reports how many timers are armed.
func (s *InlineExpiryScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop disarms every pending timer.
func (s *InlineExpiryScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

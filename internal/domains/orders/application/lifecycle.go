package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
	"github.com/Apurer/petcare-booking/internal/shared/validation"
)

// DefaultSweepConcurrency bounds parallel expiry writes during a sweep.
const DefaultSweepConcurrency = 8

// Lifecycle owns every order status transition after creation.
type Lifecycle struct {
	directory  ports.Directory
	events     ports.EventPublisher
	expiry     ports.ExpiryScheduler
	validate   *validatorv10.Validate
	logger     *slog.Logger
	now        func() time.Time
	sweepLimit int
}

type Option func(*Lifecycle)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) {
		if now != nil {
			l.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lifecycle) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithEventPublisher(p ports.EventPublisher) Option {
	return func(l *Lifecycle) { l.events = p }
}

func WithExpiryScheduler(s ports.ExpiryScheduler) Option {
	return func(l *Lifecycle) { l.expiry = s }
}

func WithSweepConcurrency(n int) Option {
	return func(l *Lifecycle) {
		if n > 0 {
			l.sweepLimit = n
		}
	}
}

func NewLifecycle(directory ports.Directory, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		directory:  directory,
		validate:   validation.New(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
		sweepLimit: DefaultSweepConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// CreateOrder registers a new UNPAID order and arms its expiry timer.
func (l *Lifecycle) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	draft := order.Clone()
	draft.Status = domain.StatusUnpaid
	draft.ChangeConsumed = false
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = l.now()
	}
	if err := draft.Validate(); err != nil {
		return nil, mapError(err)
	}
	created, err := l.directory.CreateOrder(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	l.publish(ctx, domain.OrderCreated{
		BaseEvent:     domain.NewBase(created, l.now()),
		Type:          created.Type,
		ExecutionDate: created.ExecutionDate,
		FinalAmount:   created.FinalAmount.String(),
	})
	if l.expiry != nil {
		if err := l.expiry.ScheduleExpiry(ctx, created.ID, created.CreatedAt); err != nil {
			// The periodic sweep still expires the order.
			l.logger.LogAttrs(ctx, slog.LevelWarn, "failed to schedule order expiry",
				slog.String("order.id", created.ID), slog.String("error", err.Error()))
		}
	}
	return created, nil
}

func (l *Lifecycle) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, apperr.Validation("orderId", "is required")
	}
	return l.directory.GetOrder(ctx, orderID)
}

// ListOrders expires the account's overdue orders, then returns the matching
// ones newest first.
func (l *Lifecycle) ListOrders(ctx context.Context, query ports.ListQuery) ([]*domain.Order, error) {
	if strings.TrimSpace(query.AccountID) == "" {
		return nil, apperr.Validation("accountId", "is required")
	}
	if query.Status != "" && !query.Status.IsValid() {
		return nil, apperr.Validation("status", "is invalid")
	}
	orders, err := l.directory.ListOrdersByAccount(ctx, query.AccountID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	outcome := l.expireAll(ctx, orders, l.now())
	for i, order := range orders {
		if updated, ok := outcome.updated[order.ID]; ok {
			orders[i] = updated
		}
	}
	if len(outcome.result.Failed) > 0 {
		l.logger.LogAttrs(ctx, slog.LevelWarn, "account sweep left orders unexpired",
			slog.String("account.id", query.AccountID), slog.Int("failed", len(outcome.result.Failed)))
	}

	filtered := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if query.Status == "" || order.Status == query.Status {
			filtered = append(filtered, order)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// Sweep cancels every UNPAID order older than the expiry window.
func (l *Lifecycle) Sweep(ctx context.Context) (*ports.SweepResult, error) {
	now := l.now()
	orders, err := l.directory.ListUnpaidCreatedBefore(ctx, now.Add(-domain.ExpiryWindow))
	if err != nil {
		return nil, fmt.Errorf("list unpaid orders: %w", err)
	}
	return l.expireAll(ctx, orders, now).result, nil
}

// SweepAccount is Sweep restricted to one account.
func (l *Lifecycle) SweepAccount(ctx context.Context, accountID string) (*ports.SweepResult, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, apperr.Validation("accountId", "is required")
	}
	orders, err := l.directory.ListOrdersByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return l.expireAll(ctx, orders, l.now()).result, nil
}

// ExpireOrder is the single-order sweep run by the durable timer.
func (l *Lifecycle) ExpireOrder(ctx context.Context, orderID string) (*ports.TransitionResult, error) {
	order, err := l.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := l.now()
	if !order.Expired(now) {
		return &ports.TransitionResult{Order: order}, nil
	}
	return l.expireOne(ctx, order, now)
}

// Cancel is the customer cancellation; note and description are mandatory.
func (l *Lifecycle) Cancel(ctx context.Context, cmd ports.CancelCommand) (*ports.TransitionResult, error) {
	cmd.Note = strings.TrimSpace(cmd.Note)
	cmd.Description = strings.TrimSpace(cmd.Description)
	if err := validation.Check(l.validate, cmd); err != nil {
		return nil, err
	}
	order, err := l.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, terminalConflict(order, "cancel")
	}
	previous := order.Status
	result, err := l.transition(ctx, order, ports.StatusUpdate{
		OrderID:        order.ID,
		ExpectedStatus: previous,
		Status:         domain.StatusCanceled,
		Note:           cmd.Note,
		Description:    cmd.Description,
		StaffID:        order.StaffID,
	})
	if err != nil || !result.Applied {
		return result, err
	}
	l.publish(ctx, domain.OrderCanceled{
		BaseEvent:      domain.NewBase(result.Order, l.now()),
		PreviousStatus: previous,
		Note:           cmd.Note,
	})
	return result, nil
}

// ConfirmPayment moves an UNPAID order to PAID when the paid amount equals
// the deposit. A confirmation for an order that is no longer UNPAID is a no-op.
func (l *Lifecycle) ConfirmPayment(ctx context.Context, confirmation ports.PaymentConfirmation) (*ports.TransitionResult, error) {
	order, err := l.GetOrder(ctx, confirmation.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusUnpaid {
		l.logger.LogAttrs(ctx, slog.LevelWarn, "ignoring payment confirmation",
			slog.String("order.id", order.ID), slog.String("order.status", string(order.Status)))
		return &ports.TransitionResult{Order: order}, nil
	}
	if deposit := order.Deposit(); !confirmation.Amount.Equal(deposit) {
		return nil, apperr.Validation("amount", fmt.Sprintf("must equal the deposit %s", deposit.String()))
	}
	result, err := l.transition(ctx, order, ports.StatusUpdate{
		OrderID:        order.ID,
		ExpectedStatus: domain.StatusUnpaid,
		Status:         domain.StatusPaid,
		Note:           domain.PaymentNote,
		Description:    order.Description,
		StaffID:        order.StaffID,
	})
	if err != nil || !result.Applied {
		return result, err
	}
	l.publish(ctx, domain.OrderPaid{
		BaseEvent: domain.NewBase(result.Order, l.now()),
		Amount:    confirmation.Amount.String(),
	})
	return result, nil
}

// Complete records fulfillment of a PAID order.
func (l *Lifecycle) Complete(ctx context.Context, orderID string) (*ports.TransitionResult, error) {
	order, err := l.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(domain.StatusCompleted) {
		return nil, terminalConflict(order, "complete")
	}
	result, err := l.transition(ctx, order, ports.StatusUpdate{
		OrderID:        order.ID,
		ExpectedStatus: domain.StatusPaid,
		Status:         domain.StatusCompleted,
		Note:           order.Note,
		Description:    order.Description,
		StaffID:        order.StaffID,
	})
	if err != nil || !result.Applied {
		return result, err
	}
	l.publish(ctx, domain.OrderCompleted{BaseEvent: domain.NewBase(result.Order, l.now())})
	return result, nil
}

type sweepOutcome struct {
	result  *ports.SweepResult
	updated map[string]*domain.Order
}

func (l *Lifecycle) expireAll(ctx context.Context, orders []*domain.Order, now time.Time) sweepOutcome {
	outcome := sweepOutcome{
		result:  &ports.SweepResult{Expired: []string{}, Failed: map[string]string{}},
		updated: map[string]*domain.Order{},
	}
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(l.sweepLimit)
	for _, order := range orders {
		if !order.Expired(now) {
			continue
		}
		g.Go(func() error {
			res, err := l.expireOne(ctx, order, now)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				outcome.result.Failed[order.ID] = err.Error()
				l.logger.LogAttrs(ctx, slog.LevelError, "failed to expire order",
					slog.String("order.id", order.ID), slog.String("error", err.Error()))
			case res.Applied:
				outcome.result.Expired = append(outcome.result.Expired, order.ID)
				outcome.updated[order.ID] = res.Order
			default:
				outcome.result.Skipped++
				outcome.updated[order.ID] = res.Order
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Strings(outcome.result.Expired)
	return outcome
}

func (l *Lifecycle) expireOne(ctx context.Context, order *domain.Order, now time.Time) (*ports.TransitionResult, error) {
	result, err := l.transition(ctx, order, ports.StatusUpdate{
		OrderID:        order.ID,
		ExpectedStatus: domain.StatusUnpaid,
		Status:         domain.StatusCanceled,
		Note:           domain.AutoCancelNote,
		Description:    domain.AutoCancelNote,
		StaffID:        order.StaffID,
	})
	if err != nil || !result.Applied {
		return result, err
	}
	l.publish(ctx, domain.OrderExpired{
		BaseEvent: domain.NewBase(result.Order, now),
		CreatedAt: order.CreatedAt,
	})
	return result, nil
}

// transition applies a compare-and-set update; losing the race is reported as
// Applied=false with the directory's current view of the order.
func (l *Lifecycle) transition(ctx context.Context, order *domain.Order, update ports.StatusUpdate) (*ports.TransitionResult, error) {
	if !order.Status.CanTransitionTo(update.Status) {
		return nil, mapError(order.Clone().Transition(update.Status))
	}
	updated, err := l.directory.UpdateOrderStatus(ctx, update)
	if errors.Is(err, apperr.ErrStateConflict) {
		current, getErr := l.directory.GetOrder(ctx, order.ID)
		if getErr != nil {
			return nil, fmt.Errorf("reload order after conflict: %w", getErr)
		}
		l.logger.LogAttrs(ctx, slog.LevelInfo, "order transition already superseded",
			slog.String("order.id", order.ID),
			slog.String("order.expected_status", string(update.ExpectedStatus)),
			slog.String("order.status", string(current.Status)))
		return &ports.TransitionResult{Order: current}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return &ports.TransitionResult{Order: updated, Applied: true}, nil
}

func (l *Lifecycle) publish(ctx context.Context, events ...domain.Event) {
	if l.events == nil {
		return
	}
	if err := l.events.Publish(ctx, events...); err != nil {
		l.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order events", slog.String("error", err.Error()))
	}
}

var _ ports.Lifecycle = (*Lifecycle)(nil)

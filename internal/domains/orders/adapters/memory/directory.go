package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

var _ ports.Directory = (*Directory)(nil)

// Directory is an in-memory order registry with the same transition guards as
// the remote backend.
type Directory struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	now    func() time.Time
}

func NewDirectory() *Directory {
	return &Directory{orders: map[string]*domain.Order{}, now: time.Now}
}

// WithClock overrides the time source used to stamp new orders.
func (d *Directory) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	d.mu.Lock()
	d.now = now
	d.mu.Unlock()
}

func (d *Directory) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	stored := order.Clone()
	if err := stored.Validate(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if _, exists := d.orders[stored.ID]; exists {
		return nil, fmt.Errorf("%w: order %s already exists", apperr.ErrConflict, stored.ID)
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = d.now()
	}
	d.orders[stored.ID] = stored
	return stored.Clone(), nil
}

func (d *Directory) GetOrder(_ context.Context, orderID string) (*domain.Order, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	order, ok := d.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}
	return order.Clone(), nil
}

func (d *Directory) ListOrdersByAccount(_ context.Context, accountID string) ([]*domain.Order, error) {
	return d.list(func(o *domain.Order) bool { return o.AccountID == accountID }), nil
}

func (d *Directory) ListUnpaidCreatedBefore(_ context.Context, cutoff time.Time) ([]*domain.Order, error) {
	return d.list(func(o *domain.Order) bool {
		return o.Status == domain.StatusUnpaid && !o.CreatedAt.After(cutoff)
	}), nil
}

// UpdateOrderStatus applies the transition only while the stored status equals ExpectedStatus.
func (d *Directory) UpdateOrderStatus(_ context.Context, update ports.StatusUpdate) (*domain.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	order, ok := d.orders[update.OrderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, update.OrderID)
	}
	if order.Status != update.ExpectedStatus {
		return nil, fmt.Errorf("%w: order %s is %s, expected %s", apperr.ErrStateConflict, order.ID, order.Status, update.ExpectedStatus)
	}
	if err := order.Transition(update.Status); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrStateConflict, err)
	}
	order.Note = update.Note
	order.Description = update.Description
	if update.StaffID != "" {
		order.StaffID = update.StaffID
	}
	return order.Clone(), nil
}

// RequestChangeEmployee reschedules a PAID order and consumes its change in the same write.
func (d *Directory) RequestChangeEmployee(_ context.Context, req ports.ChangeRequest) (*domain.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	order, ok := d.orders[req.OrderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, req.OrderID)
	}
	if order.Status != domain.StatusPaid {
		return nil, fmt.Errorf("%w: order %s is %s", apperr.ErrStateConflict, order.ID, order.Status)
	}
	if order.ChangeConsumed {
		return nil, fmt.Errorf("%w: order %s change already used", apperr.ErrStateConflict, order.ID)
	}
	order.ExecutionDate = req.ExecutionDate
	if req.StaffID != "" {
		order.StaffID = req.StaffID
	}
	if req.Note != "" {
		order.Note = req.Note
	}
	order.ChangeConsumed = true
	return order.Clone(), nil
}

func (d *Directory) list(match func(*domain.Order) bool) []*domain.Order {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list := make([]*domain.Order, 0)
	for _, order := range d.orders {
		if match(order) {
			list = append(list, order.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

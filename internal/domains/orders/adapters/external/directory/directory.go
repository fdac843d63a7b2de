package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	client "github.com/Apurer/petcare-booking/internal/clients/http/directory"
	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

var _ ports.Directory = (*Directory)(nil)

// Directory is the order registry of the remote backend.
type Directory struct {
	client *client.Client
}

func NewDirectory(c *client.Client) *Directory {
	return &Directory{client: c}
}

func (d *Directory) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	created, err := d.client.CreateOrder(ctx, toCreateRequest(d.client, order))
	if err != nil {
		return nil, err
	}
	return d.merge(created, order)
}

func (d *Directory) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	w, err := d.client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return fromWire(d.client, *w)
}

func (d *Directory) ListOrdersByAccount(ctx context.Context, accountID string) ([]*domain.Order, error) {
	return d.list(ctx, client.OrderQuery{AccountID: accountID})
}

// ListUnpaidCreatedBefore asks the backend to filter and re-checks locally.
func (d *Directory) ListUnpaidCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Order, error) {
	orders, err := d.list(ctx, client.OrderQuery{Status: string(domain.StatusUnpaid), CreatedBefore: cutoff})
	if err != nil {
		return nil, err
	}
	out := orders[:0]
	for _, o := range orders {
		if o.Status == domain.StatusUnpaid && !o.CreatedAt.After(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (d *Directory) UpdateOrderStatus(ctx context.Context, update ports.StatusUpdate) (*domain.Order, error) {
	w, err := d.client.UpdateOrder(ctx, update.OrderID, client.UpdateOrderRequest{
		Status:         string(update.Status),
		ExpectedStatus: string(update.ExpectedStatus),
		Note:           update.Note,
		Description:    update.Description,
		StaffID:        client.OptionalID(update.StaffID),
	})
	if err != nil {
		return nil, stateConflict(err)
	}
	return fromWire(d.client, *w)
}

func (d *Directory) RequestChangeEmployee(ctx context.Context, req ports.ChangeRequest) (*domain.Order, error) {
	w, err := d.client.RequestChange(ctx, client.ChangeRequest{
		OrderID:      req.OrderID,
		Note:         req.Note,
		ExcutionDate: d.client.FormatLocal(req.ExecutionDate),
		StaffID:      client.OptionalID(req.StaffID),
	})
	if err != nil {
		return nil, stateConflict(err)
	}
	return fromWire(d.client, *w)
}

func (d *Directory) list(ctx context.Context, q client.OrderQuery) ([]*domain.Order, error) {
	items, err := d.client.ListOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(items))
	for _, item := range items {
		o, err := fromWire(d.client, item)
		if err != nil {
			return nil, fmt.Errorf("decode order %s: %w", item.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// merge fills fields the backend left out of its create answer.
func (d *Directory) merge(w *client.Order, sent *domain.Order) (*domain.Order, error) {
	if w.Status == "" {
		w.Status = string(sent.Status)
	}
	if w.Type == "" {
		w.Type = ToWireType(sent.Type)
	}
	order, err := fromWire(d.client, *w)
	if err != nil {
		return nil, err
	}
	if len(order.Products) == 0 {
		order.Products = append([]domain.ProductLine(nil), sent.Products...)
	}
	if order.FinalAmount.IsZero() {
		order.FinalAmount = sent.FinalAmount
	}
	if order.PetID == "" {
		order.PetID = sent.PetID
	}
	if order.AccountID == "" {
		order.AccountID = sent.AccountID
	}
	if order.StaffID == "" {
		order.StaffID = sent.StaffID
	}
	if order.ExecutionDate.IsZero() {
		order.ExecutionDate = sent.ExecutionDate
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = sent.CreatedAt
	}
	return order, nil
}

// stateConflict reads a 409 on a transition as the order having moved on.
func stateConflict(err error) error {
	if errors.Is(err, apperr.ErrConflict) {
		return fmt.Errorf("%w: %s", apperr.ErrStateConflict, err.Error())
	}
	return err
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

func seedOrder(t *testing.T, dir *Directory, status domain.Status, created time.Time) *domain.Order {
	t.Helper()
	order, err := dir.CreateOrder(context.Background(), &domain.Order{
		PetID:       "p-1",
		AccountID:   "a-1",
		Products:    []domain.ProductLine{{ProductID: "svc", Quantity: 1, Price: decimal.NewFromInt(100)}},
		Status:      status,
		Type:        domain.TypeManagerRequest,
		FinalAmount: decimal.NewFromInt(100),
		CreatedAt:   created,
	})
	require.NoError(t, err)
	return order
}

func TestUpdateOrderStatus_CompareAndSet(t *testing.T) {
	dir := NewDirectory()
	ctx := context.Background()
	order := seedOrder(t, dir, domain.StatusUnpaid, time.Now())

	_, err := dir.UpdateOrderStatus(ctx, ports.StatusUpdate{OrderID: order.ID, ExpectedStatus: domain.StatusUnpaid, Status: domain.StatusCanceled})
	require.NoError(t, err)

	_, err = dir.UpdateOrderStatus(ctx, ports.StatusUpdate{OrderID: order.ID, ExpectedStatus: domain.StatusUnpaid, Status: domain.StatusPaid})
	require.ErrorIs(t, err, apperr.ErrStateConflict)

	_, err = dir.UpdateOrderStatus(ctx, ports.StatusUpdate{OrderID: order.ID, ExpectedStatus: domain.StatusCanceled, Status: domain.StatusPaid})
	require.ErrorIs(t, err, apperr.ErrStateConflict)

	stored, err := dir.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCanceled, stored.Status)
}

func TestRequestChangeEmployee_OnlyOnce(t *testing.T) {
	dir := NewDirectory()
	ctx := context.Background()
	order := seedOrder(t, dir, domain.StatusPaid, time.Now())
	when := time.Now().Add(48 * time.Hour)

	updated, err := dir.RequestChangeEmployee(ctx, ports.ChangeRequest{OrderID: order.ID, ExecutionDate: when, StaffID: "s-9"})
	require.NoError(t, err)
	require.True(t, updated.ChangeConsumed)
	require.Equal(t, "s-9", updated.StaffID)

	_, err = dir.RequestChangeEmployee(ctx, ports.ChangeRequest{OrderID: order.ID, ExecutionDate: when})
	require.ErrorIs(t, err, apperr.ErrStateConflict)
}

func TestListUnpaidCreatedBefore(t *testing.T) {
	dir := NewDirectory()
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	old := seedOrder(t, dir, domain.StatusUnpaid, now.Add(-40*time.Minute))
	seedOrder(t, dir, domain.StatusUnpaid, now.Add(-5*time.Minute))
	seedOrder(t, dir, domain.StatusPaid, now.Add(-40*time.Minute))

	list, err := dir.ListUnpaidCreatedBefore(context.Background(), now.Add(-domain.ExpiryWindow))
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, old.ID, list[0].ID)

	_, err = dir.GetOrder(context.Background(), "missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

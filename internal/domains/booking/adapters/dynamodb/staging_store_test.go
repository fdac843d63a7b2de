package dynamodb

import (
	"context"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// fakeDynamoDB is a tiny in-memory table keyed by session_id.
type fakeDynamoDB struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	err   error
}

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(key map[string]types.AttributeValue) string {
	return key[keyAttribute].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamoDB) GetItem(_ context.Context, in *dyn.GetItemInput, _ ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dyn.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamoDB) PutItem(_ context.Context, in *dyn.PutItemInput, _ ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.items[keyOf(in.Item)] = in.Item
	return &dyn.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) DeleteItem(_ context.Context, in *dyn.DeleteItemInput, _ ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, keyOf(in.Key))
	return &dyn.DeleteItemOutput{}, nil
}

func cartStaging(t *testing.T) *domain.Staging {
	t.Helper()
	selection := &domain.Selection{Kind: domain.SelectionCart}
	require.NoError(t, selection.AddItem(domain.LineItem{ProductID: "bath", Name: "Bath", SellingPrice: decimal.RequireFromString("100000.50")}))
	require.NoError(t, selection.AddItem(domain.LineItem{ProductID: "nail", SellingPrice: decimal.NewFromInt(50000)}))
	staging := &domain.Staging{
		SessionID:    "s-1",
		AccountID:    "acc-1",
		PendingPetID: "pet-9",
		UpdatedAt:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		BookingDraft: &domain.Draft{Date: "2026-03-03", Time: "09:30", StaffMode: domain.StaffModeManual, StaffID: "st-1", PendingOrderID: "o-7"},
	}
	staging.PutSelection(selection)
	return staging
}

func TestStagingStore_RoundTrip(t *testing.T) {
	client := newFakeDynamoDB()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	store := NewStagingStore(client, "booking-sessions", time.Hour)
	store.WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, cartStaging(t)))
	expires := client.items["s-1"]["expires_at"].(*types.AttributeValueMemberN).Value
	require.Equal(t, "1772449200", expires)

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	require.Equal(t, "acc-1", loaded.AccountID)
	require.Equal(t, "pet-9", loaded.PendingPetID)
	require.Equal(t, domain.SelectionCart, loaded.CurrentSelection.Kind)
	require.Len(t, loaded.CurrentSelection.Items, 2)
	require.True(t, loaded.FinalAmount.Equal(decimal.RequireFromString("150000.50")))
	require.Equal(t, "o-7", loaded.BookingDraft.PendingOrderID)
	require.Equal(t, domain.StaffModeManual, loaded.BookingDraft.StaffMode)

	require.NoError(t, store.Delete(ctx, "s-1"))
	_, err = store.Load(ctx, "s-1")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStagingStore_ExpiredItemIsGone(t *testing.T) {
	client := newFakeDynamoDB()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	store := NewStagingStore(client, "booking-sessions", time.Hour)
	store.WithClock(func() time.Time { return now })

	require.NoError(t, store.Save(context.Background(), cartStaging(t)))
	now = now.Add(2 * time.Hour)
	_, err := store.Load(context.Background(), "s-1")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStagingStore_ThrottlingIsTransient(t *testing.T) {
	client := newFakeDynamoDB()
	client.err = &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "slow down"}
	store := NewStagingStore(client, "booking-sessions", 0)

	_, err := store.Load(context.Background(), "s-1")
	require.ErrorIs(t, err, apperr.ErrTransientRemote)

	client.err = &smithy.GenericAPIError{Code: "ValidationException", Message: "bad key", Fault: smithy.FaultClient}
	err = store.Save(context.Background(), cartStaging(t))
	require.Error(t, err)
	require.NotErrorIs(t, err, apperr.ErrTransientRemote)
}

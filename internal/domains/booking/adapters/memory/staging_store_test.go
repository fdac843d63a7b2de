package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

func TestStagingStore_RoundTripIsolatesCopies(t *testing.T) {
	store := NewStagingStore()
	ctx := context.Background()
	selection, err := domain.NewSingleSelection(domain.LineItem{ProductID: "groom", SellingPrice: decimal.NewFromInt(80000)})
	require.NoError(t, err)

	staging := &domain.Staging{SessionID: "s-1", AccountID: "acc-1"}
	staging.PutSelection(selection)
	require.NoError(t, store.Save(ctx, staging))

	staging.PendingPetID = "mutated"
	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	require.Empty(t, loaded.PendingPetID)
	require.True(t, loaded.FinalAmount.Equal(decimal.NewFromInt(80000)))

	loaded.CurrentSelection.Items[0].ProductID = "changed"
	again, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	require.Equal(t, "groom", again.CurrentSelection.Items[0].ProductID)

	require.NoError(t, store.Delete(ctx, "s-1"))
	_, err = store.Load(ctx, "s-1")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

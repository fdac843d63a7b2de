package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/memory"
	"github.com/Apurer/petcare-booking/internal/domains/orders/application"
	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
)

func TestSweeper_ExpiresOnEachTick(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	directory := ordermemory.NewDirectory()
	directory.WithClock(clock)
	lifecycle := application.NewLifecycle(directory, application.WithClock(clock))

	created, err := lifecycle.CreateOrder(context.Background(), &domain.Order{
		PetID:       "p-1",
		AccountID:   "a-1",
		Products:    []domain.ProductLine{{ProductID: "bath", Quantity: 1, Price: decimal.NewFromInt(100000)}},
		Type:        domain.TypeManagerRequest,
		FinalAmount: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)

	ticks := make(chan time.Time)
	s := NewSweeper(lifecycle, WithInterval(time.Second))
	s.tick = func(time.Duration) (<-chan time.Time, func()) { return ticks, func() {} }

	now = now.Add(31 * time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	ticks <- now
	ticks <- now

	require.Eventually(t, func() bool {
		order, err := directory.GetOrder(context.Background(), created.ID)
		return err == nil && order.Status == domain.StatusCanceled
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

package workflows

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
)

type recordingExpirer struct {
	mu   sync.Mutex
	ids  []string
	done chan struct{}
}

func (r *recordingExpirer) ExpireOrder(_ context.Context, orderID string) (*ports.TransitionResult, error) {
	r.mu.Lock()
	r.ids = append(r.ids, orderID)
	r.mu.Unlock()
	r.done <- struct{}{}
	return &ports.TransitionResult{}, nil
}

func TestInlineExpiryScheduler_FiresOverdueOrder(t *testing.T) {
	expirer := &recordingExpirer{done: make(chan struct{}, 1)}
	s := NewInlineExpiryScheduler(nil)
	s.Attach(expirer)

	created := time.Now().Add(-domain.ExpiryWindow - time.Minute)
	require.NoError(t, s.ScheduleExpiry(context.Background(), "o-1", created))

	select {
	case <-expirer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
	require.Equal(t, []string{"o-1"}, expirer.ids)
	require.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 10*time.Millisecond)
}

func TestInlineExpiryScheduler_DedupesAndStops(t *testing.T) {
	s := NewInlineExpiryScheduler(nil)
	s.Attach(&recordingExpirer{done: make(chan struct{}, 1)})

	created := time.Now()
	require.NoError(t, s.ScheduleExpiry(context.Background(), "o-1", created))
	require.NoError(t, s.ScheduleExpiry(context.Background(), "o-1", created))
	require.Equal(t, 1, s.Pending())

	s.Stop()
	require.Zero(t, s.Pending())
}

func TestInlineExpiryScheduler_UnattachedIsNoop(t *testing.T) {
	s := NewInlineExpiryScheduler(nil)
	require.NoError(t, s.ScheduleExpiry(context.Background(), "o-1", time.Now()))
	require.Zero(t, s.Pending())
}

func TestExpiryWorkflowID(t *testing.T) {
	require.Equal(t, "order-expiry-42", ExpiryWorkflowID("42"))
}

package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/memory"
	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	staffmemory "github.com/Apurer/petcare-booking/internal/domains/staff/adapters/memory"
	staffapp "github.com/Apurer/petcare-booking/internal/domains/staff/application"
	staffdomain "github.com/Apurer/petcare-booking/internal/domains/staff/domain"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// countingDirectory counts change requests reaching the directory.
type countingDirectory struct {
	*ordermemory.Directory
	changeRequests int
}

func (c *countingDirectory) RequestChangeEmployee(ctx context.Context, req ports.ChangeRequest) (*domain.Order, error) {
	c.changeRequests++
	return c.Directory.RequestChangeEmployee(ctx, req)
}

type rescheduleFixture struct {
	*fixture
	counting   *countingDirectory
	reschedule *Reschedule
}

func newRescheduleFixture(t *testing.T) *rescheduleFixture {
	t.Helper()
	f := newFixture(t)
	staff := staffapp.NewService(staffmemory.NewDirectory(
		staffdomain.Member{ID: "st-1", FullName: "Lan Nguyen", Status: staffdomain.StatusActive},
		staffdomain.Member{ID: "st-2", FullName: "Minh Tran", Status: staffdomain.StatusInactive},
	))
	counting := &countingDirectory{Directory: f.directory}
	return &rescheduleFixture{
		fixture:  f,
		counting: counting,
		reschedule: NewReschedule(counting, staff,
			WithRescheduleClock(f.clock.Now),
			WithRescheduleEvents(f.events),
		),
	}
}

func (f *rescheduleFixture) createCustomerOrder(t *testing.T) *domain.Order {
	t.Helper()
	draft := newOrder("acc-1", 100000)
	draft.Type = domain.TypeCustomerRequest
	draft.StaffID = "st-1"
	order, err := f.lifecycle.CreateOrder(context.Background(), draft)
	require.NoError(t, err)
	return order
}

func TestChange_AtMostOnce(t *testing.T) {
	f := newRescheduleFixture(t)
	order := f.pay(t, f.create(t, "acc-1", 100000))
	newSlot := time.Date(2026, 3, 4, 14, 30, 0, 0, time.UTC)

	changed, err := f.reschedule.Change(context.Background(), ports.ChangeCommand{OrderID: order.ID, ExecutionDate: newSlot, Note: "later please"})
	require.NoError(t, err)
	require.True(t, changed.ChangeConsumed)
	require.Equal(t, newSlot, changed.ExecutionDate)
	require.Equal(t, domain.StatusPaid, changed.Status)
	require.Contains(t, f.events.names(), "orders.order.rescheduled")

	_, eligibility, err := f.reschedule.Eligibility(context.Background(), order.ID)
	require.NoError(t, err)
	require.False(t, eligibility.Eligible)
	require.Equal(t, domain.ReasonAlreadyUsed, eligibility.Reason)

	_, err = f.reschedule.Change(context.Background(), ports.ChangeCommand{OrderID: order.ID, ExecutionDate: newSlot.Add(time.Hour)})
	require.ErrorIs(t, err, apperr.ErrStateConflict)
	require.ErrorContains(t, err, domain.ReasonAlreadyUsed)
	require.Equal(t, 1, f.counting.changeRequests)
}

func TestChange_UnpaidIsRejectedLocally(t *testing.T) {
	f := newRescheduleFixture(t)
	order := f.create(t, "acc-1", 100000)

	_, err := f.reschedule.Change(context.Background(), ports.ChangeCommand{OrderID: order.ID, ExecutionDate: baseTime.Add(26 * time.Hour)})
	require.ErrorIs(t, err, apperr.ErrStateConflict)
	require.ErrorContains(t, err, domain.ReasonNotPaid)
	require.Zero(t, f.counting.changeRequests)
}

func TestChange_CustomerRequestNeedsActiveStaff(t *testing.T) {
	f := newRescheduleFixture(t)
	order := f.pay(t, f.createCustomerOrder(t))
	slot := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	_, err := f.reschedule.Change(context.Background(), ports.ChangeCommand{OrderID: order.ID, ExecutionDate: slot})
	require.ErrorIs(t, err, apperr.ErrValidation)
	fields, ok := apperr.Fields(err)
	require.True(t, ok)
	require.Equal(t, "is required", fields["staffId"])

	_, err = f.reschedule.Change(context.Background(), ports.ChangeCommand{OrderID: order.ID, ExecutionDate: slot, StaffID: "st-2"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	require.Zero(t, f.counting.changeRequests)

	changed, err := f.reschedule.Change(context.Background(), ports.ChangeCommand{OrderID: order.ID, ExecutionDate: slot, StaffID: "st-1"})
	require.NoError(t, err)
	require.Equal(t, "st-1", changed.StaffID)
}

func TestChange_SlotIsRevalidated(t *testing.T) {
	f := newRescheduleFixture(t)
	order := f.pay(t, f.create(t, "acc-1", 100000))

	cases := []time.Time{
		{},
		time.Date(2026, 3, 3, 9, 15, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 21, 0, 0, 0, time.UTC),
		baseTime.Add(-time.Hour),
	}
	for _, slot := range cases {
		_, err := f.reschedule.Change(context.Background(), ports.ChangeCommand{OrderID: order.ID, ExecutionDate: slot})
		require.ErrorIs(t, err, apperr.ErrValidation)
	}
	require.Zero(t, f.counting.changeRequests)
}

func TestEligibility_SameDayStillAllowed(t *testing.T) {
	f := newRescheduleFixture(t)
	draft := newOrder("acc-1", 100000)
	draft.ExecutionDate = baseTime.Add(time.Hour)
	created, err := f.lifecycle.CreateOrder(context.Background(), draft)
	require.NoError(t, err)
	order := f.pay(t, created)

	f.clock.Advance(3 * time.Hour)
	_, eligibility, err := f.reschedule.Eligibility(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, eligibility.Eligible)

	f.clock.Advance(24 * time.Hour)
	_, eligibility, err = f.reschedule.Eligibility(context.Background(), order.ID)
	require.NoError(t, err)
	require.False(t, eligibility.Eligible)
	require.Equal(t, domain.ReasonExecutionPast, eligibility.Reason)
}

func TestEligibility_DayBoundaryFollowsShopLocation(t *testing.T) {
	saigon, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	f := newRescheduleFixture(t)
	shop := NewReschedule(f.counting, nil, WithRescheduleClock(f.clock.Now), WithRescheduleLocation(saigon))

	draft := newOrder("acc-1", 100000)
	// 09:00 on March 3 in Saigon, stored in UTC as the directory returns it.
	draft.ExecutionDate = time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC)
	created, err := f.lifecycle.CreateOrder(context.Background(), draft)
	require.NoError(t, err)
	order := f.pay(t, created)

	// 17:00 the same Saigon day.
	f.clock.now = time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	_, eligibility, err := shop.Eligibility(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, eligibility.Eligible)

	// 03:00 on March 4 in Saigon, still March 3 in UTC.
	f.clock.now = time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC)
	_, eligibility, err = shop.Eligibility(context.Background(), order.ID)
	require.NoError(t, err)
	require.False(t, eligibility.Eligible)
	require.Equal(t, domain.ReasonExecutionPast, eligibility.Reason)
}

func TestChange_SlotHoursCheckedInShopLocation(t *testing.T) {
	saigon, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	f := newRescheduleFixture(t)
	shop := NewReschedule(f.counting, nil, WithRescheduleClock(f.clock.Now), WithRescheduleLocation(saigon))
	order := f.pay(t, f.create(t, "acc-1", 100000))

	// 14:30 UTC is 21:30 in Saigon, after closing.
	_, err = shop.Change(context.Background(), ports.ChangeCommand{OrderID: order.ID, ExecutionDate: time.Date(2026, 3, 4, 14, 30, 0, 0, time.UTC)})
	require.ErrorIs(t, err, apperr.ErrValidation)
	require.Zero(t, f.counting.changeRequests)

	changed, err := shop.Change(context.Background(), ports.ChangeCommand{OrderID: order.ID, ExecutionDate: time.Date(2026, 3, 4, 7, 30, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.True(t, changed.ExecutionDate.Equal(time.Date(2026, 3, 4, 14, 30, 0, 0, saigon)))
	require.Equal(t, 1, f.counting.changeRequests)
}

package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	bookingdomain "github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// Reschedule grants each paid order a single change of slot and staff.
type Reschedule struct {
	directory ports.Directory
	staff     ports.StaffChecker
	events    ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	loc       *time.Location
}

type RescheduleOption func(*Reschedule)

func WithRescheduleClock(now func() time.Time) RescheduleOption {
	return func(r *Reschedule) {
		if now != nil {
			r.now = now
		}
	}
}

func WithRescheduleEvents(p ports.EventPublisher) RescheduleOption {
	return func(r *Reschedule) { r.events = p }
}

// WithRescheduleLocation sets the shop time zone used to decide whether an
// appointment is still today and to check the requested slot's opening hours.
func WithRescheduleLocation(loc *time.Location) RescheduleOption {
	return func(r *Reschedule) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func WithRescheduleLogger(logger *slog.Logger) RescheduleOption {
	return func(r *Reschedule) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewReschedule(directory ports.Directory, staff ports.StaffChecker, opts ...RescheduleOption) *Reschedule {
	r := &Reschedule{
		directory: directory,
		staff:     staff,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Eligibility loads the order and evaluates its change window.
func (r *Reschedule) Eligibility(ctx context.Context, orderID string) (*domain.Order, domain.ChangeEligibility, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.ChangeEligibility{}, apperr.Validation("orderId", "is required")
	}
	order, err := r.directory.GetOrder(ctx, orderID)
	if err != nil {
		return nil, domain.ChangeEligibility{}, err
	}
	return order, order.ChangeEligibility(r.clock()), nil
}

// clock reads now in the shop location when one is configured.
func (r *Reschedule) clock() time.Time {
	now := r.now()
	if r.loc != nil {
		now = now.In(r.loc)
	}
	return now
}

// Change submits the one change request. Ineligible orders are rejected
// without contacting the directory.
func (r *Reschedule) Change(ctx context.Context, cmd ports.ChangeCommand) (*domain.Order, error) {
	order, eligibility, err := r.Eligibility(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, fmt.Errorf("%w: %s", apperr.ErrStateConflict, eligibility.Reason)
	}

	now := r.clock()
	execution := cmd.ExecutionDate
	if r.loc != nil {
		execution = execution.In(r.loc)
	}
	fields := apperr.FieldErrors{}
	if execution.IsZero() {
		fields.Add("executionDate", "is required")
	} else if err := bookingdomain.ValidateSlot(execution, now); err != nil {
		fields.Add("executionDate", err.Error())
	}
	staffID := strings.TrimSpace(cmd.StaffID)
	if eligibility.StaffRequired && staffID == "" {
		fields.Add("staffId", "is required")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}
	if staffID != "" {
		if err := r.staff.EnsureActive(ctx, staffID); err != nil {
			return nil, err
		}
	}

	updated, err := r.directory.RequestChangeEmployee(ctx, ports.ChangeRequest{
		OrderID:       order.ID,
		Note:          strings.TrimSpace(cmd.Note),
		ExecutionDate: cmd.ExecutionDate,
		StaffID:       staffID,
	})
	if err != nil {
		return nil, fmt.Errorf("request change: %w", err)
	}
	updated.ChangeConsumed = true

	if r.events != nil {
		event := domain.OrderRescheduled{
			BaseEvent:     domain.NewBase(updated, now),
			ExecutionDate: updated.ExecutionDate,
			StaffID:       updated.StaffID,
		}
		if err := r.events.Publish(ctx, event); err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish reschedule event",
				slog.String("order.id", updated.ID), slog.String("error", err.Error()))
		}
	}
	return updated, nil
}

var _ ports.Rescheduler = (*Reschedule)(nil)

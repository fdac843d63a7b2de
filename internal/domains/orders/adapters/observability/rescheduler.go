package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
)

// Rescheduler decorates the one-time change flow.
type Rescheduler struct {
	inner   ports.Rescheduler
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics lifecycleMetrics
}

func NewRescheduler(inner ports.Rescheduler, opts ...Option) *Rescheduler {
	o := buildOptions(opts)
	return &Rescheduler{inner: inner, tracer: o.tracer, logger: o.logger, metrics: newLifecycleMetrics(o.meter)}
}

func (r *Rescheduler) Eligibility(ctx context.Context, orderID string) (*domain.Order, domain.ChangeEligibility, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRescheduler.Eligibility", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	order, eligibility, err := r.inner.Eligibility(ctx, orderID)
	if err != nil {
		return nil, eligibility, handleError(ctx, r.logger, span, err, "failed to evaluate change eligibility", slog.String("order.id", orderID))
	}
	span.SetAttributes(attribute.Bool("change.eligible", eligibility.Eligible), attribute.String("change.reason", eligibility.Reason))
	return order, eligibility, nil
}

func (r *Rescheduler) Change(ctx context.Context, cmd ports.ChangeCommand) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRescheduler.Change",
		trace.WithAttributes(attribute.String("order.id", cmd.OrderID), attribute.String("staff.id", cmd.StaffID)))
	defer span.End()

	order, err := r.inner.Change(ctx, cmd)
	if err != nil {
		return nil, handleError(ctx, r.logger, span, err, "failed to change order", slog.String("order.id", cmd.OrderID))
	}
	r.metrics.record(ctx, r.metrics.rescheduled, order.Type)
	r.logger.LogAttrs(ctx, slog.LevelInfo, "order rescheduled",
		slog.String("order.id", order.ID), slog.Time("order.execution_date", order.ExecutionDate))
	return order, nil
}

var _ ports.Rescheduler = (*Rescheduler)(nil)

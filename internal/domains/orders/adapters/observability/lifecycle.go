package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/observability"

// Lifecycle decorates the order lifecycle with tracing, logging, and metrics.
type Lifecycle struct {
	inner   ports.Lifecycle
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics lifecycleMetrics
}

type Option func(*options)

type options struct {
	tracer trace.Tracer
	logger *slog.Logger
	meter  metric.Meter
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(o *options) { o.tracer = tr }
}

// WithMeter injects the meter used to create lifecycle instruments.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.tracer == nil {
		o.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// NewLifecycle wires a decorator around the core lifecycle.
func NewLifecycle(inner ports.Lifecycle, opts ...Option) *Lifecycle {
	o := buildOptions(opts)
	return &Lifecycle{inner: inner, tracer: o.tracer, logger: o.logger, metrics: newLifecycleMetrics(o.meter)}
}

func (l *Lifecycle) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.CreateOrder")
	defer span.End()
	if order != nil {
		span.SetAttributes(attribute.String("account.id", order.AccountID), attribute.String("order.type", string(order.Type)))
	}

	created, err := l.inner.CreateOrder(ctx, order)
	if err != nil {
		return nil, handleError(ctx, l.logger, span, err, "failed to create order")
	}
	span.SetAttributes(attribute.String("order.id", created.ID))
	l.metrics.record(ctx, l.metrics.created, created.Type)
	l.logger.LogAttrs(ctx, slog.LevelInfo, "order created",
		slog.String("order.id", created.ID), slog.String("order.amount", created.FinalAmount.String()))
	return created, nil
}

func (l *Lifecycle) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.GetOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	order, err := l.inner.GetOrder(ctx, orderID)
	if err != nil {
		return nil, handleError(ctx, l.logger, span, err, "failed to get order", slog.String("order.id", orderID))
	}
	return order, nil
}

func (l *Lifecycle) ListOrders(ctx context.Context, query ports.ListQuery) ([]*domain.Order, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.ListOrders",
		trace.WithAttributes(attribute.String("account.id", query.AccountID), attribute.String("order.status", string(query.Status))))
	defer span.End()

	orders, err := l.inner.ListOrders(ctx, query)
	if err != nil {
		return nil, handleError(ctx, l.logger, span, err, "failed to list orders", slog.String("account.id", query.AccountID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (l *Lifecycle) Sweep(ctx context.Context) (*ports.SweepResult, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.Sweep")
	defer span.End()

	result, err := l.inner.Sweep(ctx)
	if err != nil {
		return nil, handleError(ctx, l.logger, span, err, "order sweep failed")
	}
	l.recordSweep(ctx, span, result)
	return result, nil
}

func (l *Lifecycle) SweepAccount(ctx context.Context, accountID string) (*ports.SweepResult, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.SweepAccount", trace.WithAttributes(attribute.String("account.id", accountID)))
	defer span.End()

	result, err := l.inner.SweepAccount(ctx, accountID)
	if err != nil {
		return nil, handleError(ctx, l.logger, span, err, "account sweep failed", slog.String("account.id", accountID))
	}
	l.recordSweep(ctx, span, result)
	return result, nil
}

func (l *Lifecycle) ExpireOrder(ctx context.Context, orderID string) (*ports.TransitionResult, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.ExpireOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	result, err := l.inner.ExpireOrder(ctx, orderID)
	if err != nil {
		return nil, handleError(ctx, l.logger, span, err, "failed to expire order", slog.String("order.id", orderID))
	}
	span.SetAttributes(attribute.Bool("order.applied", result.Applied))
	if result.Applied {
		l.metrics.record(ctx, l.metrics.expired, result.Order.Type)
	}
	return result, nil
}

func (l *Lifecycle) Cancel(ctx context.Context, cmd ports.CancelCommand) (*ports.TransitionResult, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.Cancel", trace.WithAttributes(attribute.String("order.id", cmd.OrderID)))
	defer span.End()

	result, err := l.inner.Cancel(ctx, cmd)
	if err != nil {
		return nil, handleError(ctx, l.logger, span, err, "failed to cancel order", slog.String("order.id", cmd.OrderID))
	}
	return l.applied(ctx, span, result, l.metrics.canceled, "order canceled"), nil
}

func (l *Lifecycle) ConfirmPayment(ctx context.Context, confirmation ports.PaymentConfirmation) (*ports.TransitionResult, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.ConfirmPayment",
		trace.WithAttributes(attribute.String("order.id", confirmation.OrderID), attribute.String("payment.amount", confirmation.Amount.String())))
	defer span.End()

	result, err := l.inner.ConfirmPayment(ctx, confirmation)
	if err != nil {
		return nil, handleError(ctx, l.logger, span, err, "failed to confirm payment", slog.String("order.id", confirmation.OrderID))
	}
	return l.applied(ctx, span, result, l.metrics.paid, "order paid"), nil
}

func (l *Lifecycle) Complete(ctx context.Context, orderID string) (*ports.TransitionResult, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.Complete", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	result, err := l.inner.Complete(ctx, orderID)
	if err != nil {
		return nil, handleError(ctx, l.logger, span, err, "failed to complete order", slog.String("order.id", orderID))
	}
	return l.applied(ctx, span, result, l.metrics.completed, "order completed"), nil
}

func (l *Lifecycle) applied(ctx context.Context, span trace.Span, result *ports.TransitionResult, counter metric.Int64Counter, msg string) *ports.TransitionResult {
	span.SetAttributes(attribute.Bool("order.applied", result.Applied))
	if !result.Applied || result.Order == nil {
		return result
	}
	l.metrics.record(ctx, counter, result.Order.Type)
	l.logger.LogAttrs(ctx, slog.LevelInfo, msg,
		slog.String("order.id", result.Order.ID), slog.String("order.status", string(result.Order.Status)))
	return result
}

func (l *Lifecycle) recordSweep(ctx context.Context, span trace.Span, result *ports.SweepResult) {
	span.SetAttributes(
		attribute.Int("sweep.expired", len(result.Expired)),
		attribute.Int("sweep.skipped", result.Skipped),
		attribute.Int("sweep.failed", len(result.Failed)),
	)
	if l.metrics.expired != nil && len(result.Expired) > 0 {
		l.metrics.expired.Add(ctx, int64(len(result.Expired)))
	}
	if len(result.Expired) > 0 || len(result.Failed) > 0 {
		l.logger.LogAttrs(ctx, slog.LevelInfo, "order sweep finished",
			slog.Int("expired", len(result.Expired)), slog.Int("skipped", result.Skipped), slog.Int("failed", len(result.Failed)))
	}
}

func handleError(ctx context.Context, logger *slog.Logger, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type lifecycleMetrics struct {
	created     metric.Int64Counter
	paid        metric.Int64Counter
	canceled    metric.Int64Counter
	expired     metric.Int64Counter
	completed   metric.Int64Counter
	rescheduled metric.Int64Counter
}

func newLifecycleMetrics(m metric.Meter) lifecycleMetrics {
	if m == nil {
		return lifecycleMetrics{}
	}
	created, _ := m.Int64Counter("orders.created", metric.WithDescription("Number of orders registered"))
	paid, _ := m.Int64Counter("orders.paid", metric.WithDescription("Number of deposits confirmed"))
	canceled, _ := m.Int64Counter("orders.canceled", metric.WithDescription("Number of customer cancellations"))
	expired, _ := m.Int64Counter("orders.expired", metric.WithDescription("Number of unpaid orders auto-canceled"))
	completed, _ := m.Int64Counter("orders.completed", metric.WithDescription("Number of fulfilled orders"))
	rescheduled, _ := m.Int64Counter("orders.rescheduled", metric.WithDescription("Number of one-time changes applied"))
	return lifecycleMetrics{created: created, paid: paid, canceled: canceled, expired: expired, completed: completed, rescheduled: rescheduled}
}

func (m lifecycleMetrics) record(ctx context.Context, counter metric.Int64Counter, orderType domain.Type) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("order.type", string(orderType))))
}

var _ ports.Lifecycle = (*Lifecycle)(nil)

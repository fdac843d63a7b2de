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

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	orderports "github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	petdomain "github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	petports "github.com/Apurer/petcare-booking/internal/domains/pets/ports"
	staffdomain "github.com/Apurer/petcare-booking/internal/domains/staff/domain"
)

const tracerName = "github.com/Apurer/petcare-booking/internal/domains/booking/adapters/observability/service"

// Service decorates the booking flow with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create booking instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Begin(ctx context.Context, input ports.BeginInput) (*domain.Staging, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Begin", trace.WithAttributes(attribute.String("account.id", input.AccountID)))
	defer span.End()

	staging, err := s.inner.Begin(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to begin booking session", slog.String("account.id", input.AccountID))
	}
	span.SetAttributes(attribute.String("session.id", staging.SessionID))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "booking session started",
		slog.String("session.id", staging.SessionID), slog.String("account.id", staging.AccountID))
	return staging, nil
}

func (s *Service) Session(ctx context.Context, sessionID string) (*domain.Staging, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Session", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	staging, err := s.inner.Session(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load booking session", slog.String("session.id", sessionID))
	}
	return staging, nil
}

func (s *Service) PutSelection(ctx context.Context, sessionID string, input ports.SelectionInput) (*domain.Staging, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.PutSelection",
		trace.WithAttributes(attribute.String("session.id", sessionID), attribute.String("product.id", input.ProductID)))
	defer span.End()

	staging, err := s.inner.PutSelection(ctx, sessionID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to stage selection", slog.String("session.id", sessionID))
	}
	span.SetAttributes(attribute.String("staging.final_amount", staging.FinalAmount.String()))
	return staging, nil
}

func (s *Service) AddCartItem(ctx context.Context, sessionID string, input ports.SelectionInput) (*domain.Staging, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.AddCartItem",
		trace.WithAttributes(attribute.String("session.id", sessionID), attribute.String("product.id", input.ProductID)))
	defer span.End()

	staging, err := s.inner.AddCartItem(ctx, sessionID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add cart item", slog.String("session.id", sessionID))
	}
	span.SetAttributes(attribute.String("staging.final_amount", staging.FinalAmount.String()))
	return staging, nil
}

func (s *Service) RemoveCartItem(ctx context.Context, sessionID, productID string) (*domain.Staging, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.RemoveCartItem",
		trace.WithAttributes(attribute.String("session.id", sessionID), attribute.String("product.id", productID)))
	defer span.End()

	staging, err := s.inner.RemoveCartItem(ctx, sessionID, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove cart item", slog.String("session.id", sessionID))
	}
	return staging, nil
}

func (s *Service) Abandon(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "BookingService.Abandon", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	if err := s.inner.Abandon(ctx, sessionID); err != nil {
		return s.handleError(ctx, span, err, "failed to abandon booking session", slog.String("session.id", sessionID))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "booking session abandoned", slog.String("session.id", sessionID))
	return nil
}

func (s *Service) ResolvePet(ctx context.Context, sessionID string, input ports.PetInput) (*petports.Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ResolvePet", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	resolution, err := s.inner.ResolvePet(ctx, sessionID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve pet", slog.String("session.id", sessionID))
	}
	span.SetAttributes(attribute.String("pet.id", resolution.Pet.ID), attribute.Bool("pet.created", resolution.Created))
	return resolution, nil
}

func (s *Service) Submit(ctx context.Context, sessionID string, input ports.SubmitInput) (*ports.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Submit",
		trace.WithAttributes(attribute.String("session.id", sessionID), attribute.String("booking.staff_mode", string(input.StaffMode))))
	defer span.End()

	result, err := s.inner.Submit(ctx, sessionID, input)
	if err != nil {
		s.metrics.recordSubmission(ctx, "failed")
		return nil, s.handleError(ctx, span, err, "failed to submit booking", slog.String("session.id", sessionID))
	}
	outcome := "created"
	if result.Reused {
		outcome = "retried"
	}
	s.metrics.recordSubmission(ctx, outcome)
	span.SetAttributes(attribute.String("order.id", result.Order.ID), attribute.Bool("order.reused", result.Reused))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "booking submitted",
		slog.String("session.id", sessionID), slog.String("order.id", result.Order.ID), slog.Bool("order.reused", result.Reused))
	return result, nil
}

func (s *Service) ConfirmPayment(ctx context.Context, callback ports.PaymentCallback) (*orderports.TransitionResult, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ConfirmPayment",
		trace.WithAttributes(attribute.String("session.id", callback.SessionID), attribute.String("order.id", callback.OrderID)))
	defer span.End()

	result, err := s.inner.ConfirmPayment(ctx, callback)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to confirm payment", slog.String("order.id", callback.OrderID))
	}
	span.SetAttributes(attribute.Bool("order.applied", result.Applied))
	return result, nil
}

func (s *Service) Slots(ctx context.Context, date string) ([]domain.Slot, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Slots", trace.WithAttributes(attribute.String("slots.date", date)))
	defer span.End()

	slots, err := s.inner.Slots(ctx, date)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to generate slots", slog.String("slots.date", date))
	}
	span.SetAttributes(attribute.Int("slots.count", len(slots)))
	return slots, nil
}

func (s *Service) PetTypes(ctx context.Context) ([]petdomain.PetType, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.PetTypes")
	defer span.End()

	types, err := s.inner.PetTypes(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list pet types")
	}
	return types, nil
}

func (s *Service) ActiveStaff(ctx context.Context) ([]staffdomain.Member, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ActiveStaff")
	defer span.End()

	members, err := s.inner.ActiveStaff(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list staff")
	}
	span.SetAttributes(attribute.Int("staff.count", len(members)))
	return members, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	submissions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submissions, _ := m.Int64Counter("booking.submissions", metric.WithDescription("Number of booking submissions by outcome"))
	return serviceMetrics{submissions: submissions}
}

func (m serviceMetrics) recordSubmission(ctx context.Context, outcome string) {
	if m.submissions == nil {
		return
	}
	m.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("booking.outcome", outcome)))
}

var _ ports.Service = (*Service)(nil)

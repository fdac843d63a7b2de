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

	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	"github.com/Apurer/petcare-booking/internal/domains/pets/ports"
)

const tracerName = "github.com/Apurer/petcare-booking/internal/domains/pets/adapters/observability/service"

// Service decorates the pets service with tracing, logging, and metrics.
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

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
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

func (s *Service) PetTypes(ctx context.Context) ([]domain.PetType, error) {
	ctx, span := s.tracer.Start(ctx, "PetsService.PetTypes")
	defer span.End()

	types, err := s.inner.PetTypes(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list pet types")
	}
	span.SetAttributes(attribute.Int("pet_types.count", len(types)))
	return types, nil
}

func (s *Service) Resolve(ctx context.Context, input ports.ResolveInput) (*ports.Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "PetsService.Resolve",
		trace.WithAttributes(attribute.String("account.id", input.OwnerID), attribute.String("pet.type_id", input.TypeID)))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "resolving pet", slog.String("account.id", input.OwnerID), slog.String("pet.name", input.Name))
	result, err := s.inner.Resolve(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve pet", slog.String("account.id", input.OwnerID))
	}
	span.SetAttributes(attribute.String("pet.id", result.Pet.ID), attribute.Bool("pet.created", result.Created))
	if result.Created {
		s.metrics.recordCreated(ctx, result.Pet.TypeID)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "pet resolved",
		slog.String("pet.id", result.Pet.ID), slog.Bool("pet.created", result.Created))
	return result, nil
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
	petsCreated metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	petsCreated, _ := m.Int64Counter("pets.service.created", metric.WithDescription("Number of pets registered during booking"))
	return serviceMetrics{petsCreated: petsCreated}
}

func (m serviceMetrics) recordCreated(ctx context.Context, typeID string) {
	if m.petsCreated == nil {
		return
	}
	m.petsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("pet.type_id", typeID)))
}

var _ ports.Service = (*Service)(nil)

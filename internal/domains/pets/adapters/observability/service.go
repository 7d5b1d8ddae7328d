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

	pettypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
	principals "github.com/Apurer/petguard-api/internal/domains/principals/domain"
	"github.com/Apurer/petguard-api/internal/shared/faults"
)

const tracerName = "github.com/Apurer/petguard-api/internal/domains/pets/adapters/observability/service"

// Service decorates a pets application port with tracing, logging, and metrics.
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

// CreatePet persists a new pet aggregate with instrumentation.
func (s *Service) CreatePet(ctx context.Context, input pettypes.CreatePetInput) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.CreatePet",
		attribute.Int64("account.id", callerID(input.Caller)),
		attribute.Bool("pet.idempotent", input.IdempotencyKey != ""),
		attribute.Bool("pet.photo", input.Photo != nil || input.StoredPhoto != nil),
	)
	defer span.End()

	s.logInfo(ctx, "creating pet", slog.Int64("account.id", callerID(input.Caller)))
	result, err := s.inner.CreatePet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "CreatePet", err, "failed to create pet")
	}
	if result != nil && result.Entity != nil {
		span.SetAttributes(attribute.Int64("pet.id", result.Entity.ID))
		s.metrics.recordCreated(ctx, result.Entity)
		s.logInfo(ctx, "pet created", slog.Int64("pet.id", result.Entity.ID), slog.String("kind", string(result.Entity.Kind)))
	}
	return result, nil
}

// UpdatePet merges a partial payload into an existing pet.
func (s *Service) UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdatePet",
		attribute.Int64("pet.id", input.ID),
		attribute.Int64("account.id", callerID(input.Caller)),
	)
	defer span.End()

	s.logInfo(ctx, "updating pet", slog.Int64("pet.id", input.ID))
	result, err := s.inner.UpdatePet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "UpdatePet", err, "failed to update pet", slog.Int64("pet.id", input.ID))
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordUpdated(ctx, result.Entity)
		s.logInfo(ctx, "pet updated", slog.Int64("pet.id", result.Entity.ID), slog.Bool("adopted", result.Entity.IsAdopted))
	}
	return result, nil
}

// DeletePet removes a pet and its dependents.
func (s *Service) DeletePet(ctx context.Context, input pettypes.DeletePetInput) (*ports.DeleteResult, error) {
	ctx, span := s.startSpan(ctx, "Service.DeletePet",
		attribute.Int64("pet.id", input.ID),
		attribute.Int64("account.id", callerID(input.Caller)),
	)
	defer span.End()

	s.logInfo(ctx, "deleting pet", slog.Int64("pet.id", input.ID))
	result, err := s.inner.DeletePet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "DeletePet", err, "failed to delete pet", slog.Int64("pet.id", input.ID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "pet deleted", slog.Int64("pet.id", input.ID))
	return result, nil
}

// FetchPet loads a single pet within the scope of an identity.
func (s *Service) FetchPet(ctx context.Context, input pettypes.FetchPetInput) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.FetchPet", attribute.Int64("pet.id", input.PetID))
	defer span.End()

	s.logInfo(ctx, "fetching pet", slog.Int64("pet.id", input.PetID), slog.String("identity", input.Identity))
	result, err := s.inner.FetchPet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "FetchPet", err, "failed to fetch pet", slog.Int64("pet.id", input.PetID))
	}
	return result, nil
}

// ListPets lists adoptable pets or the pets of an identity.
func (s *Service) ListPets(ctx context.Context, input pettypes.ListPetsInput) ([]*pettypes.PetProjection, error) {
	attrs := []attribute.KeyValue{
		attribute.Bool("pet.list.adoption", input.IsAdoption),
		attribute.Int("pet.list.skip", input.Skip),
		attribute.Int("pet.list.first", input.First),
	}
	if input.Kind != "" {
		attrs = append(attrs, attribute.String("pet.list.kind", input.Kind))
	}
	ctx, span := s.startSpan(ctx, "Service.ListPets", attrs...)
	defer span.End()

	s.logInfo(ctx, "listing pets", slog.Bool("adoption", input.IsAdoption), slog.String("search", input.Search))
	result, err := s.inner.ListPets(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "ListPets", err, "failed to list pets")
	}
	span.SetAttributes(attribute.Int("pet.result.count", len(result)))
	s.logInfo(ctx, "listed pets", slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleError records err on the span. Faults are the caller's mistake and log at warn level
// with their kind; anything else is an internal error.
func (s *Service) handleError(ctx context.Context, span trace.Span, operation string, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	if kind := faults.KindOf(err); kind != "" {
		span.SetAttributes(attribute.String("fault.kind", string(kind)))
		span.SetStatus(codes.Error, string(kind))
		s.metrics.recordRejected(ctx, operation, kind)
		attrs = append(attrs, slog.String("fault.kind", string(kind)))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func callerID(caller *principals.Account) int64 {
	if caller == nil {
		return 0
	}
	return caller.ID
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	petsCreated  metric.Int64Counter
	petsUpdated  metric.Int64Counter
	petsDeleted  metric.Int64Counter
	petsRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	petsCreated, _ := m.Int64Counter("pets.service.created", metric.WithDescription("Number of pets created"))
	petsUpdated, _ := m.Int64Counter("pets.service.updated", metric.WithDescription("Number of pets updated"))
	petsDeleted, _ := m.Int64Counter("pets.service.deleted", metric.WithDescription("Number of pets deleted"))
	petsRejected, _ := m.Int64Counter("pets.service.rejected", metric.WithDescription("Number of requests rejected with a fault"))
	return serviceMetrics{
		petsCreated:  petsCreated,
		petsUpdated:  petsUpdated,
		petsDeleted:  petsDeleted,
		petsRejected: petsRejected,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, pet *domain.Pet) {
	addCounter(ctx, m.petsCreated, 1,
		attribute.String("pet.kind", string(pet.Kind)),
		attribute.String("pet.custody", custodyLabel(pet.Custody)),
	)
}

func (m serviceMetrics) recordUpdated(ctx context.Context, pet *domain.Pet) {
	addCounter(ctx, m.petsUpdated, 1, attribute.Bool("pet.adopted", pet.IsAdopted))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.petsDeleted, 1)
}

func (m serviceMetrics) recordRejected(ctx context.Context, operation string, kind faults.Kind) {
	addCounter(ctx, m.petsRejected, 1,
		attribute.String("operation", operation),
		attribute.String("fault.kind", string(kind)),
	)
}

func custodyLabel(c domain.Custody) string {
	if c.Adoptable() {
		return "steward"
	}
	return "owner"
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)

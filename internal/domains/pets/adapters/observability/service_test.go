package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/petguard-api/internal/domains/pets/adapters/observability"
	pettypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
	principals "github.com/Apurer/petguard-api/internal/domains/principals/domain"
	"github.com/Apurer/petguard-api/internal/shared/faults"
)

type stubService struct {
	pet *domain.Pet
	err error
}

func (s stubService) project() (*pettypes.PetProjection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &pettypes.PetProjection{Entity: s.pet}, nil
}

func (s stubService) CreatePet(context.Context, pettypes.CreatePetInput) (*pettypes.PetProjection, error) {
	return s.project()
}

func (s stubService) UpdatePet(context.Context, pettypes.UpdatePetInput) (*pettypes.PetProjection, error) {
	return s.project()
}

func (s stubService) DeletePet(context.Context, pettypes.DeletePetInput) (*ports.DeleteResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ports.DeleteResult{Success: true}, nil
}

func (s stubService) FetchPet(context.Context, pettypes.FetchPetInput) (*pettypes.PetProjection, error) {
	return s.project()
}

func (s stubService) ListPets(context.Context, pettypes.ListPetsInput) ([]*pettypes.PetProjection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*pettypes.PetProjection{{Entity: s.pet}, {Entity: s.pet}}, nil
}

type instruments struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func decorate(t *testing.T, inner ports.Service) (ports.Service, instruments) {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logs := &bytes.Buffer{}
	svc := observability.New(inner,
		observability.WithTracer(tp.Tracer("test")),
		observability.WithMeter(mp.Meter("test")),
		observability.WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
	)
	return svc, instruments{spans: spans, reader: reader, logs: logs}
}

func (i instruments) counter(t *testing.T, name string) (int64, []attribute.Set) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, i.reader.Collect(context.Background(), &rm))
	var total int64
	var sets []attribute.Set
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
				sets = append(sets, dp.Attributes)
			}
		}
	}
	return total, sets
}

func TestCreatePet_RecordsSpanAndCounter(t *testing.T) {
	owner := int64(5)
	pet := &domain.Pet{ID: 11, Kind: domain.KindDog, Custody: domain.Custody{OwnerID: &owner}}
	svc, inst := decorate(t, stubService{pet: pet})

	_, err := svc.CreatePet(context.Background(), pettypes.CreatePetInput{Caller: &principals.Account{ID: 3}, IdempotencyKey: "k"})
	require.NoError(t, err)

	ended := inst.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "Service.CreatePet", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.Int64("pet.id", 11))
	assert.Contains(t, ended[0].Attributes(), attribute.Bool("pet.idempotent", true))

	total, sets := inst.counter(t, "pets.service.created")
	assert.Equal(t, int64(1), total)
	require.Len(t, sets, 1)
	custody, ok := sets[0].Value("pet.custody")
	require.True(t, ok)
	assert.Equal(t, "owner", custody.AsString())
}

func TestFaults_AreRejectionsNotInternalErrors(t *testing.T) {
	svc, inst := decorate(t, stubService{err: faults.NotFound("pet", 9)})

	_, err := svc.FetchPet(context.Background(), pettypes.FetchPetInput{PetID: 9})
	require.ErrorIs(t, err, faults.ErrNotFound)

	ended := inst.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("fault.kind", string(faults.KindNotFound)))
	assert.Empty(t, ended[0].Events())

	total, _ := inst.counter(t, "pets.service.rejected")
	assert.Equal(t, int64(1), total)
	assert.Contains(t, inst.logs.String(), `"level":"WARN"`)
}

func TestInternalErrors_AreRecordedOnSpan(t *testing.T) {
	svc, inst := decorate(t, stubService{err: errors.New("db down")})

	_, err := svc.ListPets(context.Background(), pettypes.ListPetsInput{IsAdoption: true})
	require.EqualError(t, err, "db down")

	ended := inst.spans.Ended()
	require.Len(t, ended, 1)
	require.NotEmpty(t, ended[0].Events())
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
	assert.Contains(t, inst.logs.String(), `"level":"ERROR"`)
}

func TestListAndDelete_PassThrough(t *testing.T) {
	svc, inst := decorate(t, stubService{pet: &domain.Pet{ID: 1}})

	list, err := svc.ListPets(context.Background(), pettypes.ListPetsInput{IsAdoption: true, Kind: "CAT"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	res, err := svc.DeletePet(context.Background(), pettypes.DeletePetInput{ID: 1})
	require.NoError(t, err)
	assert.True(t, res.Success)

	ended := inst.spans.Ended()
	require.Len(t, ended, 2)
	assert.Contains(t, ended[0].Attributes(), attribute.Int("pet.result.count", 2))
	total, _ := inst.counter(t, "pets.service.deleted")
	assert.Equal(t, int64(1), total)
}

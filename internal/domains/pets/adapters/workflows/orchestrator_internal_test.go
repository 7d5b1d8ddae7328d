package workflows

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	petmemory "github.com/Apurer/petguard-api/internal/domains/pets/adapters/memory"
	petsapplication "github.com/Apurer/petguard-api/internal/domains/pets/application"
	petstypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	principalmemory "github.com/Apurer/petguard-api/internal/domains/principals/adapters/memory"
	principalapp "github.com/Apurer/petguard-api/internal/domains/principals/application"
	principals "github.com/Apurer/petguard-api/internal/domains/principals/domain"
	principalports "github.com/Apurer/petguard-api/internal/domains/principals/ports"
	"github.com/Apurer/petguard-api/internal/platform/temporal/failures"
	petworkflows "github.com/Apurer/petguard-api/internal/platform/temporal/workflows/pets"
	"github.com/Apurer/petguard-api/internal/shared/faults"
)

func ptr[T any](v T) *T { return &v }

func TestBuildPetCreationWorkflowID_IdempotencyKeyIsScopedPerAccount(t *testing.T) {
	ana := petstypes.CreatePetInput{Caller: &principals.Account{ID: 1}, IdempotencyKey: "abc"}
	bia := petstypes.CreatePetInput{Caller: &principals.Account{ID: 2}, IdempotencyKey: "abc"}

	first := buildPetCreationWorkflowID(ana)
	again := buildPetCreationWorkflowID(ana)
	other := buildPetCreationWorkflowID(bia)

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
	assert.True(t, strings.HasPrefix(first, "pet-creation-idem-"))
	assert.Len(t, strings.TrimPrefix(first, "pet-creation-idem-"), 16)
}

func TestBuildPetCreationWorkflowID_WithoutKeyIsUnique(t *testing.T) {
	input := petstypes.CreatePetInput{Caller: &principals.Account{ID: 7}}
	first := buildPetCreationWorkflowID(input)
	second := buildPetCreationWorkflowID(input)
	assert.True(t, strings.HasPrefix(first, "pet-creation-7-"))
	assert.NotEqual(t, first, second)
}

func TestWorkflowTraceID(t *testing.T) {
	assert.Empty(t, workflowTraceID(context.Background()))

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "create")
	defer span.End()
	assert.Equal(t, span.SpanContext().TraceID().String(), workflowTraceID(ctx))
}

func TestTemporalPetWorkflows_ReturnsWorkflowResult(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	input := petstypes.CreatePetInput{Caller: &principals.Account{ID: 3}, IdempotencyKey: "k-1"}

	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
		return opts.TaskQueue == petworkflows.PetCreationTaskQueue && strings.HasPrefix(opts.ID, "pet-creation-idem-")
	}), petworkflows.PetCreationWorkflowName, mock.Anything).Return(run, nil)
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(1).(*petstypes.PetProjection)
		out.Entity = &domain.Pet{ID: 42, Name: "Rex"}
	}).Return(nil)

	got, err := NewTemporalPetWorkflows(c).CreatePet(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Entity.ID)
	c.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestTemporalPetWorkflows_DecodesFaults(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(run, nil)
	run.On("Get", mock.Anything, mock.Anything).Return(failures.Encode(faults.RequiredFieldEmpty("name")))

	_, err := NewTemporalPetWorkflows(c).CreatePet(context.Background(), petstypes.CreatePetInput{Caller: &principals.Account{ID: 3}})
	require.ErrorIs(t, err, faults.ErrRequiredFieldEmpty)
	fault, ok := faults.As(err)
	require.True(t, ok)
	assert.Equal(t, "Field name cannot be empty.", fault.Message)
}

func TestTemporalPetWorkflows_AlreadyStartedJoinsExistingRun(t *testing.T) {
	c := &mocks.Client{}
	existing := &mocks.WorkflowRun{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "req-1", "run-1"))
	c.On("GetWorkflow", mock.Anything, mock.AnythingOfType("string"), "run-1").Return(existing)
	existing.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*petstypes.PetProjection).Entity = &domain.Pet{ID: 9}
	}).Return(nil)

	got, err := NewTemporalPetWorkflows(c).CreatePet(context.Background(), petstypes.CreatePetInput{
		Caller:         &principals.Account{ID: 3},
		IdempotencyKey: "k-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.Entity.ID)
}

func TestTemporalPetWorkflows_GuardsBeforeStarting(t *testing.T) {
	var unconfigured *TemporalPetWorkflows
	_, err := unconfigured.CreatePet(context.Background(), petstypes.CreatePetInput{})
	require.Error(t, err)

	c := &mocks.Client{}
	_, err = NewTemporalPetWorkflows(c).CreatePet(context.Background(), petstypes.CreatePetInput{})
	require.ErrorIs(t, err, faults.ErrNotAuthenticated)
	c.AssertNotCalled(t, "ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInlinePetWorkflows_DelegatesToService(t *testing.T) {
	directory := principalmemory.NewDirectory()
	accounts := principalapp.NewService(directory, principalmemory.NewSessionStore())
	caller, err := accounts.Register(context.Background(), principalports.RegisterInput{
		Kind:     principals.KindIndividual,
		Username: "ana",
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	service := petsapplication.NewService(petmemory.NewRepository(), accounts)
	o := NewInlinePetWorkflows(service)

	got, err := o.CreatePet(context.Background(), petstypes.CreatePetInput{
		Caller: caller,
		PetFields: petstypes.PetFields{
			Name:        ptr("Mia"),
			Kind:        ptr("CAT"),
			Sex:         ptr("FEMALE"),
			Height:      ptr("SMALL"),
			Temperament: ptr("FRIENDLY"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mia", got.Entity.Name)

	_, err = o.CreatePet(context.Background(), petstypes.CreatePetInput{})
	require.ErrorIs(t, err, faults.ErrNotAuthenticated)

	_, err = NewInlinePetWorkflows(nil).CreatePet(context.Background(), petstypes.CreatePetInput{})
	require.Error(t, err)
}

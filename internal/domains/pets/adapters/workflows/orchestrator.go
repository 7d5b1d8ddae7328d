package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	petsapplication "github.com/Apurer/petguard-api/internal/domains/pets/application"
	petstypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
	"github.com/Apurer/petguard-api/internal/platform/temporal/failures"
	petworkflows "github.com/Apurer/petguard-api/internal/platform/temporal/workflows/pets"
	"github.com/Apurer/petguard-api/internal/shared/faults"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalPetWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlinePetWorkflows)(nil)
)

// TemporalPetWorkflows starts pet workflows on a Temporal cluster.
type TemporalPetWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPetWorkflows wires a Temporal client into the orchestrator.
func NewTemporalPetWorkflows(c client.Client) *TemporalPetWorkflows {
	return &TemporalPetWorkflows{client: c, taskQueue: petworkflows.PetCreationTaskQueue}
}

// CreatePet starts the Temporal workflow that uploads the photo and persists the pet aggregate.
// Faults raised by the activities come back as *faults.Error.
func (o *TemporalPetWorkflows) CreatePet(ctx context.Context, input petstypes.CreatePetInput) (*petstypes.PetProjection, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal pet workflows not configured")
	}
	if input.Caller == nil {
		return nil, faults.NotAuthenticated()
	}
	workflowID := buildPetCreationWorkflowID(input)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		petworkflows.PetCreationWorkflowName,
		petworkflows.PetCreationWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			return awaitProjection(ctx, existingRun)
		}
		return nil, err
	}
	return awaitProjection(ctx, run)
}

func awaitProjection(ctx context.Context, run client.WorkflowRun) (*petstypes.PetProjection, error) {
	var projection petstypes.PetProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, failures.Decode(err, petsapplication.ErrInvalidInput)
	}
	return &projection, nil
}

// InlinePetWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlinePetWorkflows struct {
	service ports.Service
}

// NewInlinePetWorkflows wraps the pets service for synchronous execution.
func NewInlinePetWorkflows(service ports.Service) *InlinePetWorkflows {
	return &InlinePetWorkflows{service: service}
}

// CreatePet delegates to the application service without durable orchestration.
func (o *InlinePetWorkflows) CreatePet(ctx context.Context, input petstypes.CreatePetInput) (*petstypes.PetProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline pet workflows not configured")
	}
	return o.service.CreatePet(ctx, input)
}

// buildPetCreationWorkflowID keys retried requests onto the same workflow. Idempotency keys are
// scoped per account, so the account takes part in the hash. Requests without a key get a fresh ID.
func buildPetCreationWorkflowID(input petstypes.CreatePetInput) string {
	var accountID int64
	if input.Caller != nil {
		accountID = input.Caller.ID
	}
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("pet-creation-idem-%s", hashIdempotencyKey(accountID, key))
	}
	return fmt.Sprintf("pet-creation-%d-%s", accountID, uuid.NewString())
}

func hashIdempotencyKey(accountID int64, key string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", accountID, key)))
	// First 16 hex chars keep workflow IDs readable.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}

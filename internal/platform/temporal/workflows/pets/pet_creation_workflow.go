package pets

import (
	"go.temporal.io/sdk/workflow"

	petstypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/platform/temporal/sequences"
)

const (
	// PetCreationWorkflowName is the public identifier for registering the workflow.
	PetCreationWorkflowName = "pets.workflows.Creation"
	// PetCreationTaskQueue is the queue consumed by the worker processing pet workflows.
	PetCreationTaskQueue = "PET_CREATION"
)

// PetCreationWorkflowInput captures the payload required to provision a new pet.
type PetCreationWorkflowInput struct {
	Command petstypes.CreatePetInput
	TraceID string
}

// PetCreationWorkflow orchestrates the activities needed to persist a pet aggregate.
func PetCreationWorkflow(ctx workflow.Context, input PetCreationWorkflowInput) (*petstypes.PetProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PetCreationWorkflow started", withTraceID(input.TraceID, "idempotencyKey", input.Command.IdempotencyKey)...)
	projection, err := sequences.RunPetPersistenceSequence(ctx, input.Command)
	if err != nil {
		logger.Error("PetCreationWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	if projection != nil && projection.Entity != nil {
		logger.Info("PetCreationWorkflow completed", withTraceID(input.TraceID, "petId", projection.Entity.ID)...)
	} else {
		logger.Info("PetCreationWorkflow completed", withTraceID(input.TraceID)...)
	}
	return projection, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

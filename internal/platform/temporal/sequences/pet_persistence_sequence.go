package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	petstypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	petactivities "github.com/Apurer/petguard-api/internal/platform/temporal/activities/pets"
)

// RunPetPersistenceSequence uploads the photo, persists the pet, and discards the photo again
// when the pet could not be persisted or an earlier request with the same key already won.
func RunPetPersistenceSequence(ctx workflow.Context, input petstypes.CreatePetInput) (*petstypes.PetProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("pet persistence sequence started", "idempotencyKey", input.IdempotencyKey)
	uploadOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	discardOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    10,
		},
	}

	var uploaded *domain.Photo
	if input.StoredPhoto == nil && input.Photo != nil && len(input.Photo.Content) > 0 {
		if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, uploadOptions), petactivities.StorePetPhotoActivityName, *input.Photo).Get(ctx, &uploaded); err != nil {
			logger.Error("pet persistence sequence upload failed", "error", err)
			return nil, err
		}
		if uploaded != nil {
			input.StoredPhoto = uploaded
		}
	}
	// The raw bytes are not needed past the upload and would otherwise be recorded again.
	input.Photo = nil

	discard := func() {
		if uploaded == nil {
			return
		}
		if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, discardOptions), petactivities.DiscardPetPhotoActivityName, uploaded.Key).Get(ctx, nil); err != nil {
			logger.Warn("pet persistence sequence could not discard photo", "key", uploaded.Key, "error", err)
		}
	}

	var projection petstypes.PetProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), petactivities.PersistPetActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("pet persistence sequence failed", "error", err)
		discard()
		return nil, err
	}
	if uploaded != nil && (projection.Entity == nil || projection.Entity.Photo == nil || projection.Entity.Photo.Key != uploaded.Key) {
		discard()
	}
	if projection.Entity != nil {
		logger.Info("pet persistence sequence persisted", "petId", projection.Entity.ID)
	} else {
		logger.Info("pet persistence sequence persisted")
	}
	return &projection, nil
}

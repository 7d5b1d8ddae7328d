package pets

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	petsapplication "github.com/Apurer/petguard-api/internal/domains/pets/application"
	petstypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	petsports "github.com/Apurer/petguard-api/internal/domains/pets/ports"
	"github.com/Apurer/petguard-api/internal/platform/temporal/failures"
)

const (
	// StorePetPhotoActivityName uploads the photo attached to a creation request.
	StorePetPhotoActivityName = "pets.activities.StorePetPhoto"
	// PersistPetActivityName validates and persists a pet with its dependents.
	PersistPetActivityName = "pets.activities.PersistPet"
	// DiscardPetPhotoActivityName removes an uploaded photo whose pet was never persisted.
	DiscardPetPhotoActivityName = "pets.activities.DiscardPetPhoto"
)

// Activities groups activities that operate on the pets bounded context.
type Activities struct {
	service petsports.Service
	photos  petsports.PhotoStore
}

// NewActivities wires the pets collaborators into the Temporal activities bundle.
// photos may be nil, in which case photo uploads are skipped.
func NewActivities(service petsports.Service, photos petsports.PhotoStore) *Activities {
	return &Activities{service: service, photos: photos}
}

// StorePetPhoto uploads the photo and returns its descriptor, or nil when nothing was uploaded.
func (a *Activities) StorePetPhoto(ctx context.Context, upload petstypes.PhotoUpload) (*domain.Photo, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.photos == nil || len(upload.Content) == 0 {
		logger.Info("StorePetPhoto skipped", "name", upload.Name)
		return nil, nil
	}
	logger.Info("StorePetPhoto activity started", "name", upload.Name, "size", len(upload.Content))
	stored, err := a.photos.Put(ctx, upload.Name, upload.ContentType, upload.Content)
	if err != nil {
		logger.Error("StorePetPhoto activity failed", "name", upload.Name, "error", err)
		if errors.Is(err, petsports.ErrPhotoTooLarge) {
			err = errors.Join(petsapplication.ErrInvalidInput, err)
		}
		return nil, failures.Encode(err, petsapplication.ErrInvalidInput)
	}
	logger.Info("StorePetPhoto activity completed", "key", stored.Key)
	return &domain.Photo{
		Key:         stored.Key,
		Name:        upload.Name,
		ContentType: upload.ContentType,
		Size:        stored.Size,
		URL:         stored.URL,
	}, nil
}

// PersistPet stores a new pet aggregate and returns its projection.
func (a *Activities) PersistPet(ctx context.Context, input petstypes.CreatePetInput) (*petstypes.PetProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("pet persist activity not initialized")
		return nil, errors.New("pet persist activity not initialized")
	}
	logger.Info("PersistPet activity started", "idempotencyKey", input.IdempotencyKey)
	projection, err := a.service.CreatePet(ctx, input)
	if err != nil {
		logger.Error("PersistPet activity failed", "error", err)
		return nil, failures.Encode(err, petsapplication.ErrInvalidInput)
	}
	logger.Info("PersistPet activity completed", "petId", projection.Entity.ID)
	return projection, nil
}

// DiscardPetPhoto deletes an uploaded photo. Unknown keys are not an error.
func (a *Activities) DiscardPetPhoto(ctx context.Context, key string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.photos == nil || key == "" {
		return nil
	}
	logger.Info("DiscardPetPhoto activity started", "key", key)
	if err := a.photos.Delete(ctx, key); err != nil {
		logger.Error("DiscardPetPhoto activity failed", "key", key, "error", err)
		return err
	}
	logger.Info("DiscardPetPhoto activity completed", "key", key)
	return nil
}

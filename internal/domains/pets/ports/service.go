package ports

import (
	"context"

	pettypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
)

// DeleteResult is the acknowledgement returned by DeletePet.
type DeleteResult struct {
	Success bool `json:"success"`
}

// Service defines the pets use cases exposed to adapters (inbound/driving port).
type Service interface {
	CreatePet(ctx context.Context, input pettypes.CreatePetInput) (*pettypes.PetProjection, error)
	UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error)
	DeletePet(ctx context.Context, input pettypes.DeletePetInput) (*DeleteResult, error)
	FetchPet(ctx context.Context, input pettypes.FetchPetInput) (*pettypes.PetProjection, error)
	ListPets(ctx context.Context, input pettypes.ListPetsInput) ([]*pettypes.PetProjection, error)
}

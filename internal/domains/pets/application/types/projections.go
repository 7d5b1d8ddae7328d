package types

import (
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	"github.com/Apurer/petguard-api/internal/shared/projection"
)

// PetProjection is a pet with its dependents attached and its row timestamps.
type PetProjection = projection.Projection[*domain.Pet]

package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	"github.com/Apurer/petguard-api/internal/shared/projection"
)

var ErrNotFound = errors.New("pet not found")

// Repository persists the pet aggregate. Every write covers the pet and its dependents in one transaction.
type Repository interface {
	// Create stores the pet with any dependents and assigns its ID.
	Create(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error)
	// Update replaces the stored pet state. A nil dependent on pet deletes the stored one.
	Update(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error)
	// Delete removes the dependents first, then the pet.
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Pet], error)
	// GetScoped returns the pet only when scope covers its custody; otherwise ErrNotFound.
	GetScoped(ctx context.Context, id int64, scope domain.Custody) (*projection.Projection[*domain.Pet], error)
	// List returns matching pets ordered by creation time then ID, paginated by the filter.
	List(ctx context.Context, filter domain.ListFilter) ([]*projection.Projection[*domain.Pet], error)
}

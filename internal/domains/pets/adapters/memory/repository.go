package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
	"github.com/Apurer/petguard-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory implementation used for demos/tests.
// Pets and dependents live in three tables guarded by one lock, so each write is atomic.
type Repository struct {
	mu            sync.RWMutex
	nextID        int64
	pets          map[int64]*storedPet
	alimentations map[int64]domain.Alimentation
	specialCares  map[int64]domain.SpecialCares
	now           func() time.Time
}

type storedPet struct {
	pet      *domain.Pet
	metadata projection.Metadata
}

// Counts reports the row count of each table.
type Counts struct {
	Pets          int
	Alimentations int
	SpecialCares  int
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		pets:          map[int64]*storedPet{},
		alimentations: map[int64]domain.Alimentation{},
		specialCares:  map[int64]domain.SpecialCares{},
		now:           time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Create assigns the next ID and stores the pet with its dependents.
func (r *Repository) Create(_ context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if pet == nil {
		return nil, errors.New("cannot create nil pet")
	}
	if !pet.Custody.Valid() {
		return nil, errors.New("pet must have exactly one of owner or steward")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	timestamp := r.now()
	stored := &storedPet{
		pet:      stripDependents(pet),
		metadata: projection.Created(timestamp),
	}
	stored.pet.ID = r.nextID
	r.pets[stored.pet.ID] = stored
	r.writeDependents(stored.pet.ID, pet)
	return r.projectionOf(stored), nil
}

// Update replaces the pet state; custody and creation time are kept from the stored row.
func (r *Repository) Update(_ context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if pet == nil {
		return nil, errors.New("cannot update nil pet")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.pets[pet.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	updated := stripDependents(pet)
	updated.Custody = entry.pet.Clone().Custody
	stored := &storedPet{
		pet:      updated,
		metadata: entry.metadata.Touch(r.now()),
	}
	r.pets[pet.ID] = stored
	r.writeDependents(pet.ID, pet)
	return r.projectionOf(stored), nil
}

// Delete removes the dependents first, then the pet.
func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.alimentations, id)
	delete(r.specialCares, id)
	delete(r.pets, id)
	return nil
}

// GetByID fetches a pet if present.
func (r *Repository) GetByID(_ context.Context, id int64) (*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pets[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.projectionOf(entry), nil
}

// GetScoped fetches a pet only when scope covers its custody.
func (r *Repository) GetScoped(_ context.Context, id int64, scope domain.Custody) (*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pets[id]
	if !ok || !scope.Covers(entry.pet.Custody) {
		return nil, ports.ErrNotFound
	}
	return r.projectionOf(entry), nil
}

// List filters in creation order, then paginates.
func (r *Repository) List(_ context.Context, filter domain.ListFilter) ([]*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]*storedPet, 0, len(r.pets))
	for _, entry := range r.pets {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].metadata.CreatedAt, entries[j].metadata.CreatedAt
		if !a.Equal(b) {
			return a.Before(b)
		}
		return entries[i].pet.ID < entries[j].pet.ID
	})
	list := make([]*projection.Projection[*domain.Pet], 0, len(entries))
	for _, entry := range entries {
		view := r.projectionOf(entry)
		if filter.Matches(view.Entity) {
			list = append(list, view)
		}
	}
	return domain.Page(list, filter.Skip, filter.First), nil
}

// Counts returns the number of pets, alimentations, and special cares stored.
func (r *Repository) Counts() Counts {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Counts{Pets: len(r.pets), Alimentations: len(r.alimentations), SpecialCares: len(r.specialCares)}
}

func (r *Repository) writeDependents(id int64, pet *domain.Pet) {
	if pet.Alimentation != nil {
		r.alimentations[id] = *pet.Alimentation
	} else {
		delete(r.alimentations, id)
	}
	if pet.SpecialCares != nil {
		r.specialCares[id] = *pet.SpecialCares
	} else {
		delete(r.specialCares, id)
	}
}

func (r *Repository) projectionOf(entry *storedPet) *projection.Projection[*domain.Pet] {
	pet := entry.pet.Clone()
	if a, ok := r.alimentations[pet.ID]; ok {
		pet.Alimentation = &a
	}
	if s, ok := r.specialCares[pet.ID]; ok {
		pet.SpecialCares = &s
	}
	return projection.New(pet, entry.metadata)
}

func stripDependents(pet *domain.Pet) *domain.Pet {
	clone := pet.Clone()
	clone.Alimentation = nil
	clone.SpecialCares = nil
	return clone
}

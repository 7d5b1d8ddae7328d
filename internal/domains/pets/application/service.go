package application

import (
	"context"
	"errors"
	"strings"
	"time"

	types "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
	principals "github.com/Apurer/petguard-api/internal/domains/principals/domain"
	"github.com/Apurer/petguard-api/internal/shared/faults"
)

// Service orchestrates the pets bounded context use cases.
type Service struct {
	repo        ports.Repository
	principals  ports.Principals
	photos      ports.PhotoStore
	idempotency ports.IdempotencyStore
	now         func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithPhotoStore enables photo uploads. Without it, requests carrying a photo ignore it.
func WithPhotoStore(store ports.PhotoStore) Option {
	return func(s *Service) {
		s.photos = store
	}
}

// WithIdempotencyStore enables replay of CreatePet requests that carry an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithClock overrides the time source used for date validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the pets service with its dependencies.
func NewService(repo ports.Repository, resolver ports.Principals, opts ...Option) *Service {
	s := &Service{repo: repo, principals: resolver, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreatePet validates the payload and stores a pet held by the caller.
func (s *Service) CreatePet(ctx context.Context, input types.CreatePetInput) (*types.PetProjection, error) {
	principal, err := s.resolveCaller(ctx, input.Caller)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		fingerprint, err = FingerprintCreatePet(principal, input)
		if err != nil {
			return nil, err
		}
		replayed, err := s.replay(ctx, principal.Account.ID, key, fingerprint)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	pet := &domain.Pet{
		Custody: custodyOf(principal),
		Phone:   principal.Account.Phone,
	}
	applyFields(pet, input.PetFields)
	if err := pet.Validate(s.now()); err != nil {
		return nil, mapError(err)
	}
	var uploaded *domain.Photo
	if input.StoredPhoto != nil {
		stored := *input.StoredPhoto
		pet.Photo = &stored
	} else {
		uploaded, err = s.storePhoto(ctx, input.Photo)
		if err != nil {
			return nil, mapError(err)
		}
		pet.Photo = uploaded
	}

	saved, err := s.repo.Create(ctx, pet)
	if err != nil {
		s.discardPhoto(ctx, uploaded)
		return nil, mapError(err)
	}
	if key != "" && s.idempotency != nil {
		return s.remember(ctx, principal.Account.ID, key, fingerprint, saved)
	}
	return saved, nil
}

// UpdatePet merges the present fields over the stored pet and validates the merged state.
func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error) {
	principal, err := s.resolveCaller(ctx, input.Caller)
	if err != nil {
		return nil, err
	}
	current, err := s.getScoped(ctx, input.ID, custodyOf(principal))
	if err != nil {
		return nil, err
	}

	pet := current.Entity.Clone()
	applyFields(pet, input.PetFields)
	if input.IsAdopted != nil {
		pet.IsAdopted = *input.IsAdopted
	}
	if input.ClearAge {
		pet.Age = nil
	}
	if input.ClearAlimentation {
		pet.Alimentation = nil
	}
	if input.ClearSpecialCares {
		pet.SpecialCares = nil
	}
	if err := pet.Validate(s.now()); err != nil {
		return nil, mapError(err)
	}

	previous := current.Entity.Photo
	var uploaded *domain.Photo
	switch {
	case input.Photo != nil:
		uploaded, err = s.storePhoto(ctx, input.Photo)
		if err != nil {
			return nil, mapError(err)
		}
		if uploaded != nil {
			pet.Photo = uploaded
		}
	case input.ClearPhoto:
		pet.Photo = nil
	}

	saved, err := s.repo.Update(ctx, pet)
	if err != nil {
		s.discardPhoto(ctx, uploaded)
		return nil, mapError(err)
	}
	if previous != nil && (pet.Photo == nil || pet.Photo.Key != previous.Key) {
		s.discardPhoto(ctx, previous)
	}
	return saved, nil
}

// DeletePet removes a pet held by the caller together with its dependents.
func (s *Service) DeletePet(ctx context.Context, input types.DeletePetInput) (*ports.DeleteResult, error) {
	principal, err := s.resolveCaller(ctx, input.Caller)
	if err != nil {
		return nil, err
	}
	current, err := s.getScoped(ctx, input.ID, custodyOf(principal))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, current.Entity.ID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, faults.NotFound("pet", input.ID)
		}
		return nil, mapError(err)
	}
	s.discardPhoto(ctx, current.Entity.Photo)
	return &ports.DeleteResult{Success: true}, nil
}

// FetchPet loads a pet held by the principal behind input.Identity, which may differ from the caller.
func (s *Service) FetchPet(ctx context.Context, input types.FetchPetInput) (*types.PetProjection, error) {
	if input.Caller == nil {
		return nil, faults.NotAuthenticated()
	}
	account, err := s.principals.LookupAccount(ctx, input.Identity)
	if err != nil {
		return nil, err
	}
	principal, err := s.principals.ResolveScope(ctx, account)
	if err != nil {
		return nil, err
	}
	return s.getScoped(ctx, input.PetID, custodyOf(principal))
}

// ListPets lists adoptable pets or the pets held by input.Identity, filtered then paginated.
func (s *Service) ListPets(ctx context.Context, input types.ListPetsInput) ([]*types.PetProjection, error) {
	filter := domain.ListFilter{
		Adoptable: input.IsAdoption,
		Search:    strings.TrimSpace(input.Search),
		Kind:      domain.Kind(strings.TrimSpace(input.Kind)),
		IsAdopted: input.IsAdopted,
		Skip:      max(input.Skip, 0),
		First:     max(input.First, 0),
	}
	if !filter.Adoptable {
		holders, ok, err := s.holdersOf(ctx, input.Identity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []*types.PetProjection{}, nil
		}
		filter.Holders = holders
	}
	if filter.Search != "" {
		organizations, err := s.principals.FindOrganizations(ctx, filter.Search)
		if err != nil {
			return nil, err
		}
		for _, org := range organizations {
			filter.SearchStewardIDs = append(filter.SearchStewardIDs, org.ID)
		}
	}
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	if result == nil {
		result = []*types.PetProjection{}
	}
	return result, nil
}

func (s *Service) resolveCaller(ctx context.Context, caller *principals.Account) (principals.Principal, error) {
	if caller == nil {
		return principals.Principal{}, faults.NotAuthenticated()
	}
	return s.principals.ResolveScope(ctx, caller)
}

func (s *Service) getScoped(ctx context.Context, id int64, scope domain.Custody) (*types.PetProjection, error) {
	projection, err := s.repo.GetScoped(ctx, id, scope)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, faults.NotFound("pet", id)
		}
		return nil, mapError(err)
	}
	return projection, nil
}

// holdersOf returns the custody covering every profile of the account behind identity.
// ok is false when the identity is unknown or has no profile.
func (s *Service) holdersOf(ctx context.Context, identity string) (domain.Custody, bool, error) {
	account, err := s.principals.LookupAccount(ctx, identity)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return domain.Custody{}, false, nil
		}
		return domain.Custody{}, false, err
	}
	profiles, err := s.principals.Profiles(ctx, account.ID)
	if err != nil {
		return domain.Custody{}, false, err
	}
	var holders domain.Custody
	if profiles.Individual != nil {
		id := profiles.Individual.ID
		holders.OwnerID = &id
	}
	if profiles.Organization != nil {
		id := profiles.Organization.ID
		holders.StewardID = &id
	}
	return holders, holders.OwnerID != nil || holders.StewardID != nil, nil
}

func (s *Service) replay(ctx context.Context, accountID int64, key, fingerprint string) (*types.PetProjection, error) {
	record, err := s.idempotency.Get(ctx, accountID, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.RequestHash != fingerprint {
		return nil, faults.Conflict("Idempotency key was already used with a different request.", key)
	}
	projection, err := s.repo.GetByID(ctx, record.PetID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, faults.NotFound("pet", record.PetID)
		}
		return nil, err
	}
	return projection, nil
}

// remember stores the key for saved. When a concurrent request stored the key first,
// saved is rolled back and the winner decides the outcome.
func (s *Service) remember(ctx context.Context, accountID int64, key, fingerprint string, saved *types.PetProjection) (*types.PetProjection, error) {
	stored, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		AccountID:   accountID,
		Key:         key,
		RequestHash: fingerprint,
		PetID:       saved.Entity.ID,
	})
	if err == nil {
		return saved, nil
	}
	if !errors.Is(err, ports.ErrIdempotencyConflict) || stored == nil {
		return nil, err
	}
	if delErr := s.repo.Delete(ctx, saved.Entity.ID); delErr != nil {
		return nil, delErr
	}
	s.discardPhoto(ctx, saved.Entity.Photo)
	if stored.RequestHash != fingerprint {
		return nil, faults.Conflict("Idempotency key was already used with a different request.", key)
	}
	return s.repo.GetByID(ctx, stored.PetID)
}

func (s *Service) storePhoto(ctx context.Context, upload *types.PhotoUpload) (*domain.Photo, error) {
	if upload == nil || s.photos == nil || len(upload.Content) == 0 {
		return nil, nil
	}
	stored, err := s.photos.Put(ctx, upload.Name, upload.ContentType, upload.Content)
	if err != nil {
		return nil, err
	}
	return &domain.Photo{
		Key:         stored.Key,
		Name:        upload.Name,
		ContentType: upload.ContentType,
		Size:        stored.Size,
		URL:         stored.URL,
	}, nil
}

// discardPhoto is best effort; an orphaned blob is not a request failure.
func (s *Service) discardPhoto(ctx context.Context, photo *domain.Photo) {
	if photo == nil || s.photos == nil || photo.Key == "" {
		return
	}
	_ = s.photos.Delete(ctx, photo.Key)
}

func custodyOf(principal principals.Principal) domain.Custody {
	if principal.IsOrganization() {
		return domain.StewardedBy(principal.ProfileID)
	}
	return domain.OwnedBy(principal.ProfileID)
}

var _ ports.Service = (*Service)(nil)

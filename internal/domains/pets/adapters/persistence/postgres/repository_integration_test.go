//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	petspostgres "github.com/Apurer/petguard-api/internal/domains/pets/adapters/persistence/postgres"
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
	"github.com/Apurer/petguard-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/petguard-api/internal/platform/postgres"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("petguard_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), platformpostgres.Config())
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

func newPet(name string, kind domain.Kind, custody domain.Custody) *domain.Pet {
	return &domain.Pet{
		Custody:     custody,
		Name:        name,
		Kind:        kind,
		Sex:         domain.SexFemale,
		Height:      domain.SizeSmall,
		Temperament: domain.TemperamentFriendly,
	}
}

func TestPostgresRepository_CreateUpdateDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := petspostgres.NewRepository(db)
	ctx := context.Background()

	pet := newPet("XU", domain.KindDog, domain.OwnedBy(7))
	pet.Alimentation = &domain.Alimentation{Qtd: domain.SizeBig, Food: "kibble", Frequency: 2}
	pet.SpecialCares = &domain.SpecialCares{VaccinationDate: "2024-01-15", IsCastrated: true}
	pet.Photo = &domain.Photo{Key: "pets/x.png", Name: "x.png", Size: 3, URL: "http://cdn/pets/x.png"}

	created, err := repo.Create(ctx, pet)
	require.NoError(t, err)
	require.NotZero(t, created.Entity.ID)
	assert.False(t, created.Metadata.CreatedAt.IsZero())
	require.NotNil(t, created.Entity.SpecialCares)
	assert.Equal(t, domain.Date("2024-01-15"), created.Entity.SpecialCares.VaccinationDate)
	assert.Equal(t, "x.png", created.Entity.Photo.Name)
	assert.Equal(t, int64(1), countRows(t, db, "pet_alimentations"))
	assert.Equal(t, int64(1), countRows(t, db, "pet_special_cares"))

	changed := created.Entity.Clone()
	changed.Name = "XUXA"
	changed.Alimentation = nil
	changed.SpecialCares.Diseases = "none"
	changed.Custody = domain.OwnedBy(99)
	updated, err := repo.Update(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, "XUXA", updated.Entity.Name)
	assert.Nil(t, updated.Entity.Alimentation)
	assert.Equal(t, "none", updated.Entity.SpecialCares.Diseases)
	assert.Equal(t, int64(7), *updated.Entity.Custody.OwnerID)
	assert.True(t, updated.Metadata.CreatedAt.Equal(created.Metadata.CreatedAt))
	assert.Equal(t, int64(0), countRows(t, db, "pet_alimentations"))

	require.NoError(t, repo.Delete(ctx, created.Entity.ID))
	assert.Equal(t, int64(0), countRows(t, db, "pets"))
	assert.Equal(t, int64(0), countRows(t, db, "pet_special_cares"))
	require.ErrorIs(t, repo.Delete(ctx, created.Entity.ID), ports.ErrNotFound)
}

func TestPostgresRepository_ScopeAndCustodyConstraint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := petspostgres.NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newPet("PUFF", domain.KindCat, domain.StewardedBy(3)))
	require.NoError(t, err)

	_, err = repo.GetScoped(ctx, created.Entity.ID, domain.StewardedBy(3))
	require.NoError(t, err)
	_, err = repo.GetScoped(ctx, created.Entity.ID, domain.OwnedBy(3))
	require.ErrorIs(t, err, ports.ErrNotFound)
	_, err = repo.GetScoped(ctx, created.Entity.ID, domain.StewardedBy(4))
	require.ErrorIs(t, err, ports.ErrNotFound)

	both := domain.Custody{OwnerID: ptr(int64(1)), StewardID: ptr(int64(2))}
	err = db.Create(&petspostgres.PetRecord{
		OwnerID: both.OwnerID, StewardID: both.StewardID,
		Name: "BAD", Kind: "DOG", Sex: "MALE", Height: "BIG", Temperament: "BRAVE",
	}).Error
	require.Error(t, err)
}

func TestPostgresRepository_ListFiltersAndPages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := petspostgres.NewRepository(db)
	ctx := context.Background()

	owner := domain.OwnedBy(1)
	for _, p := range []struct {
		name string
		kind domain.Kind
	}{{"XU", domain.KindDog}, {"XU", domain.KindDog}, {"XU", domain.KindDog}, {"PUFF", domain.KindCat}, {"TOFF", domain.KindCat}, {"TOFF", domain.KindCat}} {
		_, err := repo.Create(ctx, newPet(p.name, p.kind, owner))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newPet("Luna_1", domain.KindCat, domain.StewardedBy(5)))
	require.NoError(t, err)
	adopted := newPet("Max", domain.KindDog, domain.StewardedBy(6))
	adopted.IsAdopted = true
	_, err = repo.Create(ctx, adopted)
	require.NoError(t, err)

	page, err := repo.List(ctx, domain.ListFilter{Holders: owner, Skip: 4, First: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "TOFF", page[0].Entity.Name)
	assert.Equal(t, "TOFF", page[1].Entity.Name)

	cats, err := repo.List(ctx, domain.ListFilter{Holders: owner, Search: "off", Kind: domain.KindCat})
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	adoptable, err := repo.List(ctx, domain.ListFilter{Adoptable: true})
	require.NoError(t, err)
	require.Len(t, adoptable, 1)
	assert.Equal(t, "Luna_1", adoptable[0].Entity.Name)

	bySteward, err := repo.List(ctx, domain.ListFilter{Adoptable: true, Search: "nomatch", SearchStewardIDs: []int64{5}})
	require.NoError(t, err)
	assert.Len(t, bySteward, 1)

	literal, err := repo.List(ctx, domain.ListFilter{Adoptable: true, Search: "a_1"})
	require.NoError(t, err)
	assert.Len(t, literal, 1)
	wildcard, err := repo.List(ctx, domain.ListFilter{Adoptable: true, Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, wildcard)
}

func TestPostgresIdempotencyStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := petspostgres.NewIdempotencyStore(db)
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{AccountID: 1, Key: "k", RequestHash: "h", PetID: 10})
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt.IsZero())

	again, err := store.Save(ctx, ports.IdempotencyRecord{AccountID: 1, Key: "k", RequestHash: "h", PetID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(10), again.PetID)

	conflict, err := store.Save(ctx, ports.IdempotencyRecord{AccountID: 1, Key: "k", RequestHash: "other", PetID: 11})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, int64(10), conflict.PetID)

	_, err = store.Save(ctx, ports.IdempotencyRecord{AccountID: 2, Key: "k", RequestHash: "other", PetID: 11})
	require.NoError(t, err)

	missing, err := store.Get(ctx, 3, "k")
	require.NoError(t, err)
	assert.Nil(t, missing)

	removed, err := store.PurgeBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func ptr[T any](v T) *T { return &v }

package migrations

import (
	"gorm.io/gorm"

	petspostgres "github.com/Apurer/petguard-api/internal/domains/pets/adapters/persistence/postgres"
	principalspostgres "github.com/Apurer/petguard-api/internal/domains/principals/adapters/persistence/postgres"
)

// Run applies the schema for the bounded contexts. Principals come first because pets reference their profiles.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&principalspostgres.AccountRecord{},
		&principalspostgres.IndividualRecord{},
		&principalspostgres.OrganizationRecord{},
		&principalspostgres.SessionRecord{},
		&petspostgres.PetRecord{},
		&petspostgres.AlimentationRecord{},
		&petspostgres.SpecialCaresRecord{},
		&petspostgres.IdempotencyRecord{},
	)
}

package types

import (
	principals "github.com/Apurer/petguard-api/internal/domains/principals/domain"
)

// FetchPetInput loads one pet held by the principal behind Identity.
type FetchPetInput struct {
	Caller   *principals.Account
	Identity string
	PetID    int64
}

// ListPetsInput lists either adoptable pets or the pets held by Identity.
type ListPetsInput struct {
	Identity   string
	IsAdoption bool
	Search     string
	Kind       string
	IsAdopted  *bool
	Skip       int
	First      int
}

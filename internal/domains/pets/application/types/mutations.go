package types

import (
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	principals "github.com/Apurer/petguard-api/internal/domains/principals/domain"
)

// AlimentationInput carries feeding plan fields; nil means the field was not sent.
type AlimentationInput struct {
	Qtd          *string `json:"qtd,omitempty"`
	Food         *string `json:"food,omitempty"`
	Frequency    *int    `json:"frequency,omitempty"`
	Observations *string `json:"observations,omitempty"`
}

// SpecialCaresInput carries special cares fields; nil means the field was not sent.
type SpecialCaresInput struct {
	VeterinaryFrequency *int    `json:"veterinaryFrequency,omitempty"`
	BathingFrequency    *int    `json:"bathingFrequency,omitempty"`
	ShearFrequency      *int    `json:"shearFrequency,omitempty"`
	Diseases            *string `json:"diseases,omitempty"`
	ShearType           *string `json:"shearType,omitempty"`
	VeterinaryFeedback  *string `json:"veterinaryFeedback,omitempty"`
	Deworming           *string `json:"deworming,omitempty"`
	DewormingDate       *string `json:"dewormingDate,omitempty"`
	Vaccination         *string `json:"vaccination,omitempty"`
	VaccinationDate     *string `json:"vaccinationDate,omitempty"`
	IsCastrated         *bool   `json:"isCastrated,omitempty"`
	LastEstro           *string `json:"lastEstro,omitempty"`
	Observations        *string `json:"observations,omitempty"`
}

// PetFields holds the pet attributes shared by create and update, with per-field presence.
type PetFields struct {
	Name         *string            `json:"name,omitempty"`
	Kind         *string            `json:"kind,omitempty"`
	Sex          *string            `json:"sex,omitempty"`
	Height       *string            `json:"height,omitempty"`
	Temperament  *string            `json:"temperament,omitempty"`
	Breed        *string            `json:"breed,omitempty"`
	Age          *int               `json:"age,omitempty"`
	Phone        *string            `json:"phone,omitempty"`
	Weight       *float64           `json:"weight,omitempty"`
	Description  *string            `json:"description,omitempty"`
	Alimentation *AlimentationInput `json:"alimentation,omitempty"`
	SpecialCares *SpecialCaresInput `json:"specialCares,omitempty"`
}

// PhotoUpload is an image sent alongside a create or update.
type PhotoUpload struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

// CreatePetInput is the createPet command. Caller nil means the request is unauthenticated.
type CreatePetInput struct {
	Caller         *principals.Account `json:"caller,omitempty"`
	IdempotencyKey string              `json:"idempotencyKey,omitempty"`
	PetFields
	Photo *PhotoUpload `json:"photo,omitempty"`
	// StoredPhoto is a photo already written to the photo store. It wins over Photo, and
	// the caller that stored it stays responsible for discarding it on failure.
	StoredPhoto *domain.Photo `json:"storedPhoto,omitempty"`
}

// UpdatePetInput is the updatePet command. Omitted fields keep their stored value.
type UpdatePetInput struct {
	Caller *principals.Account
	ID     int64
	PetFields
	IsAdopted *bool
	// ClearAge unsets the optional age.
	ClearAge bool
	// ClearAlimentation and ClearSpecialCares delete the dependent record; they win over a payload for it.
	ClearAlimentation bool
	ClearSpecialCares bool
	Photo             *PhotoUpload
	ClearPhoto        bool
}

// DeletePetInput is the deletePet command.
type DeletePetInput struct {
	Caller *principals.Account
	ID     int64
}

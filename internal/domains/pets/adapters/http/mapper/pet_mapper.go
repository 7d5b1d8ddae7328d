package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	petstypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
)

// Alimentation is the HTTP representation of a feeding plan. Pointer fields keep track of presence.
type Alimentation struct {
	Qtd          *string `json:"qtd,omitempty"`
	Food         *string `json:"food,omitempty"`
	Frequency    *int    `json:"frequency,omitempty"`
	Observations *string `json:"observations,omitempty"`
}

// SpecialCares is the HTTP representation of a health record. Pointer fields keep track of presence.
type SpecialCares struct {
	VeterinaryFrequency *int    `json:"veterinary_frequency,omitempty"`
	BathingFrequency    *int    `json:"bathing_frequency,omitempty"`
	ShearFrequency      *int    `json:"shear_frequency,omitempty"`
	Diseases            *string `json:"diseases,omitempty"`
	ShearType           *string `json:"shear_type,omitempty"`
	VeterinaryFeedback  *string `json:"veterinary_feedback,omitempty"`
	Deworming           *string `json:"deworming,omitempty"`
	DewormingDate       *string `json:"deworming_date,omitempty"`
	Vaccination         *string `json:"vaccination,omitempty"`
	VaccinationDate     *string `json:"vaccination_date,omitempty"`
	IsCastrated         *bool   `json:"is_castrated,omitempty"`
	LastEstro           *string `json:"last_estro,omitempty"`
	Observations        *string `json:"observations,omitempty"`
}

// PetInput captures the createPet payload.
type PetInput struct {
	Name         *string       `json:"name,omitempty"`
	Kind         *string       `json:"kind,omitempty"`
	Sex          *string       `json:"sex,omitempty"`
	Height       *string       `json:"height,omitempty"`
	Temperament  *string       `json:"temperament,omitempty"`
	Breed        *string       `json:"breed,omitempty"`
	Age          *int          `json:"age,omitempty"`
	Phone        *string       `json:"phone,omitempty"`
	Weight       *float64      `json:"weight,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Alimentation *Alimentation `json:"alimentation,omitempty"`
	SpecialCares *SpecialCares `json:"special_cares,omitempty"`
}

// PetPatch captures the updatePet payload. The dependents and the photo are kept raw so an
// explicit null, which clears them, can be told apart from an absent key. Explicit nulls on
// scalar keys are recorded by UnmarshalJSON.
type PetPatch struct {
	Name         *string         `json:"name,omitempty"`
	Kind         *string         `json:"kind,omitempty"`
	Sex          *string         `json:"sex,omitempty"`
	Height       *string         `json:"height,omitempty"`
	Temperament  *string         `json:"temperament,omitempty"`
	Breed        *string         `json:"breed,omitempty"`
	Age          *int            `json:"age,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Weight       *float64        `json:"weight,omitempty"`
	Description  *string         `json:"description,omitempty"`
	IsAdopted    *bool           `json:"is_adopted,omitempty"`
	Alimentation json.RawMessage `json:"alimentation,omitempty"`
	SpecialCares json.RawMessage `json:"special_cares,omitempty"`
	Photo        json.RawMessage `json:"photo,omitempty"`

	nulls []string
}

// clearableScalars are the scalar keys an explicit null may reset.
var clearableScalars = map[string]bool{"age": true}

var patchScalars = map[string]bool{
	"name": true, "kind": true, "sex": true, "height": true, "temperament": true, "breed": true,
	"age": true, "phone": true, "weight": true, "description": true, "is_adopted": true,
}

// UnmarshalJSON decodes the patch and records the scalar keys sent as null.
func (p *PetPatch) UnmarshalJSON(data []byte) error {
	type plain PetPatch
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PetPatch(decoded)
	for key, value := range raw {
		if patchScalars[key] && isNull(value) {
			p.nulls = append(p.nulls, key)
		}
	}
	sort.Strings(p.nulls)
	return nil
}

// Photo is the file descriptor returned for a pet. Pets without a photo carry the zero value.
type Photo struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// AlimentationView is the response shape of Alimentation.
type AlimentationView struct {
	Qtd          string `json:"qtd"`
	Food         string `json:"food"`
	Frequency    int    `json:"frequency"`
	Observations string `json:"observations"`
}

// SpecialCaresView is the response shape of SpecialCares.
type SpecialCaresView struct {
	VeterinaryFrequency int     `json:"veterinary_frequency"`
	BathingFrequency    int     `json:"bathing_frequency"`
	ShearFrequency      int     `json:"shear_frequency"`
	Diseases            string  `json:"diseases"`
	ShearType           string  `json:"shear_type"`
	VeterinaryFeedback  string  `json:"veterinary_feedback"`
	Deworming           string  `json:"deworming"`
	DewormingDate       *string `json:"deworming_date"`
	Vaccination         string  `json:"vaccination"`
	VaccinationDate     *string `json:"vaccination_date"`
	IsCastrated         bool    `json:"is_castrated"`
	LastEstro           *string `json:"last_estro"`
	Observations        string  `json:"observations"`
}

// Pet is the HTTP representation of a pet aggregate.
type Pet struct {
	ID             int64             `json:"id"`
	OwnerID        *int64            `json:"owner_id"`
	OrganizationID *int64            `json:"organization_id"`
	Name           string            `json:"name"`
	Kind           string            `json:"kind"`
	Sex            string            `json:"sex"`
	Height         string            `json:"height"`
	Temperament    string            `json:"temperament"`
	Breed          string            `json:"breed"`
	Age            *int              `json:"age"`
	Phone          string            `json:"phone"`
	Photo          Photo             `json:"photo"`
	Weight         float64           `json:"weight"`
	Description    string            `json:"description"`
	IsAdopted      bool              `json:"is_adopted"`
	Alimentation   *AlimentationView `json:"alimentation"`
	SpecialCares   *SpecialCaresView `json:"special_cares"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ToPetFields maps a create payload into use-case fields.
func ToPetFields(input PetInput) petstypes.PetFields {
	return petstypes.PetFields{
		Name:         input.Name,
		Kind:         input.Kind,
		Sex:          input.Sex,
		Height:       input.Height,
		Temperament:  input.Temperament,
		Breed:        input.Breed,
		Age:          input.Age,
		Phone:        input.Phone,
		Weight:       input.Weight,
		Description:  input.Description,
		Alimentation: toAlimentationInput(input.Alimentation),
		SpecialCares: toSpecialCaresInput(input.SpecialCares),
	}
}

// ToUpdateInput maps a patch payload onto an update command for pet id.
func ToUpdateInput(id int64, patch PetPatch) (petstypes.UpdatePetInput, error) {
	input := petstypes.UpdatePetInput{
		ID: id,
		PetFields: petstypes.PetFields{
			Name:        patch.Name,
			Kind:        patch.Kind,
			Sex:         patch.Sex,
			Height:      patch.Height,
			Temperament: patch.Temperament,
			Breed:       patch.Breed,
			Age:         patch.Age,
			Phone:       patch.Phone,
			Weight:      patch.Weight,
			Description: patch.Description,
		},
		IsAdopted: patch.IsAdopted,
	}
	for _, key := range patch.nulls {
		if !clearableScalars[key] {
			return petstypes.UpdatePetInput{}, fmt.Errorf("%s: null is not accepted, omit the key to keep the current value", key)
		}
		input.ClearAge = true
	}
	if len(patch.Alimentation) > 0 {
		if isNull(patch.Alimentation) {
			input.ClearAlimentation = true
		} else {
			var a Alimentation
			if err := json.Unmarshal(patch.Alimentation, &a); err != nil {
				return petstypes.UpdatePetInput{}, fmt.Errorf("alimentation: %w", err)
			}
			input.Alimentation = toAlimentationInput(&a)
		}
	}
	if len(patch.SpecialCares) > 0 {
		if isNull(patch.SpecialCares) {
			input.ClearSpecialCares = true
		} else {
			var s SpecialCares
			if err := json.Unmarshal(patch.SpecialCares, &s); err != nil {
				return petstypes.UpdatePetInput{}, fmt.Errorf("special_cares: %w", err)
			}
			input.SpecialCares = toSpecialCaresInput(&s)
		}
	}
	if len(patch.Photo) > 0 {
		if !isNull(patch.Photo) {
			return petstypes.UpdatePetInput{}, fmt.Errorf("photo: only null is accepted in JSON, upload a file with multipart/form-data")
		}
		input.ClearPhoto = true
	}
	return input, nil
}

// FromProjection maps a projection into its HTTP representation.
func FromProjection(p *petstypes.PetProjection) Pet {
	if p == nil || p.Entity == nil {
		return Pet{}
	}
	pet := p.Entity
	out := Pet{
		ID:             pet.ID,
		OwnerID:        pet.Custody.OwnerID,
		OrganizationID: pet.Custody.StewardID,
		Name:           pet.Name,
		Kind:           string(pet.Kind),
		Sex:            string(pet.Sex),
		Height:         string(pet.Height),
		Temperament:    string(pet.Temperament),
		Breed:          pet.Breed,
		Age:            pet.Age,
		Phone:          pet.Phone,
		Weight:         pet.Weight,
		Description:    pet.Description,
		IsAdopted:      pet.IsAdopted,
		CreatedAt:      p.Metadata.CreatedAt,
		UpdatedAt:      p.Metadata.UpdatedAt,
	}
	if pet.Photo != nil {
		out.Photo = Photo{URL: pet.Photo.URL, Name: pet.Photo.Name, Size: pet.Photo.Size}
	}
	if a := pet.Alimentation; a != nil {
		out.Alimentation = &AlimentationView{
			Qtd:          string(a.Qtd),
			Food:         a.Food,
			Frequency:    a.Frequency,
			Observations: a.Observations,
		}
	}
	if s := pet.SpecialCares; s != nil {
		out.SpecialCares = &SpecialCaresView{
			VeterinaryFrequency: s.VeterinaryFrequency,
			BathingFrequency:    s.BathingFrequency,
			ShearFrequency:      s.ShearFrequency,
			Diseases:            s.Diseases,
			ShearType:           s.ShearType,
			VeterinaryFeedback:  s.VeterinaryFeedback,
			Deworming:           s.Deworming,
			DewormingDate:       dateView(s.DewormingDate),
			Vaccination:         s.Vaccination,
			VaccinationDate:     dateView(s.VaccinationDate),
			IsCastrated:         s.IsCastrated,
			LastEstro:           dateView(s.LastEstro),
			Observations:        s.Observations,
		}
	}
	return out
}

// FromProjectionList maps many projections, always returning a non-nil slice.
func FromProjectionList(list []*petstypes.PetProjection) []Pet {
	result := make([]Pet, 0, len(list))
	for _, item := range list {
		if item == nil || item.Entity == nil {
			continue
		}
		result = append(result, FromProjection(item))
	}
	return result
}

func toAlimentationInput(a *Alimentation) *petstypes.AlimentationInput {
	if a == nil {
		return nil
	}
	return &petstypes.AlimentationInput{
		Qtd:          a.Qtd,
		Food:         a.Food,
		Frequency:    a.Frequency,
		Observations: a.Observations,
	}
}

func toSpecialCaresInput(s *SpecialCares) *petstypes.SpecialCaresInput {
	if s == nil {
		return nil
	}
	return &petstypes.SpecialCaresInput{
		VeterinaryFrequency: s.VeterinaryFrequency,
		BathingFrequency:    s.BathingFrequency,
		ShearFrequency:      s.ShearFrequency,
		Diseases:            s.Diseases,
		ShearType:           s.ShearType,
		VeterinaryFeedback:  s.VeterinaryFeedback,
		Deworming:           s.Deworming,
		DewormingDate:       s.DewormingDate,
		Vaccination:         s.Vaccination,
		VaccinationDate:     s.VaccinationDate,
		IsCastrated:         s.IsCastrated,
		LastEstro:           s.LastEstro,
		Observations:        s.Observations,
	}
}

func dateView(d domain.Date) *string {
	if d.IsZero() {
		return nil
	}
	value := string(d)
	return &value
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

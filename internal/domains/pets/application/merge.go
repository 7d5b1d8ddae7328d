package application

import (
	types "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
)

// applyFields copies every present field onto target. A dependent payload for a pet
// without that dependent starts from its defaults.
func applyFields(target *domain.Pet, fields types.PetFields) {
	setString(&target.Name, fields.Name)
	setEnum(&target.Kind, fields.Kind)
	setEnum(&target.Sex, fields.Sex)
	setEnum(&target.Height, fields.Height)
	setEnum(&target.Temperament, fields.Temperament)
	setString(&target.Breed, fields.Breed)
	if fields.Age != nil {
		age := *fields.Age
		target.Age = &age
	}
	setString(&target.Phone, fields.Phone)
	if fields.Weight != nil {
		target.Weight = *fields.Weight
	}
	setString(&target.Description, fields.Description)

	if fields.Alimentation != nil {
		if target.Alimentation == nil {
			target.Alimentation = domain.DefaultAlimentation()
		}
		applyAlimentation(target.Alimentation, *fields.Alimentation)
	}
	if fields.SpecialCares != nil {
		if target.SpecialCares == nil {
			target.SpecialCares = domain.DefaultSpecialCares()
		}
		applySpecialCares(target.SpecialCares, *fields.SpecialCares)
	}
}

func applyAlimentation(target *domain.Alimentation, in types.AlimentationInput) {
	setEnum(&target.Qtd, in.Qtd)
	setString(&target.Food, in.Food)
	setInt(&target.Frequency, in.Frequency)
	setString(&target.Observations, in.Observations)
}

func applySpecialCares(target *domain.SpecialCares, in types.SpecialCaresInput) {
	setInt(&target.VeterinaryFrequency, in.VeterinaryFrequency)
	setInt(&target.BathingFrequency, in.BathingFrequency)
	setInt(&target.ShearFrequency, in.ShearFrequency)
	setString(&target.Diseases, in.Diseases)
	setString(&target.ShearType, in.ShearType)
	setString(&target.VeterinaryFeedback, in.VeterinaryFeedback)
	setString(&target.Deworming, in.Deworming)
	setEnum(&target.DewormingDate, in.DewormingDate)
	setString(&target.Vaccination, in.Vaccination)
	setEnum(&target.VaccinationDate, in.VaccinationDate)
	if in.IsCastrated != nil {
		target.IsCastrated = *in.IsCastrated
	}
	setEnum(&target.LastEstro, in.LastEstro)
	setString(&target.Observations, in.Observations)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setEnum[T ~string](dst *T, src *string) {
	if src != nil {
		*dst = T(*src)
	}
}

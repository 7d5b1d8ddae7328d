package domain

import "time"

const (
	// MaxNameLength bounds Pet.Name.
	MaxNameLength = 30
	// MaxBreedLength bounds Pet.Breed.
	MaxBreedLength = 20
)

// Custody records which principal profile holds a pet. A stored pet has exactly one side set.
type Custody struct {
	OwnerID   *int64 `json:"ownerId,omitempty"`
	StewardID *int64 `json:"stewardId,omitempty"`
}

// OwnedBy is the custody of a pet kept by an individual.
func OwnedBy(individualID int64) Custody {
	return Custody{OwnerID: &individualID}
}

// StewardedBy is the custody of a pet kept for adoption by an organization.
func StewardedBy(organizationID int64) Custody {
	return Custody{StewardID: &organizationID}
}

// Valid reports whether exactly one of owner or steward is set.
func (c Custody) Valid() bool {
	return (c.OwnerID == nil) != (c.StewardID == nil)
}

// Covers reports whether a pet held under target falls within c.
// c may name both profiles of one account, in which case either side matches.
func (c Custody) Covers(target Custody) bool {
	if c.OwnerID != nil && target.OwnerID != nil && *c.OwnerID == *target.OwnerID {
		return true
	}
	return c.StewardID != nil && target.StewardID != nil && *c.StewardID == *target.StewardID
}

// Adoptable reports whether the custody describes a pet waiting in an organization.
func (c Custody) Adoptable() bool {
	return c.OwnerID == nil && c.StewardID != nil
}

// Photo references a blob held by the photo store.
type Photo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

// Alimentation is the optional feeding plan of a pet.
type Alimentation struct {
	Qtd          Size   `json:"qtd"`
	Food         string `json:"food"`
	Frequency    int    `json:"frequency"`
	Observations string `json:"observations"`
}

// SpecialCares is the optional health and grooming record of a pet.
type SpecialCares struct {
	VeterinaryFrequency int    `json:"veterinaryFrequency"`
	BathingFrequency    int    `json:"bathingFrequency"`
	ShearFrequency      int    `json:"shearFrequency"`
	Diseases            string `json:"diseases"`
	ShearType           string `json:"shearType"`
	VeterinaryFeedback  string `json:"veterinaryFeedback"`
	Deworming           string `json:"deworming"`
	DewormingDate       Date   `json:"dewormingDate,omitempty"`
	Vaccination         string `json:"vaccination"`
	VaccinationDate     Date   `json:"vaccinationDate,omitempty"`
	IsCastrated         bool   `json:"isCastrated"`
	LastEstro           Date   `json:"lastEstro,omitempty"`
	Observations        string `json:"observations"`
}

// Pet is the aggregate root; Alimentation and SpecialCares live and die with it.
type Pet struct {
	ID           int64         `json:"id"`
	Custody      Custody       `json:"custody"`
	Name         string        `json:"name"`
	Kind         Kind          `json:"kind"`
	Sex          Sex           `json:"sex"`
	Height       Size          `json:"height"`
	Temperament  Temperament   `json:"temperament"`
	Breed        string        `json:"breed"`
	Age          *int          `json:"age,omitempty"`
	Phone        string        `json:"phone"`
	Weight       float64       `json:"weight"`
	Description  string        `json:"description"`
	Photo        *Photo        `json:"photo,omitempty"`
	IsAdopted    bool          `json:"isAdopted"`
	Alimentation *Alimentation `json:"alimentation,omitempty"`
	SpecialCares *SpecialCares `json:"specialCares,omitempty"`
}

// Clone returns a deep copy so callers can merge into it without touching the original.
func (p *Pet) Clone() *Pet {
	if p == nil {
		return nil
	}
	c := *p
	if p.Custody.OwnerID != nil {
		id := *p.Custody.OwnerID
		c.Custody.OwnerID = &id
	}
	if p.Custody.StewardID != nil {
		id := *p.Custody.StewardID
		c.Custody.StewardID = &id
	}
	if p.Age != nil {
		age := *p.Age
		c.Age = &age
	}
	if p.Photo != nil {
		photo := *p.Photo
		c.Photo = &photo
	}
	if p.Alimentation != nil {
		a := *p.Alimentation
		c.Alimentation = &a
	}
	if p.SpecialCares != nil {
		s := *p.SpecialCares
		c.SpecialCares = &s
	}
	return &c
}

// Validate checks the whole aggregate in a fixed order and returns the first violation.
func (p *Pet) Validate(now time.Time) error {
	if err := RequireNonEmpty("name", p.Name); err != nil {
		return err
	}
	if err := RequireMaxLength("name", p.Name, MaxNameLength); err != nil {
		return err
	}
	if err := requireMember("kind", p.Kind, kinds); err != nil {
		return err
	}
	if err := requireMember("sex", p.Sex, sexes); err != nil {
		return err
	}
	if err := requireMember("height", p.Height, sizes); err != nil {
		return err
	}
	if err := requireMember("temperament", p.Temperament, temperaments); err != nil {
		return err
	}
	if err := RequireMaxLength("breed", p.Breed, MaxBreedLength); err != nil {
		return err
	}
	if p.Age != nil {
		if err := RequireNonNegative("age", *p.Age); err != nil {
			return err
		}
	}
	if err := RequireNonNegative("weight", p.Weight); err != nil {
		return err
	}
	if err := RequirePhone("phone", p.Phone); err != nil {
		return err
	}
	if p.Alimentation != nil {
		if err := p.Alimentation.Validate(); err != nil {
			return err
		}
	}
	if p.SpecialCares != nil {
		if err := p.SpecialCares.Validate(now); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks qtd, food, then frequency.
func (a *Alimentation) Validate() error {
	if err := requireMember("qtd", a.Qtd, sizes); err != nil {
		return err
	}
	if err := RequireNonEmpty("food", a.Food); err != nil {
		return err
	}
	if a.Frequency == 0 {
		return RequireNonEmpty("frequency", "")
	}
	return RequireNonNegative("frequency", a.Frequency)
}

// Validate checks the frequencies, then each date field.
func (s *SpecialCares) Validate(now time.Time) error {
	frequencies := []struct {
		field string
		value int
	}{
		{"veterinary_frequency", s.VeterinaryFrequency},
		{"bathing_frequency", s.BathingFrequency},
		{"shear_frequency", s.ShearFrequency},
	}
	for _, f := range frequencies {
		if err := RequireNonNegative(f.field, f.value); err != nil {
			return err
		}
	}
	dates := []struct {
		field string
		value Date
	}{
		{"deworming_date", s.DewormingDate},
		{"vaccination_date", s.VaccinationDate},
		{"last_estro", s.LastEstro},
	}
	for _, d := range dates {
		if d.value.IsZero() {
			continue
		}
		if err := RequirePastOrPresentDate(d.field, string(d.value), now); err != nil {
			return err
		}
	}
	return nil
}

// DefaultAlimentation is the starting point for a feeding plan built from a partial payload.
func DefaultAlimentation() *Alimentation {
	return &Alimentation{}
}

// DefaultSpecialCares is the starting point for a special cares record built from a partial payload.
func DefaultSpecialCares() *SpecialCares {
	return &SpecialCares{}
}

package domain

// Kind is the species of a pet.
type Kind string

const (
	KindCat Kind = "CAT"
	KindDog Kind = "DOG"
)

// Sex of a pet.
type Sex string

const (
	SexFemale Sex = "FEMALE"
	SexMale   Sex = "MALE"
)

// Size is used for a pet's height and for the daily food quantity.
type Size string

const (
	SizeSmall  Size = "SMALL"
	SizeMedium Size = "MEDIUM"
	SizeBig    Size = "BIG"
)

// Temperament of a pet.
type Temperament string

const (
	TemperamentDocile   Temperament = "DOCILE"
	TemperamentFriendly Temperament = "FRIENDLY"
	TemperamentBrave    Temperament = "BRAVE"
)

var (
	kinds        = []Kind{KindCat, KindDog}
	sexes        = []Sex{SexFemale, SexMale}
	sizes        = []Size{SizeSmall, SizeMedium, SizeBig}
	temperaments = []Temperament{TemperamentDocile, TemperamentFriendly, TemperamentBrave}
)

// Kinds lists every declared Kind.
func Kinds() []Kind { return append([]Kind(nil), kinds...) }

// Sexes lists every declared Sex.
func Sexes() []Sex { return append([]Sex(nil), sexes...) }

// Sizes lists every declared Size.
func Sizes() []Size { return append([]Size(nil), sizes...) }

// Temperaments lists every declared Temperament.
func Temperaments() []Temperament { return append([]Temperament(nil), temperaments...) }

func (k Kind) Valid() bool        { return isMember(k, kinds) }
func (s Sex) Valid() bool         { return isMember(s, sexes) }
func (s Size) Valid() bool        { return isMember(s, sizes) }
func (t Temperament) Valid() bool { return isMember(t, temperaments) }

func isMember[T ~string](value T, allowed []T) bool {
	for _, candidate := range allowed {
		if candidate == value {
			return true
		}
	}
	return false
}

func literals[T ~string](allowed []T) []string {
	out := make([]string, 0, len(allowed))
	for _, v := range allowed {
		out = append(out, string(v))
	}
	return out
}

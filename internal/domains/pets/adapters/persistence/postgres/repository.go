package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petguard-api/internal/domains/pets/domain"
	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
	"github.com/Apurer/petguard-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists pets and their dependents in PostgreSQL. Schema is owned by the migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PetRecord is the row stored in pets. Exactly one of OwnerID and StewardID is set.
type PetRecord struct {
	ID               int64               `gorm:"primaryKey;column:id"`
	OwnerID          *int64              `gorm:"column:owner_id;index;check:pets_custody_xor,(owner_id IS NULL) <> (steward_id IS NULL)"`
	StewardID        *int64              `gorm:"column:steward_id;index"`
	Name             string              `gorm:"column:name;size:30;not null"`
	Kind             string              `gorm:"column:kind;size:8;not null;index"`
	Sex              string              `gorm:"column:sex;size:8;not null"`
	Height           string              `gorm:"column:height;size:8;not null"`
	Temperament      string              `gorm:"column:temperament;size:16;not null"`
	Breed            string              `gorm:"column:breed;size:20"`
	Age              *int                `gorm:"column:age"`
	Phone            string              `gorm:"column:phone;size:32"`
	Weight           float64             `gorm:"column:weight"`
	Description      string              `gorm:"column:description;type:text"`
	PhotoKey         string              `gorm:"column:photo_key"`
	PhotoName        string              `gorm:"column:photo_name"`
	PhotoContentType string              `gorm:"column:photo_content_type"`
	PhotoSize        int64               `gorm:"column:photo_size"`
	PhotoURL         string              `gorm:"column:photo_url"`
	IsAdopted        bool                `gorm:"column:is_adopted;not null;default:false"`
	CreatedAt        time.Time           `gorm:"column:created_at;index"`
	UpdatedAt        time.Time           `gorm:"column:updated_at"`
	Alimentation     *AlimentationRecord `gorm:"foreignKey:PetID;constraint:OnDelete:CASCADE"`
	SpecialCares     *SpecialCaresRecord `gorm:"foreignKey:PetID;constraint:OnDelete:CASCADE"`
}

func (PetRecord) TableName() string { return "pets" }

// AlimentationRecord is the 1:1 feeding plan row of a pet.
type AlimentationRecord struct {
	ID           int64  `gorm:"primaryKey;column:id"`
	PetID        int64  `gorm:"column:pet_id;uniqueIndex;not null"`
	Qtd          string `gorm:"column:qtd;size:8;not null"`
	Food         string `gorm:"column:food;not null"`
	Frequency    int    `gorm:"column:frequency;not null"`
	Observations string `gorm:"column:observations;type:text"`
}

func (AlimentationRecord) TableName() string { return "pet_alimentations" }

// SpecialCaresRecord is the 1:1 special cares row of a pet.
type SpecialCaresRecord struct {
	ID                  int64      `gorm:"primaryKey;column:id"`
	PetID               int64      `gorm:"column:pet_id;uniqueIndex;not null"`
	VeterinaryFrequency int        `gorm:"column:veterinary_frequency;not null;default:0"`
	BathingFrequency    int        `gorm:"column:bathing_frequency;not null;default:0"`
	ShearFrequency      int        `gorm:"column:shear_frequency;not null;default:0"`
	Diseases            string     `gorm:"column:diseases;type:text"`
	ShearType           string     `gorm:"column:shear_type"`
	VeterinaryFeedback  string     `gorm:"column:veterinary_feedback;type:text"`
	Deworming           string     `gorm:"column:deworming"`
	DewormingDate       *time.Time `gorm:"column:deworming_date;type:date"`
	Vaccination         string     `gorm:"column:vaccination"`
	VaccinationDate     *time.Time `gorm:"column:vaccination_date;type:date"`
	IsCastrated         bool       `gorm:"column:is_castrated;not null;default:false"`
	LastEstro           *time.Time `gorm:"column:last_estro;type:date"`
	Observations        string     `gorm:"column:observations;type:text"`
}

func (SpecialCaresRecord) TableName() string { return "pet_special_cares" }

// Create inserts the pet and its dependents in one transaction.
func (r *Repository) Create(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("cannot create nil pet")
	}
	if !pet.Custody.Valid() {
		return nil, errors.New("pet must have exactly one of owner or steward")
	}
	record := newPetRecord(pet)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			return err
		}
		return writeDependents(tx, record.ID, pet)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// Update overwrites the pet columns and reconciles dependents in one transaction.
// Custody and created_at are kept from the stored row.
func (r *Repository) Update(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("cannot update nil pet")
	}
	record := newPetRecord(pet)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing PetRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, "id = ?", pet.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		record.OwnerID = existing.OwnerID
		record.StewardID = existing.StewardID
		record.CreatedAt = existing.CreatedAt
		if err := tx.Omit(clause.Associations).Save(&record).Error; err != nil {
			return err
		}
		return writeDependents(tx, record.ID, pet)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// Delete removes the dependents, then the pet, in one transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pet_id = ?", id).Delete(&AlimentationRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pet_id = ?", id).Delete(&SpecialCaresRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&PetRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

// GetByID fetches a pet by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return first(r.withDependents(ctx).Where("id = ?", id))
}

// GetScoped fetches a pet whose custody is covered by scope.
func (r *Repository) GetScoped(ctx context.Context, id int64, scope domain.Custody) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	holders, ok := holdersClause(scope)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return first(r.withDependents(ctx).Where("id = ?", id).Where(holders))
}

// List applies the filter in SQL, ordered by creation then ID.
func (r *Repository) List(ctx context.Context, filter domain.ListFilter) ([]*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.withDependents(ctx)
	if filter.Adoptable {
		query = query.Where("owner_id IS NULL AND steward_id IS NOT NULL AND is_adopted = ?", false)
	} else {
		holders, ok := holdersClause(filter.Holders)
		if !ok {
			return []*projection.Projection[*domain.Pet]{}, nil
		}
		query = query.Where(holders)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		if len(filter.SearchStewardIDs) > 0 {
			query = query.Where(r.db.Where("name ILIKE ?", pattern).Or("steward_id IN ?", filter.SearchStewardIDs))
		} else {
			query = query.Where("name ILIKE ?", pattern)
		}
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", string(filter.Kind))
	}
	if filter.IsAdopted != nil {
		query = query.Where("is_adopted = ?", *filter.IsAdopted)
	}
	query = query.Order("created_at ASC").Order("id ASC")
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	if filter.First > 0 {
		query = query.Limit(filter.First)
	}
	var records []PetRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Pet], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) withDependents(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&PetRecord{}).Preload("Alimentation").Preload("SpecialCares")
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres repository not configured")
	}
	return nil
}

func first(query *gorm.DB) (*projection.Projection[*domain.Pet], error) {
	var record PetRecord
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func holdersClause(scope domain.Custody) (clause.Expression, bool) {
	switch {
	case scope.OwnerID != nil && scope.StewardID != nil:
		return clause.Or(
			clause.Eq{Column: clause.Column{Name: "owner_id"}, Value: *scope.OwnerID},
			clause.Eq{Column: clause.Column{Name: "steward_id"}, Value: *scope.StewardID},
		), true
	case scope.OwnerID != nil:
		return clause.Eq{Column: clause.Column{Name: "owner_id"}, Value: *scope.OwnerID}, true
	case scope.StewardID != nil:
		return clause.Eq{Column: clause.Column{Name: "steward_id"}, Value: *scope.StewardID}, true
	default:
		return nil, false
	}
}

func writeDependents(tx *gorm.DB, petID int64, pet *domain.Pet) error {
	upsert := clause.OnConflict{Columns: []clause.Column{{Name: "pet_id"}}, UpdateAll: true}
	if pet.Alimentation != nil {
		rec := newAlimentationRecord(petID, pet.Alimentation)
		if err := tx.Clauses(upsert).Create(&rec).Error; err != nil {
			return err
		}
	} else if err := tx.Where("pet_id = ?", petID).Delete(&AlimentationRecord{}).Error; err != nil {
		return err
	}
	if pet.SpecialCares != nil {
		rec, err := newSpecialCaresRecord(petID, pet.SpecialCares)
		if err != nil {
			return err
		}
		if err := tx.Clauses(upsert).Create(&rec).Error; err != nil {
			return err
		}
	} else if err := tx.Where("pet_id = ?", petID).Delete(&SpecialCaresRecord{}).Error; err != nil {
		return err
	}
	return nil
}

func newPetRecord(p *domain.Pet) PetRecord {
	rec := PetRecord{
		ID:          p.ID,
		OwnerID:     p.Custody.OwnerID,
		StewardID:   p.Custody.StewardID,
		Name:        p.Name,
		Kind:        string(p.Kind),
		Sex:         string(p.Sex),
		Height:      string(p.Height),
		Temperament: string(p.Temperament),
		Breed:       p.Breed,
		Age:         p.Age,
		Phone:       p.Phone,
		Weight:      p.Weight,
		Description: p.Description,
		IsAdopted:   p.IsAdopted,
	}
	if p.Photo != nil {
		rec.PhotoKey = p.Photo.Key
		rec.PhotoName = p.Photo.Name
		rec.PhotoContentType = p.Photo.ContentType
		rec.PhotoSize = p.Photo.Size
		rec.PhotoURL = p.Photo.URL
	}
	return rec
}

func newAlimentationRecord(petID int64, a *domain.Alimentation) AlimentationRecord {
	return AlimentationRecord{
		PetID:        petID,
		Qtd:          string(a.Qtd),
		Food:         a.Food,
		Frequency:    a.Frequency,
		Observations: a.Observations,
	}
}

func newSpecialCaresRecord(petID int64, s *domain.SpecialCares) (SpecialCaresRecord, error) {
	rec := SpecialCaresRecord{
		PetID:               petID,
		VeterinaryFrequency: s.VeterinaryFrequency,
		BathingFrequency:    s.BathingFrequency,
		ShearFrequency:      s.ShearFrequency,
		Diseases:            s.Diseases,
		ShearType:           s.ShearType,
		VeterinaryFeedback:  s.VeterinaryFeedback,
		Deworming:           s.Deworming,
		Vaccination:         s.Vaccination,
		IsCastrated:         s.IsCastrated,
		Observations:        s.Observations,
	}
	var err error
	if rec.DewormingDate, err = dateColumn(s.DewormingDate); err != nil {
		return rec, err
	}
	if rec.VaccinationDate, err = dateColumn(s.VaccinationDate); err != nil {
		return rec, err
	}
	if rec.LastEstro, err = dateColumn(s.LastEstro); err != nil {
		return rec, err
	}
	return rec, nil
}

func dateColumn(d domain.Date) (*time.Time, error) {
	if d.IsZero() {
		return nil, nil
	}
	t, err := d.Time()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func dateValue(t *time.Time) domain.Date {
	if t == nil {
		return ""
	}
	return domain.DateOf(*t)
}

func (r *PetRecord) toProjection() *projection.Projection[*domain.Pet] {
	pet := &domain.Pet{
		ID:          r.ID,
		Custody:     domain.Custody{OwnerID: r.OwnerID, StewardID: r.StewardID},
		Name:        r.Name,
		Kind:        domain.Kind(r.Kind),
		Sex:         domain.Sex(r.Sex),
		Height:      domain.Size(r.Height),
		Temperament: domain.Temperament(r.Temperament),
		Breed:       r.Breed,
		Age:         r.Age,
		Phone:       r.Phone,
		Weight:      r.Weight,
		Description: r.Description,
		IsAdopted:   r.IsAdopted,
	}
	if r.PhotoKey != "" {
		pet.Photo = &domain.Photo{
			Key:         r.PhotoKey,
			Name:        r.PhotoName,
			ContentType: r.PhotoContentType,
			Size:        r.PhotoSize,
			URL:         r.PhotoURL,
		}
	}
	if a := r.Alimentation; a != nil {
		pet.Alimentation = &domain.Alimentation{
			Qtd:          domain.Size(a.Qtd),
			Food:         a.Food,
			Frequency:    a.Frequency,
			Observations: a.Observations,
		}
	}
	if s := r.SpecialCares; s != nil {
		pet.SpecialCares = &domain.SpecialCares{
			VeterinaryFrequency: s.VeterinaryFrequency,
			BathingFrequency:    s.BathingFrequency,
			ShearFrequency:      s.ShearFrequency,
			Diseases:            s.Diseases,
			ShearType:           s.ShearType,
			VeterinaryFeedback:  s.VeterinaryFeedback,
			Deworming:           s.Deworming,
			DewormingDate:       dateValue(s.DewormingDate),
			Vaccination:         s.Vaccination,
			VaccinationDate:     dateValue(s.VaccinationDate),
			IsCastrated:         s.IsCastrated,
			LastEstro:           dateValue(s.LastEstro),
			Observations:        s.Observations,
		}
	}
	return projection.New(pet.Clone(), projection.Created(r.CreatedAt).Touch(r.UpdatedAt))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

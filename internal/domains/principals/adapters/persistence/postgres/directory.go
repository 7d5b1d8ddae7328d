package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/petguard-api/internal/domains/principals/domain"
	"github.com/Apurer/petguard-api/internal/domains/principals/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory persists accounts and principal profiles in PostgreSQL using GORM.
type Directory struct {
	db *gorm.DB
}

// NewDirectory wires a PostgreSQL-backed directory. Caller manages DB lifecycle and migrations.
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// AccountRecord is the row stored in accounts.
type AccountRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Username     string    `gorm:"column:username;size:150;uniqueIndex"`
	Email        *string   `gorm:"column:email;size:254;uniqueIndex"`
	Name         string    `gorm:"column:name;size:150"`
	Phone        string    `gorm:"column:phone;size:20"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (AccountRecord) TableName() string { return "accounts" }

type IndividualRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	AccountID int64     `gorm:"column:account_id;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (IndividualRecord) TableName() string { return "individuals" }

// OrganizationRecord holds the registration number of an organization profile.
type OrganizationRecord struct {
	ID                 int64     `gorm:"primaryKey;column:id"`
	AccountID          int64     `gorm:"column:account_id;uniqueIndex"`
	RegistrationNumber string    `gorm:"column:registration_number;size:18;index"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

func (OrganizationRecord) TableName() string { return "organizations" }

// CreateAccount inserts the account and its profile in one transaction.
func (d *Directory) CreateAccount(ctx context.Context, account *domain.Account, kind domain.Kind, registrationNumber string) (*domain.Account, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("account is nil")
	}
	record := toAccountRecord(account)
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clashes := tx.Model(&AccountRecord{}).Where("email = ?", record.Username)
		if record.Email != nil {
			clashes = clashes.Or("username = ?", *record.Email)
		}
		var count int64
		if err := clashes.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ports.ErrDuplicateAccount
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrDuplicateAccount
			}
			return err
		}
		switch kind {
		case domain.KindOrganization:
			return tx.Create(&OrganizationRecord{AccountID: record.ID, RegistrationNumber: registrationNumber}).Error
		case domain.KindIndividual:
			return tx.Create(&IndividualRecord{AccountID: record.ID}).Error
		default:
			return domain.ErrUnknownKind
		}
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (d *Directory) AccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	var record AccountRecord
	if err := d.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (d *Directory) AccountByIdentity(ctx context.Context, identity string) (*domain.Account, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	identity = strings.TrimSpace(identity)
	var record AccountRecord
	if err := d.db.WithContext(ctx).
		Where("email = ? OR username = ?", identity, identity).
		Order("id").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (d *Directory) Profiles(ctx context.Context, accountID int64) (domain.Profiles, error) {
	if err := d.ensureDB(); err != nil {
		return domain.Profiles{}, err
	}
	var profiles domain.Profiles
	var individuals []IndividualRecord
	if err := d.db.WithContext(ctx).Where("account_id = ?", accountID).Limit(1).Find(&individuals).Error; err != nil {
		return domain.Profiles{}, err
	}
	if len(individuals) > 0 {
		profiles.Individual = &domain.Individual{ID: individuals[0].ID, AccountID: individuals[0].AccountID}
	}
	var organizations []OrganizationRecord
	if err := d.db.WithContext(ctx).Where("account_id = ?", accountID).Limit(1).Find(&organizations).Error; err != nil {
		return domain.Profiles{}, err
	}
	if len(organizations) > 0 {
		org := organizations[0].toDomain()
		profiles.Organization = &org
	}
	return profiles, nil
}

func (d *Directory) FindOrganizations(ctx context.Context, term string) ([]domain.Organization, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	var records []OrganizationRecord
	if err := d.db.WithContext(ctx).
		Model(&OrganizationRecord{}).
		Select("organizations.*").
		Joins("JOIN accounts ON accounts.id = organizations.account_id").
		Where("accounts.name = ? OR accounts.email = ? OR organizations.registration_number = ?", term, term, term).
		Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Organization, 0, len(records))
	for _, r := range records {
		result = append(result, r.toDomain())
	}
	return result, nil
}

func (d *Directory) ensureDB() error {
	if d == nil || d.db == nil {
		return errors.New("postgres principal directory not configured")
	}
	return nil
}

func toAccountRecord(a *domain.Account) AccountRecord {
	record := AccountRecord{
		ID:           a.ID,
		Username:     a.Username,
		Name:         a.Name,
		Phone:        a.Phone,
		PasswordHash: a.PasswordHash,
	}
	if a.Email != "" {
		email := a.Email
		record.Email = &email
	}
	return record
}

func (r AccountRecord) toDomain() *domain.Account {
	account := &domain.Account{
		ID:           r.ID,
		Username:     r.Username,
		Name:         r.Name,
		Phone:        r.Phone,
		PasswordHash: r.PasswordHash,
	}
	if r.Email != nil {
		account.Email = *r.Email
	}
	return account
}

func (r OrganizationRecord) toDomain() domain.Organization {
	return domain.Organization{ID: r.ID, AccountID: r.AccountID, RegistrationNumber: r.RegistrationNumber}
}

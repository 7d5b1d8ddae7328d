package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petguard-api/internal/domains/principals/domain"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrDuplicateAccount   = errors.New("account with this username or email already exists")
	ErrInvalidCredentials = errors.New("invalid identity or password")
)

// Directory persists accounts and their principal profiles.
type Directory interface {
	// CreateAccount stores the account together with one profile of the given kind.
	CreateAccount(ctx context.Context, account *domain.Account, kind domain.Kind, registrationNumber string) (*domain.Account, error)
	AccountByID(ctx context.Context, id int64) (*domain.Account, error)
	// AccountByIdentity matches the email or the username exactly.
	AccountByIdentity(ctx context.Context, identity string) (*domain.Account, error)
	Profiles(ctx context.Context, accountID int64) (domain.Profiles, error)
	// FindOrganizations matches the organization's account name, account email, or registration number exactly.
	FindOrganizations(ctx context.Context, term string) ([]domain.Organization, error)
}

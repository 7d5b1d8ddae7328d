package ports

import (
	"context"

	"github.com/Apurer/petguard-api/internal/domains/principals/domain"
)

// RegisterInput carries a new account and the profile it acts through.
type RegisterInput struct {
	Kind               domain.Kind
	Username           string
	Email              string
	Name               string
	Phone              string
	Password           string
	RegistrationNumber string
}

// Service exposes the principals use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, identity, password string) (*domain.Session, error)
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
	Logout(ctx context.Context, token string) error
	Resolver
}

// Resolver answers the scope questions other contexts ask about accounts.
type Resolver interface {
	// ResolveScope maps an authenticated account to exactly one principal variant.
	ResolveScope(ctx context.Context, account *domain.Account) (domain.Principal, error)
	// LookupAccount finds an account by email or username.
	LookupAccount(ctx context.Context, identity string) (*domain.Account, error)
	Profiles(ctx context.Context, accountID int64) (domain.Profiles, error)
	FindOrganizations(ctx context.Context, term string) ([]domain.Organization, error)
}

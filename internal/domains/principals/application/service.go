package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/petguard-api/internal/domains/principals/domain"
	"github.com/Apurer/petguard-api/internal/domains/principals/ports"
	"github.com/Apurer/petguard-api/internal/shared/faults"
)

// DefaultSessionTTL is used when no TTL option is supplied.
const DefaultSessionTTL = 24 * time.Hour

// Service exposes account, session, and scope resolution use cases.
type Service struct {
	directory ports.Directory
	sessions  ports.SessionStore
	ttl       time.Duration
	now       func() time.Time
	newToken  func() string
}

// Option customises the service.
type Option func(*Service)

// WithSessionTTL sets how long issued tokens stay valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(directory ports.Directory, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		directory: directory,
		sessions:  sessions,
		ttl:       DefaultSessionTTL,
		now:       time.Now,
		newToken:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates an account with its individual or organization profile.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	if !input.Kind.Valid() {
		return nil, mapError(domain.ErrUnknownKind)
	}
	account, err := domain.NewAccount(input.Username, input.Email, input.Name, input.Phone, input.Password)
	if err != nil {
		return nil, mapError(err)
	}
	registration := ""
	if input.Kind == domain.KindOrganization {
		registration = strings.TrimSpace(input.RegistrationNumber)
	}
	saved, err := s.directory.CreateAccount(ctx, account, input.Kind, registration)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login checks credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, identity, password string) (*domain.Session, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" || strings.TrimSpace(password) == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	account, err := s.directory.AccountByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, err
	}
	if !account.CheckPassword(password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	session := domain.Session{
		Token:     s.newToken(),
		AccountID: account.ID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Authenticate resolves a bearer token to its account. Unknown or expired tokens are NotAuthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, faults.NotAuthenticated()
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, faults.NotAuthenticated()
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, faults.NotAuthenticated()
	}
	account, err := s.directory.AccountByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, faults.NotAuthenticated()
		}
		return nil, err
	}
	return account, nil
}

// Logout revokes a token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// ResolveScope maps the account to its principal. The individual profile wins when both exist.
func (s *Service) ResolveScope(ctx context.Context, account *domain.Account) (domain.Principal, error) {
	if account == nil {
		return domain.Principal{}, faults.NotAuthenticated()
	}
	profiles, err := s.directory.Profiles(ctx, account.ID)
	if err != nil {
		return domain.Principal{}, err
	}
	switch {
	case profiles.Individual != nil:
		return domain.Principal{Kind: domain.KindIndividual, ProfileID: profiles.Individual.ID, Account: *account}, nil
	case profiles.Organization != nil:
		return domain.Principal{Kind: domain.KindOrganization, ProfileID: profiles.Organization.ID, Account: *account}, nil
	default:
		return domain.Principal{}, faults.UnregisteredPrincipal(account.Identity())
	}
}

// LookupAccount finds an account by email or username.
func (s *Service) LookupAccount(ctx context.Context, identity string) (*domain.Account, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, faults.NotFound("account", identity)
	}
	account, err := s.directory.AccountByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, faults.NotFound("account", identity)
		}
		return nil, err
	}
	return account, nil
}

// Profiles returns every profile attached to the account.
func (s *Service) Profiles(ctx context.Context, accountID int64) (domain.Profiles, error) {
	return s.directory.Profiles(ctx, accountID)
}

// FindOrganizations matches organizations by exact name, email, or registration number.
func (s *Service) FindOrganizations(ctx context.Context, term string) ([]domain.Organization, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	return s.directory.FindOrganizations(ctx, term)
}

var _ ports.Service = (*Service)(nil)

package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Apurer/petguard-api/internal/domains/principals/domain"
	"github.com/Apurer/petguard-api/internal/domains/principals/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory is an in-memory account directory used for development and tests.
type Directory struct {
	mu            sync.RWMutex
	accounts      map[int64]domain.Account
	individuals   map[int64]domain.Individual
	organizations map[int64]domain.Organization
	nextAccount   int64
	nextProfile   int64
}

// NewDirectory constructs an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		accounts:      map[int64]domain.Account{},
		individuals:   map[int64]domain.Individual{},
		organizations: map[int64]domain.Organization{},
	}
}

// CreateAccount stores the account and one profile of kind.
func (d *Directory) CreateAccount(_ context.Context, account *domain.Account, kind domain.Kind, registrationNumber string) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("cannot create nil account")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.accounts {
		if claims(existing, account.Username) || (account.Email != "" && claims(existing, account.Email)) {
			return nil, ports.ErrDuplicateAccount
		}
	}
	d.nextAccount++
	stored := *account
	stored.ID = d.nextAccount
	d.accounts[stored.ID] = stored

	d.nextProfile++
	switch kind {
	case domain.KindOrganization:
		d.organizations[d.nextProfile] = domain.Organization{ID: d.nextProfile, AccountID: stored.ID, RegistrationNumber: registrationNumber}
	case domain.KindIndividual:
		d.individuals[d.nextProfile] = domain.Individual{ID: d.nextProfile, AccountID: stored.ID}
	}
	result := stored
	return &result, nil
}

// AttachIndividual adds an individual profile to an existing account.
func (d *Directory) AttachIndividual(accountID int64) (domain.Individual, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.accounts[accountID]; !ok {
		return domain.Individual{}, ports.ErrNotFound
	}
	d.nextProfile++
	profile := domain.Individual{ID: d.nextProfile, AccountID: accountID}
	d.individuals[profile.ID] = profile
	return profile, nil
}

// DetachProfiles removes every profile of the account, leaving a bare login.
func (d *Directory) DetachProfiles(accountID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, p := range d.individuals {
		if p.AccountID == accountID {
			delete(d.individuals, id)
		}
	}
	for id, p := range d.organizations {
		if p.AccountID == accountID {
			delete(d.organizations, id)
		}
	}
}

func (d *Directory) AccountByID(_ context.Context, id int64) (*domain.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	account, ok := d.accounts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &account, nil
}

func (d *Directory) AccountByIdentity(_ context.Context, identity string) (*domain.Account, error) {
	identity = strings.TrimSpace(identity)
	d.mu.RLock()
	defer d.mu.RUnlock()
	var found *domain.Account
	for _, account := range d.accounts {
		if claims(account, identity) && (found == nil || account.ID < found.ID) {
			match := account
			found = &match
		}
	}
	if found == nil {
		return nil, ports.ErrNotFound
	}
	return found, nil
}

// claims reports whether identity is the username or the email of account.
func claims(account domain.Account, identity string) bool {
	return account.Username == identity || (account.Email != "" && account.Email == identity)
}

func (d *Directory) Profiles(_ context.Context, accountID int64) (domain.Profiles, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var profiles domain.Profiles
	for _, p := range d.individuals {
		if p.AccountID == accountID {
			found := p
			profiles.Individual = &found
			break
		}
	}
	for _, p := range d.organizations {
		if p.AccountID == accountID {
			found := p
			profiles.Organization = &found
			break
		}
	}
	return profiles, nil
}

func (d *Directory) FindOrganizations(_ context.Context, term string) ([]domain.Organization, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var matches []domain.Organization
	for _, org := range d.organizations {
		account := d.accounts[org.AccountID]
		if account.Name == term || account.Email == term || (org.RegistrationNumber != "" && org.RegistrationNumber == term) {
			matches = append(matches, org)
		}
	}
	return matches, nil
}

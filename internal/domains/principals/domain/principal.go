package domain

import (
	"errors"
	"time"
)

// ErrUnknownKind is returned for a principal kind outside INDIVIDUAL and ORGANIZATION.
var ErrUnknownKind = errors.New("principal kind must be INDIVIDUAL or ORGANIZATION")

// Kind distinguishes the two principal variants.
type Kind string

const (
	KindIndividual   Kind = "INDIVIDUAL"
	KindOrganization Kind = "ORGANIZATION"
)

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	return k == KindIndividual || k == KindOrganization
}

// Individual is the profile of an account that owns pets.
type Individual struct {
	ID        int64
	AccountID int64
}

// Organization is the profile of an account that stewards pets for adoption.
type Organization struct {
	ID                 int64
	AccountID          int64
	RegistrationNumber string
}

// Profiles are the principal profiles attached to one account. Either or both may be nil.
type Profiles struct {
	Individual   *Individual
	Organization *Organization
}

// Principal is the resolved actor behind an account: exactly one profile, tagged by Kind.
type Principal struct {
	Kind      Kind
	ProfileID int64
	Account   Account
}

// IsOrganization reports whether the principal acts as an organization.
func (p Principal) IsOrganization() bool {
	return p.Kind == KindOrganization
}

// Session binds a bearer token to an account until ExpiresAt.
type Session struct {
	Token     string
	AccountID int64
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

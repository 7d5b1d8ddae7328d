package domain

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/petguard-api/internal/shared/phone"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	// ErrUsernameAt keeps usernames and emails in disjoint identity spaces.
	ErrUsernameAt = errors.New("username cannot contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
	ErrEmptyName     = errors.New("name is required")
	ErrInvalidPhone  = errors.New("phone must be a phone number with 8 to 15 digits")
)

const minPasswordLength = 6

// Account is the login identity behind a principal.
type Account struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
}

// NewAccount validates the identity fields and hashes the password.
func NewAccount(username, email, name, phone, password string) (*Account, error) {
	a := &Account{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Name:     strings.TrimSpace(name),
		Phone:    strings.TrimSpace(phone),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := a.SetPassword(password); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate re-applies the identity invariants.
func (a *Account) Validate() error {
	if a.Username == "" {
		return ErrEmptyUsername
	}
	if strings.Contains(a.Username, "@") {
		return ErrUsernameAt
	}
	if a.Name == "" {
		return ErrEmptyName
	}
	if a.Email != "" && !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if a.Phone != "" && !phone.Valid(a.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// SetPassword stores a bcrypt hash of password.
func (a *Account) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares password against the stored hash.
func (a *Account) CheckPassword(password string) bool {
	if a.PasswordHash == "" || strings.TrimSpace(password) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(strings.TrimSpace(password))) == nil
}

// Identity is the string other callers use to address the account: email, or username when no email is set.
func (a *Account) Identity() string {
	if a.Email != "" {
		return a.Email
	}
	return a.Username
}

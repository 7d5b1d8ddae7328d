package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount_HashesPassword(t *testing.T) {
	account, err := NewAccount(" ana ", "ana@example.com", "Ana", "+5561999990000", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "ana", account.Username)
	assert.NotEqual(t, "secret-pass", account.PasswordHash)
	assert.True(t, account.CheckPassword("secret-pass"))
	assert.False(t, account.CheckPassword("wrong-pass"))
}

func TestNewAccount_Invariants(t *testing.T) {
	_, err := NewAccount("", "ana@example.com", "Ana", "", "secret-pass")
	require.ErrorIs(t, err, ErrEmptyUsername)

	_, err = NewAccount("shared@example.com", "ana@example.com", "Ana", "", "secret-pass")
	require.ErrorIs(t, err, ErrUsernameAt)

	_, err = NewAccount("ana", "not-an-email", "Ana", "", "secret-pass")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewAccount("ana", "ana@example.com", "Ana", "", "abc")
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = NewAccount("ana", "ana@example.com", "", "", "secret-pass")
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewAccount("ana", "ana@example.com", "Ana", "call me maybe! 999", "secret-pass")
	require.ErrorIs(t, err, ErrInvalidPhone)
}

func TestIdentity_FallsBackToUsername(t *testing.T) {
	assert.Equal(t, "ana@example.com", (&Account{Username: "ana", Email: "ana@example.com"}).Identity())
	assert.Equal(t, "ana", (&Account{Username: "ana"}).Identity())
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
	assert.False(t, Session{}.Expired(now))
}

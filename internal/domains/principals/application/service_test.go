package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	principalmemory "github.com/Apurer/petguard-api/internal/domains/principals/adapters/memory"
	"github.com/Apurer/petguard-api/internal/domains/principals/domain"
	"github.com/Apurer/petguard-api/internal/domains/principals/ports"
	"github.com/Apurer/petguard-api/internal/shared/faults"
)

func newTestService(t *testing.T, now *time.Time) (*Service, *principalmemory.Directory) {
	t.Helper()
	directory := principalmemory.NewDirectory()
	sessions := principalmemory.NewSessionStore()
	clock := func() time.Time { return *now }
	sessions.WithClock(clock)
	return NewService(directory, sessions, WithClock(clock), WithSessionTTL(time.Hour)), directory
}

func register(t *testing.T, svc *Service, kind domain.Kind, username, email string) *domain.Account {
	t.Helper()
	account, err := svc.Register(context.Background(), ports.RegisterInput{
		Kind:               kind,
		Username:           username,
		Email:              email,
		Name:               username,
		Phone:              "+5561999990000",
		Password:           "secret-pass",
		RegistrationNumber: "00.000.000/0001-00",
	})
	require.NoError(t, err)
	return account
}

func TestRegister_InvalidInput(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, &now)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Kind: "ROBOT", Username: "x", Name: "x", Password: "secret-pass"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), ports.RegisterInput{Kind: domain.KindIndividual, Username: "x", Name: "x", Password: "abc"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), ports.RegisterInput{Kind: domain.KindIndividual, Username: "x", Name: "x", Phone: "555-CALL-NOW", Password: "secret-pass"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_Duplicate(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, &now)
	register(t, svc, domain.KindIndividual, "ana", "ana@example.com")

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Kind: domain.KindIndividual, Username: "ana", Name: "Ana", Password: "secret-pass",
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegister_UsernameCannotShadowEmail(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, &now)
	ana := register(t, svc, domain.KindIndividual, "ana", "ana@example.com")

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Kind: domain.KindIndividual, Username: "ana@example.com", Name: "Impostor", Password: "secret-pass",
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	session, err := svc.Login(context.Background(), "ana@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, session.AccountID)
}

func TestLoginAuthenticateLogout(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	account := register(t, svc, domain.KindIndividual, "ana", "ana@example.com")
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana@example.com", "wrong-pass")
	require.ErrorIs(t, err, ErrAuthentication)
	_, err = svc.Login(ctx, "ghost", "secret-pass")
	require.ErrorIs(t, err, ErrAuthentication)

	session, err := svc.Login(ctx, "ana", "secret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, now.Add(time.Hour), session.ExpiresAt)

	authenticated, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, authenticated.ID)

	require.NoError(t, svc.Logout(ctx, session.Token))
	_, err = svc.Authenticate(ctx, session.Token)
	require.ErrorIs(t, err, faults.ErrNotAuthenticated)
}

func TestAuthenticate_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	register(t, svc, domain.KindIndividual, "ana", "ana@example.com")

	session, err := svc.Login(context.Background(), "ana", "secret-pass")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = svc.Authenticate(context.Background(), session.Token)
	require.ErrorIs(t, err, faults.ErrNotAuthenticated)

	_, err = svc.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, faults.ErrNotAuthenticated)
}

func TestResolveScope(t *testing.T) {
	now := time.Now()
	svc, directory := newTestService(t, &now)
	ctx := context.Background()
	person := register(t, svc, domain.KindIndividual, "ana", "ana@example.com")
	org := register(t, svc, domain.KindOrganization, "ong01", "ong01@example.com")

	principal, err := svc.ResolveScope(ctx, person)
	require.NoError(t, err)
	assert.Equal(t, domain.KindIndividual, principal.Kind)
	assert.False(t, principal.IsOrganization())

	principal, err = svc.ResolveScope(ctx, org)
	require.NoError(t, err)
	assert.True(t, principal.IsOrganization())

	individual, err := directory.AttachIndividual(org.ID)
	require.NoError(t, err)
	principal, err = svc.ResolveScope(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, domain.KindIndividual, principal.Kind)
	assert.Equal(t, individual.ID, principal.ProfileID)

	directory.DetachProfiles(person.ID)
	_, err = svc.ResolveScope(ctx, person)
	require.ErrorIs(t, err, faults.ErrUnregisteredPrincipal)
	f, _ := faults.As(err)
	assert.Equal(t, "User ana@example.com has no petguard account.", f.Cause)

	_, err = svc.ResolveScope(ctx, nil)
	require.ErrorIs(t, err, faults.ErrNotAuthenticated)
}

func TestLookupAndFindOrganizations(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, &now)
	ctx := context.Background()
	register(t, svc, domain.KindOrganization, "Ong 01", "ong01@example.com")

	account, err := svc.LookupAccount(ctx, "ong01@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ong 01", account.Username)

	_, err = svc.LookupAccount(ctx, "nobody")
	require.ErrorIs(t, err, faults.ErrNotFound)

	for _, term := range []string{"Ong 01", "ong01@example.com", "00.000.000/0001-00"} {
		orgs, err := svc.FindOrganizations(ctx, term)
		require.NoError(t, err)
		assert.Len(t, orgs, 1, term)
	}
	orgs, err := svc.FindOrganizations(ctx, "Ong")
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

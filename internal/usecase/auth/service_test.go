package auth

import (
	"context"
	"errors"
	"testing"

	"competency-hub/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	byEmail map[string]user.User
	creates int

	// raceWith is inserted by the first Create call before it fails.
	raceWith *user.User
	fail     error
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]user.User{}} }

func (m *memUsers) Create(_ context.Context, u user.User) error {
	m.creates++
	if m.fail != nil {
		return m.fail
	}
	if m.raceWith != nil {
		m.byEmail[m.raceWith.Email] = *m.raceWith
		m.raceWith = nil
		return user.ErrEmailTaken
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) ByID(_ context.Context, id uuid.UUID) (user.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) ByEmail(_ context.Context, email string) (user.User, error) {
	if m.fail != nil {
		return user.User{}, m.fail
	}
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func newTestService(users user.Repository) *Service {
	return newService(users, bcrypt.MinCost)
}

func TestEnsureAccountThenAuthenticate(t *testing.T) {
	svc := newTestService(newMemUsers())
	ctx := context.Background()

	acc, created, err := svc.EnsureAccount(ctx, AccountInput{Email: " Admin@Localhost ", Password: "Admin123!", Role: user.RoleHR})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@localhost", acc.Email)
	assert.Empty(t, acc.PasswordHash)
	assert.True(t, acc.IsHR())

	got, err := svc.Authenticate(ctx, Credentials{Email: "ADMIN@localhost", Password: "Admin123!"})
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Empty(t, got.PasswordHash)

	_, err = svc.Authenticate(ctx, Credentials{Email: "admin@localhost", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	profile, err := svc.Profile(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleHR, profile.Role)
}

func TestEnsureAccount_ExistingIsKept(t *testing.T) {
	users := newMemUsers()
	svc := newTestService(users)
	ctx := context.Background()

	first, _, err := svc.EnsureAccount(ctx, AccountInput{Email: "a@b.c", Password: "longenough", Role: user.RoleHR})
	require.NoError(t, err)

	again, created, err := svc.EnsureAccount(ctx, AccountInput{Email: "A@B.C", Password: "different1", Role: user.RoleEmployee})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, user.RoleHR, again.Role)
	assert.Equal(t, 1, users.creates)

	_, err = svc.Authenticate(ctx, Credentials{Email: "a@b.c", Password: "longenough"})
	assert.NoError(t, err)
}

func TestEnsureAccount_LostRaceReturnsWinner(t *testing.T) {
	users := newMemUsers()
	winner := user.User{ID: uuid.New(), Email: "a@b.c", Role: user.RoleHR, PasswordHash: "x"}
	users.raceWith = &winner

	got, created, err := newTestService(users).EnsureAccount(context.Background(),
		AccountInput{Email: "a@b.c", Password: "longenough", Role: user.RoleHR})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, got.ID)
	assert.Empty(t, got.PasswordHash)
}

func TestEnsureAccount_Invalid(t *testing.T) {
	cases := map[string]AccountInput{
		"short password": {Email: "a@b.c", Password: "short", Role: user.RoleHR},
		"long password":  {Email: "a@b.c", Password: string(make([]byte, 73)), Role: user.RoleHR},
		"no at sign":     {Email: "admin", Password: "longenough", Role: user.RoleHR},
		"unknown role":   {Email: "a@b.c", Password: "longenough", Role: "Kierownik"},
		"blank role":     {Email: "a@b.c", Password: "longenough"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			users := newMemUsers()
			_, _, err := newTestService(users).EnsureAccount(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidAccount)
			assert.Zero(t, users.creates)
		})
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := newTestService(newMemUsers()).Authenticate(ctx, Credentials{Email: "x@y.z", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = newTestService(newMemUsers()).Authenticate(ctx, Credentials{Email: " ", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	broken := newMemUsers()
	broken.fail = errors.New("connection reset")
	_, err = newTestService(broken).Authenticate(ctx, Credentials{Email: "x@y.z", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

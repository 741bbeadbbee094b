// Package auth owns password accounts. Accounts are provisioned by the seed
// command; the API only authenticates them.
package auth

import (
	"context"
	"errors"
	"strings"

	"competency-hub/internal/domain/user"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInternal           = errors.New("internal error")
)

// AccountInput describes an account to provision. Passwords are capped at
// bcrypt's 72 byte input limit.
type AccountInput struct {
	Email    string `validate:"required,max=255,contains=@"`
	Password string `validate:"required,min=8,max=72"`
	Role     string `validate:"oneof=HR EMPLOYEE"`
}

type Credentials struct {
	Email    string
	Password string
}

type Service struct {
	users    user.Repository
	validate *validator.Validate
	cost     int

	// dummyHash is compared against when the email is unknown so that a
	// miss costs the same as a wrong password.
	dummyHash []byte
}

func NewService(users user.Repository) *Service {
	return newService(users, bcrypt.DefaultCost)
}

func newService(users user.Repository, cost int) *Service {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("competency-hub"), cost)
	return &Service{
		users:     users,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		cost:      cost,
		dummyHash: dummy,
	}
}

// EnsureAccount creates the account unless one with the same email exists.
// It reports whether a new account was written. An existing account is left
// untouched, including its role and password.
func (s *Service) EnsureAccount(ctx context.Context, in AccountInput) (user.User, bool, error) {
	in.Email = normalizeEmail(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	if err := s.validate.Struct(in); err != nil {
		return user.User{}, false, errors.Join(ErrInvalidAccount, err)
	}

	existing, err := s.users.ByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return existing.Public(), false, nil
	case !errors.Is(err, user.ErrNotFound):
		return user.User{}, false, errors.Join(ErrInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return user.User{}, false, errors.Join(ErrInternal, err)
	}
	u := user.User{ID: uuid.New(), Email: in.Email, PasswordHash: string(hash), Role: in.Role}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			// Lost a race with another seed run.
			winner, lookupErr := s.users.ByEmail(ctx, in.Email)
			if lookupErr != nil {
				return user.User{}, false, errors.Join(ErrInternal, lookupErr)
			}
			return winner.Public(), false, nil
		}
		return user.User{}, false, errors.Join(ErrInternal, err)
	}
	return u.Public(), true, nil
}

func (s *Service) Authenticate(ctx context.Context, in Credentials) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.ByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		return user.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return user.User{}, errors.Join(ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	return u.Public(), nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, err := s.users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Join(ErrInternal, err)
	}
	return u.Public(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

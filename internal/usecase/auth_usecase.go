package usecase

import (
	"context"
	"errors"
	"time"

	"competency-hub/internal/domain/user"
	"competency-hub/internal/pkg/jwt"
	ucauth "competency-hub/internal/usecase/auth"

	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("unauthorized")

type Session struct {
	User        user.User
	AccessToken string
	ExpiresAt   time.Time
}

type AuthUsecase interface {
	Login(ctx context.Context, in ucauth.Credentials) (Session, error)
	Me(ctx context.Context, userID uuid.UUID) (user.User, error)
}

type Auth struct {
	authSvc *ucauth.Service
	jwt     jwt.Service
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), jwt: jwtSvc}
}

func (u *Auth) Login(ctx context.Context, in ucauth.Credentials) (Session, error) {
	usr, err := u.authSvc.Authenticate(ctx, in)
	if err != nil {
		if errors.Is(err, ucauth.ErrInvalidCredentials) {
			return Session{}, ErrUnauthorized
		}
		return Session{}, ErrInternal
	}

	token, exp, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email, usr.Role)
	if err != nil {
		return Session{}, ErrInternal
	}
	return Session{User: usr, AccessToken: token, ExpiresAt: exp}, nil
}

func (u *Auth) Me(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := u.authSvc.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return usr, nil
}

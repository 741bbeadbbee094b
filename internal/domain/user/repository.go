package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)

// Repository stores accounts. Create returns ErrEmailTaken when the
// email is already in use.
type Repository interface {
	Create(ctx context.Context, u User) error
	ByID(ctx context.Context, id uuid.UUID) (User, error)
	ByEmail(ctx context.Context, email string) (User, error)
}

package user

import (
	"time"

	"github.com/google/uuid"
)

// Account roles. Only RoleHR may change staffing, catalog or role data;
// RoleEmployee accounts can read and submit ratings.
const (
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsHR() bool {
	return u.Role == RoleHR
}

// Public drops the password hash before the account leaves the auth layer.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

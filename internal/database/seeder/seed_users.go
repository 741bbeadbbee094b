package seeder

import (
	"context"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/user"
	"competency-hub/internal/repository"
	ucauth "competency-hub/internal/usecase/auth"

	"github.com/rs/zerolog"
)

// HRUserSeeder provisions the account that holds the HR capability. An
// existing account with the same email is left as it is.
type HRUserSeeder struct {
	Email    string
	Password string
	Logger   zerolog.Logger
}

func (HRUserSeeder) Name() string { return "hr_user" }

func (s HRUserSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "role"); err != nil {
		return err
	}

	svc := ucauth.NewService(repository.NewPostgresUserRepository(db))
	acc, created, err := svc.EnsureAccount(ctx, ucauth.AccountInput{Email: s.Email, Password: s.Password, Role: user.RoleHR})
	if err != nil {
		return err
	}
	if !acc.IsHR() {
		s.Logger.Warn().Str("email", acc.Email).Str("role", acc.Role).Msg("seed account exists without HR role")
	}
	s.Logger.Debug().Str("email", acc.Email).Bool("created", created).Msg("hr account")
	return nil
}

package seeder

import "github.com/rs/zerolog"

const (
	DefaultHREmail    = "admin@localhost"
	DefaultHRPassword = "Admin123!"
)

func Defaults(logger zerolog.Logger) []Seeder {
	return []Seeder{
		HRUserSeeder{Email: DefaultHREmail, Password: DefaultHRPassword, Logger: logger},
		SkillTypesSeeder{},
	}
}

package seeder

import (
	"context"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/skill"
)

// SampleSkillTypes are the skill types a fresh install starts with.
var SampleSkillTypes = []string{
	"Go",
	"Java",
	"C#",
	"Python",
	"JavaScript",
	"SQL",
	"PostgreSQL",
	"Docker",
	"Kubernetes",
	"Testy manualne",
	"Analiza wymagań",
}

type SkillTypesSeeder struct {
	Names []string
}

func (SkillTypesSeeder) Name() string { return "skill_types" }

// Run inserts every name whose case-folded key is not taken yet.
func (s SkillTypesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skill_types", "id", "name", "name_key"); err != nil {
		return err
	}

	names := s.Names
	if len(names) == 0 {
		names = SampleSkillTypes
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, name := range names {
			if _, err := tx.Exec(ctx,
				`INSERT INTO skill_types (name, name_key) VALUES ($1, $2) ON CONFLICT (name_key) DO NOTHING`,
				name, skill.NameKey(name),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

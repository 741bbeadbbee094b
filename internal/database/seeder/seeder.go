package seeder

import (
	"context"

	"competency-hub/internal/database"
)

// Seeder inserts reference data. Running it twice must not duplicate rows.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Names lists seeder names in run order, for CLI help.
func Names(seeders []Seeder) []string {
	out := make([]string, 0, len(seeders))
	for _, s := range seeders {
		if s != nil {
			out = append(out, s.Name())
		}
	}
	return out
}

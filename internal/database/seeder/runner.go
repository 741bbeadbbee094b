package seeder

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"competency-hub/internal/database"

	"github.com/rs/zerolog"
)

// Runner applies seeders in order. When Only is set, just the named seeders
// run; a name that matches nothing is an error so typos do not pass silently.
type Runner struct {
	Seeders []Seeder
	Only    []string
	Logger  zerolog.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	selected, err := r.selected()
	if err != nil {
		return err
	}

	for _, s := range selected {
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		r.Logger.Info().Str("seeder", s.Name()).Dur("took", time.Since(start)).Msg("seeded")
	}
	return nil
}

func (r Runner) selected() ([]Seeder, error) {
	known := make([]string, 0, len(r.Seeders))
	out := make([]Seeder, 0, len(r.Seeders))
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		known = append(known, s.Name())
		if len(r.Only) == 0 || slices.Contains(r.Only, s.Name()) {
			out = append(out, s)
		}
	}

	for _, name := range r.Only {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("unknown seeder %q (have %s)", name, strings.Join(known, ", "))
		}
	}
	return out, nil
}

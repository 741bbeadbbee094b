package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// lockKey serialises concurrent migrate runs across processes.
const lockKey int64 = 0x636f6d7068756221

// Runner applies V<version>__<name>.sql files from Source in version order.
// Applied files are recorded with a checksum; editing one afterwards fails
// the next run.
type Runner struct {
	Source fs.FS
	Logger zerolog.Logger
}

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	return r.withConn(ctx, db, func(conn *sql.Conn, migs []Migration) error {
		pending, err := pending(ctx, conn, migs)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			r.Logger.Info().Int("known", len(migs)).Msg("schema is up to date")
			return nil
		}
		for _, m := range pending {
			if err := apply(ctx, conn, m); err != nil {
				return err
			}
			r.Logger.Info().Int64("version", m.Version).Str("name", m.Name).Msg("migration applied")
		}
		return nil
	})
}

// Pending lists migrations the database has not applied yet without applying them.
func (r Runner) Pending(ctx context.Context, db *sql.DB) ([]Migration, error) {
	var out []Migration
	err := r.withConn(ctx, db, func(conn *sql.Conn, migs []Migration) error {
		var err error
		out, err = pending(ctx, conn, migs)
		return err
	})
	return out, err
}

// withConn pins one connection for the whole run; the advisory lock belongs
// to the session that took it.
func (r Runner) withConn(ctx context.Context, db *sql.DB, fn func(*sql.Conn, []Migration) error) error {
	if db == nil {
		return errors.New("nil db")
	}
	migs, err := Load(r.Source)
	if err != nil {
		return err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("take migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	if _, err := conn.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return fn(conn, migs)
}

// Load reads migrations from the root of src, sorted by version. A nil
// source yields none.
func Load(src fs.FS) ([]Migration, error) {
	if src == nil {
		return nil, nil
	}
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var migs []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version: %s", e.Name())
		}

		b, err := fs.ReadFile(src, e.Name())
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(string(b))
		if text == "" {
			return nil, fmt.Errorf("empty migration file: %s", e.Name())
		}

		sum := sha256.Sum256([]byte(text))
		migs = append(migs, Migration{
			Version:  version,
			Name:     m[2],
			Filename: e.Name(),
			SQL:      text,
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	slices.SortFunc(migs, func(a, b Migration) int { return int(a.Version - b.Version) })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s",
				migs[i].Version, migs[i-1].Filename, migs[i].Filename)
		}
	}
	return migs, nil
}

// Diff returns the migrations missing from applied (version -> checksum) and
// fails when an applied file has since changed.
func Diff(migs []Migration, applied map[int64]string) ([]Migration, error) {
	var out []Migration
	for _, m := range migs {
		sum, ok := applied[m.Version]
		if !ok {
			out = append(out, m)
			continue
		}
		if sum != m.Checksum {
			return nil, fmt.Errorf("migration %s was edited after it was applied", m.Filename)
		}
	}
	return out, nil
}

func pending(ctx context.Context, conn *sql.Conn, migs []Migration) ([]Migration, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[int64]string{}
	for rows.Next() {
		var v int64
		var sum string
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, err
		}
		applied[v] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return Diff(migs, applied)
}

func apply(ctx context.Context, conn *sql.Conn, m Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply %s: %w", m.Filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		m.Version, m.Name, m.Checksum,
	); err != nil {
		return fmt.Errorf("record %s: %w", m.Filename, err)
	}
	return tx.Commit()
}

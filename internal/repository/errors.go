package repository

import (
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrNoRowsAffected is returned by updates whose target row was not written.
	// Callers decide whether the row vanished or the write conflicted.
	ErrNoRowsAffected = errors.New("no rows affected")
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func exists(row interface{ Scan(dest ...any) error }, what string) (bool, error) {
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, errors.Wrapf(err, "check %s exists", what)
	}
	return ok, nil
}

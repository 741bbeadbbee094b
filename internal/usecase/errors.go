package usecase

import (
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInternal       = errors.New("internal error")
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrProjectClosed  = errors.New("project is closed")
	ErrProjectOpen    = errors.New("project is not closed")
	ErrRatingExists   = errors.New("rating already exists")
	ErrStaffingFailed = errors.New("staffing failed")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// FormKey keys a message that belongs to the whole form rather than one field.
const FormKey = ""

// ValidationError carries user-facing messages keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == FormKey {
			parts = append(parts, e.Fields[k])
			continue
		}
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RatingExistsError points back at the project whose review list holds the existing rating.
type RatingExistsError struct {
	ProjectID int64
}

func (e *RatingExistsError) Error() string { return ErrRatingExists.Error() }

func (e *RatingExistsError) Is(target error) bool {
	return target == ErrRatingExists
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	return false
}

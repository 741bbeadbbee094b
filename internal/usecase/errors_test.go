package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidationError_IsAndMessage(t *testing.T) {
	err := error(&ValidationError{Fields: map[string]string{
		"score": "out of range",
		FormKey: "form problem",
	}})

	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), ErrValidation)
	assert.Equal(t, "validation failed: form problem; score: out of range", err.Error())

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestRatingExistsError(t *testing.T) {
	err := error(&RatingExistsError{ProjectID: 4})
	assert.ErrorIs(t, err, ErrRatingExists)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestConstraintDetectionThroughWrapping(t *testing.T) {
	unique := pkgerrors.Wrap(&pgconn.PgError{Code: "23505"}, "insert employee")
	fk := pkgerrors.Wrap(&pgconn.PgError{Code: "23503"}, "insert competency")
	check := pkgerrors.Wrap(&pgconn.PgError{Code: "23514"}, "update project")

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.True(t, isCheckViolation(check))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}

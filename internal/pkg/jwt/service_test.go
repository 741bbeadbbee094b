package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	s := NewHMACService("secret", time.Hour)
	id := uuid.New()

	tok, exp, err := s.GenerateAccessToken(id, "hr@example.com", "HR")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Equal(t, "HR", c.Role)
	assert.Equal(t, "hr@example.com", c.Email)
}

func TestValidate_Expired(t *testing.T) {
	s := NewHMACService("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return issued }

	tok, _, err := s.GenerateAccessToken(uuid.New(), "a@b.c", "")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, _, err := NewHMACService("one", time.Hour).GenerateAccessToken(uuid.New(), "a@b.c", "HR")
	require.NoError(t, err)

	_, err = NewHMACService("two", time.Hour).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerate_MissingSecret(t *testing.T) {
	_, _, err := NewHMACService("", time.Hour).GenerateAccessToken(uuid.New(), "a@b.c", "HR")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

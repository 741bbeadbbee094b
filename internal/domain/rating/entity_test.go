package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "Kierownik powiedział dobrze", want: "Anonim powiedział dobrze"},
		{in: "Szef i Kierownik", want: "Anonim i Anonim"},
		{in: "kierownik małą literą", want: "kierownik małą literą"},
		{in: "", want: NoComment},
		{in: "   \t", want: NoComment},
		{in: "Dobra robota", want: "Dobra robota"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Anonymize(tc.in), tc.in)
	}
}

func TestScoreRules(t *testing.T) {
	assert.False(t, ValidScore(0))
	assert.True(t, ValidScore(1))
	assert.True(t, ValidScore(10))
	assert.False(t, ValidScore(11))

	assert.True(t, NeedsDevelopment(2))
	assert.False(t, NeedsDevelopment(3))
}

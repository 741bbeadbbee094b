package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	var body struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"start":"2026-03-01","end":null}`), &body))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), body.Start.Time)
	assert.Nil(t, body.End)
	assert.Nil(t, body.End.TimePtr())

	require.NoError(t, json.Unmarshal([]byte(`{"start":"2026-03-01T23:15:00+02:00"}`), &body))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), body.Start.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"01.03.2026"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"start":20260301}`), &body))
}

func TestDate_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}{Start: NewDate(time.Date(2026, 12, 31, 18, 0, 0, 0, time.UTC))})

	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2026-12-31","end":null}`, string(out))
}

func TestDate_TimePtr(t *testing.T) {
	d := NewDate(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, d.TimePtr())
	assert.Equal(t, 4, d.TimePtr().Day())

	var zero Date
	assert.Nil(t, zero.TimePtr())
	assert.Nil(t, DatePtr(nil))
}

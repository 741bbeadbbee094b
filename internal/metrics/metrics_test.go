package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStaffingCounters(t *testing.T) {
	m := New()

	m.StaffingRun(FlowCreate, nil)
	m.StaffingRun(FlowCreate, errors.New("boom"))
	m.StaffingRun(FlowBackfill, nil)
	m.StaffingSlots(FlowCreate, 2, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.staffingRuns.WithLabelValues(FlowCreate, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staffingRuns.WithLabelValues(FlowCreate, OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staffingRuns.WithLabelValues(FlowBackfill, OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.staffingSlots.WithLabelValues(FlowCreate, "filled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staffingSlots.WithLabelValues(FlowCreate, "vacant")))
}

func TestRatingCounters(t *testing.T) {
	m := New()

	m.Rating(false)
	m.Rating(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ratings))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lowScores))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.StaffingRun(FlowCreate, nil)
		m.StaffingSlots(FlowBackfill, 1, 1)
		m.Rating(true)
	})
}

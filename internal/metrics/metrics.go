package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	FlowCreate   = "create"
	FlowBackfill = "backfill"

	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.SummaryVec
	requests        *prometheus.CounterVec

	staffingRuns  *prometheus.CounterVec
	staffingSlots *prometheus.CounterVec
	ratings       prometheus.Counter
	lowScores     prometheus.Counter
}

// New registers every collector on a private registry, so several instances
// can live side by side in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestDuration: f.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "http_request_duration_seconds",
				Help:       "HTTP request duration in seconds",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"method", "path", "status_code"},
		),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		staffingRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffing_runs_total",
				Help: "Staffing runs by flow and outcome",
			},
			[]string{"flow", "outcome"},
		),
		staffingSlots: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffing_slots_total",
				Help: "Slots handled by committed staffing runs, by flow and resulting state",
			},
			[]string{"flow", "state"},
		),
		ratings: f.NewCounter(prometheus.CounterOpts{
			Name: "ratings_total",
			Help: "Ratings recorded",
		}),
		lowScores: f.NewCounter(prometheus.CounterOpts{
			Name: "ratings_low_score_total",
			Help: "Ratings that raised a development proposal",
		}),
	}
}

func (m *Metrics) StaffingRun(flow string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFailed
	}
	m.staffingRuns.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) StaffingSlots(flow string, filled, vacant int) {
	if m == nil {
		return
	}
	m.staffingSlots.WithLabelValues(flow, "filled").Add(float64(filled))
	m.staffingSlots.WithLabelValues(flow, "vacant").Add(float64(vacant))
}

func (m *Metrics) Rating(lowScore bool) {
	if m == nil {
		return
	}
	m.ratings.Inc()
	if lowScore {
		m.lowScores.Inc()
	}
}

// Middleware records request count and latency keyed by the matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		code := strconv.Itoa(status)

		m.requestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(c.Method(), path, code).Inc()
		return err
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

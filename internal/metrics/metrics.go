package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

// Metrics holds the Prometheus metrics for pipeline runs and automator actions.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Runs              *prometheus.CounterVec
	RunDuration       *prometheus.HistogramVec
	PostsPublished    prometheus.Counter
	ConnectionActions *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers all metrics on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoposter_runs_total",
			Help: "Pipeline invocations by mode and terminal state.",
		}, []string{"mode", "state"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "autoposter_run_duration_seconds",
			Help:    "Wall time of a pipeline invocation.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"mode"}),
		PostsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoposter_posts_published_total",
			Help: "Posts created on LinkedIn.",
		}),
		ConnectionActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoposter_connection_actions_total",
			Help: "Connection requests sent by the automator.",
		}, []string{"success"}),
		registry: reg,
	}
	reg.MustRegister(m.Runs, m.RunDuration, m.PostsPublished, m.ConnectionActions)
	return m
}

func (m *Metrics) ObserveRun(mode string, state models.RunState, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(mode, string(state)).Inc()
	m.RunDuration.WithLabelValues(mode).Observe(d.Seconds())
	if state == models.StateDone && mode != models.ModeGenerate {
		m.PostsPublished.Inc()
	}
}

func (m *Metrics) ObserveConnection(success bool) {
	if m == nil {
		return
	}
	m.ConnectionActions.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

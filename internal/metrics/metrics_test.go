package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

func TestObserveRun(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRun(models.ModeLocal, models.StateDone, 3*time.Second)
	m.ObserveRun(models.ModeLocal, models.StateRejected, time.Second)
	m.ObserveRun(models.ModeGenerate, models.StateDone, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("local", "DONE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("local", "REJECTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PostsPublished))
}

func TestObserveConnection(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveConnection(true)
	m.ObserveConnection(true)
	m.ObserveConnection(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConnectionActions.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectionActions.WithLabelValues("false")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun(models.ModeLocal, models.StateFailed, time.Second)
		m.ObserveConnection(false)
	})
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveRun(models.ModeRemote, models.StateDone, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `autoposter_runs_total{mode="remote",state="DONE"} 1`)
}

package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/internal/testutil"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "pulse", Subsystem: "test"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestNewMetricsCollector_RuntimeCollectors(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "pulse", EnableGoMetrics: true}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("jobs_total", "Jobs", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)

	expected := `
# HELP pulse_test_jobs_total Jobs
# TYPE pulse_test_jobs_total counter
pulse_test_jobs_total{kind="a"} 3
`
	require.NoError(t, promtest.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "pulse_test_jobs_total"))
}

func TestRegister_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterGauge("depth", "Depth").WithLabelValues().Set(4)
	c.RegisterGauge("depth", "Depth").WithLabelValues().Inc()

	expected := `
# HELP pulse_test_depth Depth
# TYPE pulse_test_depth gauge
pulse_test_depth 5
`
	require.NoError(t, promtest.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "pulse_test_depth"))
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	log := testutil.NewMockLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "pulse"}, log)
	require.NoError(t, err)

	c.RegisterCounter("things", "Things")
	g := c.RegisterGauge("things", "Things")
	assert.NotPanics(t, func() { g.WithLabelValues().Set(1) })
	assert.True(t, log.HasMessage("warn", "metric type mismatch"))
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("latency_seconds", "Latency", nil, "op")
	h.WithLabelValues("get").Observe(0.02)

	n, err := promtest.GatherAndCount(c.Gatherer(), "pulse_test_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegister_Concurrent(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("hits_total", "Hits").WithLabelValues().Inc()
		}()
	}
	wg.Wait()

	expected := `
# HELP pulse_test_hits_total Hits
# TYPE pulse_test_hits_total counter
pulse_test_hits_total 16
`
	require.NoError(t, promtest.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "pulse_test_hits_total"))
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("op_seconds", "Op", []float64{10}, "op")
	timer := NewTimer(h.WithLabelValues("x"))
	time.Sleep(time.Millisecond)
	timer.ObserveDuration()

	assert.Contains(t, scrapeMetrics(t, c), `pulse_test_op_seconds_count{op="x"} 1`)
	assert.NotPanics(t, func() { (&Timer{}).ObserveDuration() })
}

//Personal.AI order the ending

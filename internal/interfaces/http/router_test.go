package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ProjectPulse/internal/application/dashboard"
	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ProjectPulse/internal/interfaces/http/handlers"
	"github.com/turtacn/ProjectPulse/internal/testutil"
)

type staticSource struct{}

func (staticSource) ListProjects(context.Context) ([]board.Project, error) {
	return testutil.SampleProjects(), nil
}

func (staticSource) ListTasks(context.Context, string) ([]board.Task, error) {
	return testutil.SampleTasks(), nil
}

func newTestRouter(t *testing.T) (http.Handler, prometheus.MetricsCollector) {
	t.Helper()
	log := logging.NewNopLogger()
	svc, err := dashboard.NewService(staticSource{}, log, dashboard.Config{}, dashboard.WithClock(func() time.Time {
		return testutil.FixedNow
	}))
	require.NoError(t, err)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "pulse"}, log)
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		BoardHandler:     handlers.NewBoardHandler(svc, log),
		HealthHandler:    handlers.NewHealthHandler("test"),
		Logger:           log,
		MetricsCollector: collector,
		Metrics:          prometheus.NewAppMetrics(collector),
		CORSOrigins:      []string{"https://board.example.com"},
	}), collector
}

func TestRouter_Probes(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_BoardEndToEnd(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/board/summary", nil)
	req.Header.Set("X-Request-ID", "rid-7")
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-7", rec.Header().Get("X-Request-ID"))

	var body struct {
		Data      board.Summary `json:"data"`
		RequestID string        `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, board.Summarize(testutil.SampleProjects(), testutil.FixedNow), body.Data)
	assert.Equal(t, "rid-7", body.RequestID)
}

func TestRouter_SnapshotsDisabledWithoutStore(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/board/snapshots", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_MetricsExposed(t *testing.T) {
	h, _ := newTestRouter(t)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/board", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `pulse_http_requests_total{method="GET",route="/api/v1/board`))
}

func TestRouter_UnknownRoute(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patents", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

//Personal.AI order the ending

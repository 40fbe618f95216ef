package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
)

var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultComputeDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
)

// AppMetrics holds the metric families of the board service.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Board
	ComputeDuration HistogramVec
	CacheHitsTotal  CounterVec
	CacheMissTotal  CounterVec
	SourceErrors    CounterVec
	SnapshotsTotal  CounterVec
	BoardProjects   GaugeVec
	BoardTasks      GaugeVec
	MedianOverdue   GaugeVec

	// Events
	EventsConsumedTotal CounterVec
	EventProcessSeconds HistogramVec

	HealthCheckStatus GaugeVec
}

// NewAppMetrics registers every family on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.ComputeDuration = collector.RegisterHistogram("board_compute_duration_seconds", "Time to derive a board view from records", DefaultComputeDurationBuckets, "kind")
	m.CacheHitsTotal = collector.RegisterCounter("board_cache_hits_total", "Board cache hits", "tier")
	m.CacheMissTotal = collector.RegisterCounter("board_cache_misses_total", "Board cache misses", "tier")
	m.SourceErrors = collector.RegisterCounter("board_source_errors_total", "Record source failures", "op")
	m.SnapshotsTotal = collector.RegisterCounter("board_snapshots_total", "Snapshots taken", "result")
	m.BoardProjects = collector.RegisterGauge("board_projects", "Projects by board column at the last compute", "status")
	m.BoardTasks = collector.RegisterGauge("board_tasks", "Tasks at the last compute", "state")
	m.MedianOverdue = collector.RegisterGauge("board_median_days_overdue", "Median days overdue across open overdue tasks")

	m.EventsConsumedTotal = collector.RegisterCounter("events_consumed_total", "Record change events consumed", "event_type", "result")
	m.EventProcessSeconds = collector.RegisterHistogram("event_process_duration_seconds", "Record change event handling time", DefaultHTTPDurationBuckets, "event_type")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// BoardMetrics
// ─────────────────────────────────────────────────────────────────────────────

// BoardMetrics feeds dashboard service observations into AppMetrics.
type BoardMetrics struct {
	m *AppMetrics
}

func NewBoardMetrics(m *AppMetrics) *BoardMetrics {
	return &BoardMetrics{m: m}
}

func (b *BoardMetrics) ObserveCompute(kind string, d time.Duration) {
	b.m.ComputeDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (b *BoardMetrics) RecordCacheHit(tier string) {
	b.m.CacheHitsTotal.WithLabelValues(tier).Inc()
}

func (b *BoardMetrics) RecordCacheMiss(tier string) {
	b.m.CacheMissTotal.WithLabelValues(tier).Inc()
}

func (b *BoardMetrics) RecordSourceError(op string) {
	b.m.SourceErrors.WithLabelValues(op).Inc()
}

func (b *BoardMetrics) RecordSnapshot(success bool) {
	b.m.SnapshotsTotal.WithLabelValues(result(success)).Inc()
}

// SetBoardGauges publishes the column counts of s.
func (b *BoardMetrics) SetBoardGauges(s board.Summary) {
	b.m.BoardProjects.WithLabelValues("todo").Set(float64(s.TodoCount))
	b.m.BoardProjects.WithLabelValues("in_progress").Set(float64(s.InProgressCount))
	b.m.BoardProjects.WithLabelValues("completed").Set(float64(s.CompletedCount))
	b.m.BoardProjects.WithLabelValues("blocked").Set(float64(s.BlockedCount))
	b.m.BoardTasks.WithLabelValues("total").Set(float64(s.TotalTaskCount))
	b.m.BoardTasks.WithLabelValues("completed").Set(float64(s.CompletedTaskCount))
	b.m.BoardTasks.WithLabelValues("overdue").Set(float64(s.OverdueTaskCount))
	b.m.MedianOverdue.WithLabelValues().Set(float64(s.MedianDaysOverdue))
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func RecordHTTPRequest(m *AppMetrics, method, route string, statusCode int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordEvent(m *AppMetrics, eventType string, success bool, d time.Duration) {
	m.EventsConsumedTotal.WithLabelValues(eventType, result(success)).Inc()
	m.EventProcessSeconds.WithLabelValues(eventType).Observe(d.Seconds())
}

func SetHealth(m *AppMetrics, component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

//Personal.AI order the ending

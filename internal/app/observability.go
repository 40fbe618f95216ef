package app

import (
	"strings"

	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/prometheus"
)

// NewLogger builds the process logger from the log section.  Output accepts a
// comma-separated list of zap sinks.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	var outputs []string
	for _, o := range strings.Split(cfg.Output, ",") {
		if o = strings.TrimSpace(o); o != "" {
			outputs = append(outputs, o)
		}
	}
	return logging.NewLogger(logging.LogConfig{
		Level:       cfg.Level,
		Format:      cfg.Format,
		OutputPaths: outputs,
	})
}

// Telemetry groups the metric families of one process.
type Telemetry struct {
	Collector prometheus.MetricsCollector
	App       *prometheus.AppMetrics
	Board     *prometheus.BoardMetrics
}

// NewTelemetry registers the application metric families on a fresh
// registry.  Runtime collectors are added only when metrics are enabled.
func NewTelemetry(cfg config.MetricsConfig, logger logging.Logger) (*Telemetry, error) {
	ns := cfg.Namespace
	if ns == "" {
		ns = config.DefaultMetricsNamespace
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            ns,
		EnableProcessMetrics: cfg.Enabled,
		EnableGoMetrics:      cfg.Enabled,
	}, logger)
	if err != nil {
		return nil, err
	}
	am := prometheus.NewAppMetrics(collector)
	return &Telemetry{Collector: collector, App: am, Board: prometheus.NewBoardMetrics(am)}, nil
}

// HealthReporter returns a callback that mirrors health check outcomes into
// the health_check_status gauge.
func (t *Telemetry) HealthReporter() func(component string, healthy bool) {
	return func(component string, healthy bool) {
		prometheus.SetHealth(t.App, component, healthy)
	}
}

// WatchLogLevel applies log level changes from the config file at path.
func WatchLogLevel(path string, logger logging.Logger) {
	if path == "" {
		return
	}
	config.Watch(path, func(cfg *config.Config) {
		if logging.SetLevel(logger, cfg.Log.Level) {
			logger.Info("log level updated", logging.String("level", cfg.Log.Level))
		}
	}, func(err error) {
		logger.Warn("ignoring invalid configuration change", logging.Err(err))
	})
}

//Personal.AI order the ending

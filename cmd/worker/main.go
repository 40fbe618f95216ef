// Worker entry point for ProjectPulse.  The worker consumes record-change
// events, drops the affected board caches and, when board.snapshot_on_change
// is set, archives one snapshot per batch of changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/ProjectPulse/internal/app"
	"github.com/turtacn/ProjectPulse/internal/application/dashboard"
	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/ProjectPulse/internal/interfaces/http"
	"github.com/turtacn/ProjectPulse/internal/interfaces/http/handlers"
)

// Version is injected at build time.
var Version = "dev"

const (
	defaultWorkerConfigPath = "configs/config.yaml"
	defaultFlushInterval    = 30 * time.Second
	startupTimeout          = 30 * time.Second
	shutdownTimeout         = 15 * time.Second
)

func main() {
	configPath := flag.String("config", defaultWorkerConfigPath, "path to configuration file")
	flushInterval := flag.Duration("flush-interval", defaultFlushInterval, "how often a batch of changes is closed")
	flag.Parse()

	if err := run(*configPath, *flushInterval); err != nil {
		fmt.Fprintf(os.Stderr, "pulse-worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, flushInterval time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka.enabled must be set for the worker")
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting ProjectPulse worker",
		logging.String("version", Version),
		logging.Strings("topics", []string{cfg.Kafka.ProjectTopic, cfg.Kafka.TaskTopic}),
		logging.Bool("snapshot_on_change", cfg.Board.SnapshotOnChange),
	)

	tel, err := app.NewTelemetry(cfg.Metrics, logger)
	if err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStart()

	if cfg.Kafka.AutoCreateTopics {
		if err := ensureTopics(startCtx, cfg.Kafka, logger); err != nil {
			return err
		}
	}

	components, err := app.Build(startCtx, cfg, logger, app.Options{
		EventSource: "pulse-worker",
		Metrics:     tel.Board,
	})
	if err != nil {
		return err
	}
	defer components.Close()

	proc := dashboard.NewChangeProcessor(components.Service, logger, cfg.Board.SnapshotOnChange)

	// The bus producer doubles as the dead-letter publisher.
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfigFrom(cfg.Kafka), components.Producer, logger)
	if err != nil {
		return err
	}
	handler := app.ChangeHandler(proc, tel.App, logger)
	for _, topic := range []string{cfg.Kafka.ProjectTopic, cfg.Kafka.TaskTopic} {
		if err := consumer.Subscribe(topic, handler); err != nil {
			_ = consumer.Close()
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	go proc.Run(ctx, flushInterval)

	opsSrv := httpserver.NewServer(
		config.ServerConfig{Port: cfg.Metrics.WorkerPort, ReadTimeout: 5 * time.Second, WriteTimeout: 10 * time.Second},
		opsRouter(cfg, tel, components.Checkers),
		logger,
	)
	go func() {
		if err := opsSrv.Start(); err != nil {
			logger.Error("ops server error", logging.Err(err))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", logging.String("signal", sig.String()))
	case <-ctx.Done():
	}
	cancel()

	if err := consumer.Close(); err != nil {
		logger.Error("consumer close error", logging.Err(err))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := proc.Flush(shutdownCtx); err != nil {
		logger.Warn("final flush failed", logging.Err(err))
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("ops server shutdown error", logging.Err(err))
	}

	stats := consumer.Stats()
	logger.Info("ProjectPulse worker stopped",
		logging.Int64("processed", stats.Processed),
		logging.Int64("dead_lettered", stats.DeadLettered),
	)
	return nil
}

func ensureTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		return err
	}
	defer tm.Close()
	return tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg))
}

// opsRouter serves liveness, readiness and metrics for the worker.
func opsRouter(cfg *config.Config, tel *app.Telemetry, checkers []handlers.HealthChecker) *chi.Mux {
	health := handlers.NewHealthHandler(Version, checkers...).OnResult(tel.HealthReporter())

	r := chi.NewRouter()
	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, tel.Collector.Handler())
	}
	return r
}

//Personal.AI order the ending

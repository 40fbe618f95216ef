// Package app assembles the dashboard service and its infrastructure from a
// loaded Config.  Both the API server and the worker start from it.
package app

import (
	"context"
	stderrors "errors"

	"github.com/turtacn/ProjectPulse/internal/application/dashboard"
	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/database/postgres"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/database/redis"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/source/upstream"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/storage/minio"
	"github.com/turtacn/ProjectPulse/internal/interfaces/http/handlers"
	"github.com/turtacn/ProjectPulse/pkg/errors"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

// Components is the assembled runtime.  Close releases everything in the
// reverse order it was opened.
type Components struct {
	Service  dashboard.Service
	Source   dashboard.RecordSource
	Producer *kafka.Producer
	Checkers []handlers.HealthChecker

	closers []func() error
	logger  logging.Logger
}

// Options tunes Build.
type Options struct {
	// Source name recorded on published event envelopes.
	EventSource string
	// RunMigrations applies pending schema migrations after connecting to
	// PostgreSQL.
	RunMigrations bool
	Metrics       dashboard.Metrics
}

// ServiceConfig maps board settings onto the dashboard service config.
func ServiceConfig(cfg config.BoardConfig) dashboard.Config {
	return dashboard.Config{
		DefaultSort:  board.SortField(cfg.DefaultSort),
		DefaultOrder: common.SortOrder(cfg.DefaultOrder),
		CacheTTL:     cfg.CacheTTL,
		MemoSize:     cfg.MemoSize,
	}
}

// Build connects every enabled backend and constructs the dashboard service.
// On failure everything already opened is closed.
func Build(ctx context.Context, cfg *config.Config, logger logging.Logger, opts Options) (c *Components, err error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeInternal, "config is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.EventSource == "" {
		opts.EventSource = "pulse"
	}

	c = &Components{logger: logger}
	defer func() {
		if err != nil {
			_ = c.Close()
			c = nil
		}
	}()

	var svcOpts []dashboard.Option
	if opts.Metrics != nil {
		svcOpts = append(svcOpts, dashboard.WithMetrics(opts.Metrics))
	}

	// ── Record source ──
	switch cfg.Board.Source {
	case "postgres":
		if opts.RunMigrations {
			if err := postgres.RunMigrations(postgres.DSN(cfg.Database), cfg.Database.MigrationPath); err != nil {
				return c, err
			}
			logger.Info("database migrations applied")
		}
		conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return c, err
		}
		c.push(func() error { conn.Close(); return nil })
		c.Source = repositories.NewProjectRepository(conn.Pool(), logger)
		c.Checkers = append(c.Checkers, handlers.CheckFunc{Component: "postgres", Fn: conn.HealthCheck})
	default:
		c.Source = upstream.NewSource(cfg.Upstream, logger)
	}

	// ── Record cache ──
	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return c, err
		}
		c.push(rc.Close)
		cache := redis.NewRedisCache(rc, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL),
			redis.WithTTLJitter(0.1),
		)
		svcOpts = append(svcOpts, dashboard.WithCache(cache))
		c.Checkers = append(c.Checkers, handlers.CheckFunc{Component: "redis", Fn: rc.Ping})
	}

	// ── Snapshot archive ──
	if cfg.MinIO.Enabled {
		mc, err := minio.NewClient(cfg.MinIO, logger)
		if err != nil {
			return c, err
		}
		c.push(mc.Close)
		if err := mc.EnsureBucket(ctx); err != nil {
			return c, err
		}
		svcOpts = append(svcOpts, dashboard.WithSnapshotStore(minio.NewSnapshotStore(mc, logger)))
		c.Checkers = append(c.Checkers, handlers.CheckFunc{Component: "minio", Fn: mc.Ping})
	}

	// ── Event bus ──
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfigFrom(cfg.Kafka), logger)
		if err != nil {
			return c, err
		}
		c.push(producer.Close)
		c.Producer = producer
		routes := map[string]string{
			dashboard.EventSnapshotCreated: cfg.Kafka.SnapshotTopic,
			dashboard.EventProjectChanged:  cfg.Kafka.ProjectTopic,
			dashboard.EventTaskChanged:     cfg.Kafka.TaskTopic,
		}
		svcOpts = append(svcOpts, dashboard.WithPublisher(kafka.NewEventPublisher(producer, opts.EventSource, routes, logger)))
	}

	svc, err := dashboard.NewService(c.Source, logger, ServiceConfig(cfg.Board), svcOpts...)
	if err != nil {
		return c, err
	}
	c.Service = svc
	return c, nil
}

func (c *Components) push(fn func() error) {
	c.closers = append(c.closers, fn)
}

// Close releases all opened backends.  It is safe to call more than once.
func (c *Components) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	if len(errs) > 0 {
		c.logger.Warn("errors while releasing components", logging.Int("count", len(errs)))
	}
	return stderrors.Join(errs...)
}

//Personal.AI order the ending

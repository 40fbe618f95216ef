// Package postgres owns the record store connection pool and its schema.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
)

const (
	defaultMaxConns        = 10
	defaultMinConns        = 1
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	connectTimeout         = 5 * time.Second

	// poolPressure is the share of acquired connections that triggers a warning.
	poolPressure = 0.8
)

// Connection wraps a pgx pool.
type Connection struct {
	pool   *pgxpool.Pool
	cfg    config.DatabaseConfig
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens a pool and verifies it with a ping.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (*Connection, error) {
	poolCfg, err := configurePool(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid database configuration")
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	log.Info("Connected to PostgreSQL database",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
	)
	return &Connection{pool: pool, cfg: cfg, logger: log}, nil
}

func configurePool(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, err
	}
	pc.MaxConns = int32(orDefault(cfg.MaxConns, defaultMaxConns))
	pc.MinConns = int32(orDefault(cfg.MinConns, defaultMinConns))
	pc.MaxConnLifetime = cfg.ConnMaxLifetime
	if pc.MaxConnLifetime == 0 {
		pc.MaxConnLifetime = defaultConnMaxLifetime
	}
	pc.MaxConnIdleTime = cfg.ConnMaxIdleTime
	if pc.MaxConnIdleTime == 0 {
		pc.MaxConnIdleTime = defaultConnMaxIdleTime
	}
	return pc, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// DSN builds the postgres URL for cfg.  An empty ssl mode means disable.
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	q := u.Query()
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Pool returns the underlying pool.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// HealthCheck pings the database and warns when the pool runs hot.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}

	stat := c.pool.Stat()
	if usage := poolUsage(stat.AcquiredConns(), stat.MaxConns()); usage > poolPressure {
		c.logger.Warn("High database connection pool usage",
			logging.Int("acquired", int(stat.AcquiredConns())),
			logging.Int("max", int(stat.MaxConns())),
			logging.Float64("usage", usage),
		)
	}
	return nil
}

func poolUsage(acquired, max int32) float64 {
	if max <= 0 {
		return 0
	}
	return float64(acquired) / float64(max)
}

// Close releases the pool.  Repeated calls are no-ops.
func (c *Connection) Close() {
	c.once.Do(func() {
		c.pool.Close()
		c.logger.Info("Closed PostgreSQL connection pool")
	})
}

// Tx is the transaction handle passed to WithTransaction callbacks.
type Tx = pgx.Tx

// TxBeginner starts transactions.  *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTransaction runs fn in a transaction, committing on success and
// rolling back on error or panic.
func WithTransaction(ctx context.Context, db TxBeginner, fn func(tx Tx, txCtx context.Context) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx, ctx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit transaction")
	}
	return nil
}

// migrateURL rewrites a DSN for the migrate pgx/v5 driver.
func migrateURL(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	u.Scheme = "pgx5"
	q := u.Query()
	q.Set("x-migrations-table", "schema_migrations")
	u.RawQuery = q.Encode()
	return u.String()
}

//Personal.AI order the ending

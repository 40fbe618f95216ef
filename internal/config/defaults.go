// Package config provides configuration loading, defaults, and validation for
// ProjectPulse.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 15 * time.Second
	DefaultServerMaxBodySize     = 1 << 20

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "pulse"
	DefaultDBMaxConns = 10

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "pulse:"
	DefaultRedisTTL       = 5 * time.Minute

	DefaultKafkaBroker        = "localhost:9092"
	DefaultKafkaGroupID       = "pulse-worker"
	DefaultKafkaProjectTopic  = "records.project.changed"
	DefaultKafkaTaskTopic     = "records.task.changed"
	DefaultKafkaSnapshotTopic = "dashboard.snapshot.created"
	DefaultKafkaDLQSuffix     = ".dlq"
	DefaultKafkaMaxRetries    = 3

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "pulse-snapshots"
	DefaultMinIOPrefix   = "snapshots/"

	DefaultUpstreamBaseURL      = "http://localhost:3000"
	DefaultUpstreamProjectsPath = "/api/projects"
	DefaultUpstreamTasksPath    = "/api/tasks"
	DefaultUpstreamTimeout      = 10 * time.Second
	DefaultUpstreamRetryCount   = 2

	DefaultBoardSource   = "upstream"
	DefaultBoardSort     = "deadline"
	DefaultBoardOrder    = "asc"
	DefaultBoardCacheTTL = 30 * time.Second
	DefaultBoardMemoSize = 256

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace  = "pulse"
	DefaultMetricsPath       = "/metrics"
	DefaultMetricsWorkerPort = 9091
)

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with its default.
// Fields that have already been set (non-zero values) are left unchanged so
// that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	// DB is an int; 0 is a valid explicit value and also the default.

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.ProjectTopic == "" {
		cfg.Kafka.ProjectTopic = DefaultKafkaProjectTopic
	}
	if cfg.Kafka.TaskTopic == "" {
		cfg.Kafka.TaskTopic = DefaultKafkaTaskTopic
	}
	if cfg.Kafka.SnapshotTopic == "" {
		cfg.Kafka.SnapshotTopic = DefaultKafkaSnapshotTopic
	}
	if cfg.Kafka.DLQSuffix == "" {
		cfg.Kafka.DLQSuffix = DefaultKafkaDLQSuffix
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = DefaultKafkaMaxRetries
	}
	if cfg.Kafka.RetryBackoff == 0 {
		cfg.Kafka.RetryBackoff = time.Second
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.Prefix == "" {
		cfg.MinIO.Prefix = DefaultMinIOPrefix
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = 15 * time.Minute
	}

	// ── Upstream ──────────────────────────────────────────────────────────────
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = DefaultUpstreamBaseURL
	}
	if cfg.Upstream.ProjectsPath == "" {
		cfg.Upstream.ProjectsPath = DefaultUpstreamProjectsPath
	}
	if cfg.Upstream.TasksPath == "" {
		cfg.Upstream.TasksPath = DefaultUpstreamTasksPath
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Upstream.RetryCount == 0 {
		cfg.Upstream.RetryCount = DefaultUpstreamRetryCount
	}
	if cfg.Upstream.RetryWait == 0 {
		cfg.Upstream.RetryWait = 200 * time.Millisecond
	}

	// ── Board ─────────────────────────────────────────────────────────────────
	if cfg.Board.Source == "" {
		cfg.Board.Source = DefaultBoardSource
	}
	if cfg.Board.DefaultSort == "" {
		cfg.Board.DefaultSort = DefaultBoardSort
	}
	if cfg.Board.DefaultOrder == "" {
		cfg.Board.DefaultOrder = DefaultBoardOrder
	}
	if cfg.Board.CacheTTL == 0 {
		cfg.Board.CacheTTL = DefaultBoardCacheTTL
	}
	if cfg.Board.MemoSize == 0 {
		cfg.Board.MemoSize = DefaultBoardMemoSize
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.WorkerPort == 0 {
		cfg.Metrics.WorkerPort = DefaultMetricsWorkerPort
	}
}

// Defaults returns a Config holding only default values.
func Defaults() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending

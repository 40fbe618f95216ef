package dashboard

import (
	"context"
	"time"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/internal/domain/snapshot"
)

// RecordSource delivers raw project and task records.  Implementations decode
// with the tolerant board decoders and never filter beyond what they are
// asked for.
type RecordSource interface {
	ListProjects(ctx context.Context) ([]board.Project, error)
	// ListTasks returns the tasks memberID takes part in.  An empty memberID
	// returns every task.
	ListTasks(ctx context.Context, memberID string) ([]board.Task, error)
}

// CachePort is the shared record cache.  Get reports a miss with any error.
type CachePort interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

// SnapshotStore persists board snapshots.
type SnapshotStore = snapshot.Repository

// EventPublisher announces dashboard events on the bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, key string, payload interface{}) error
}

// Metrics receives pipeline measurements.
type Metrics interface {
	ObserveCompute(kind string, d time.Duration)
	RecordCacheHit(tier string)
	RecordCacheMiss(tier string)
	RecordSourceError(op string)
	RecordSnapshot(success bool)
	SetBoardGauges(s board.Summary)
}

// Cache tiers reported to Metrics.
const (
	TierMemo    = "memo"
	TierRecords = "records"
)

type noopMetrics struct{}

func (noopMetrics) ObserveCompute(string, time.Duration) {}
func (noopMetrics) RecordCacheHit(string)                {}
func (noopMetrics) RecordCacheMiss(string)               {}
func (noopMetrics) RecordSourceError(string)             {}
func (noopMetrics) RecordSnapshot(bool)                  {}
func (noopMetrics) SetBoardGauges(board.Summary)         {}

//Personal.AI order the ending

package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
)

// ChangeProcessor reacts to record-change events: every event invalidates
// the board caches, and when snapshots are enabled the next Flush stores one
// snapshot for the whole batch of changes seen since the previous Flush.
type ChangeProcessor struct {
	svc              Service
	logger           logging.Logger
	snapshotOnChange bool

	mu      sync.Mutex
	pending map[string]struct{}
	dirty   bool
}

// NewChangeProcessor wires a ChangeProcessor to svc.
func NewChangeProcessor(svc Service, logger logging.Logger, snapshotOnChange bool) *ChangeProcessor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ChangeProcessor{
		svc:              svc,
		logger:           logger.Named("changes"),
		snapshotOnChange: snapshotOnChange,
		pending:          make(map[string]struct{}),
	}
}

// Handle processes one change.  An error leaves the change unacknowledged so
// the consumer retries it.
func (p *ChangeProcessor) Handle(ctx context.Context, evt RecordChangedEvent) error {
	var ids []string
	if id := evt.AffectedProject(); id != "" {
		ids = append(ids, id)
	}
	if err := p.svc.Invalidate(ctx, ids...); err != nil {
		return err
	}

	p.mu.Lock()
	p.dirty = true
	for _, id := range ids {
		p.pending[id] = struct{}{}
	}
	p.mu.Unlock()

	p.logger.Debug("record change applied",
		logging.String("record_type", evt.RecordType),
		logging.String("record_id", evt.RecordID),
		logging.String("operation", evt.Operation))
	return nil
}

// Pending reports how many distinct projects changed since the last Flush.
func (p *ChangeProcessor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Flush ends the current batch.  It takes a snapshot when snapshots are
// enabled and at least one change arrived; the batch is kept when the
// snapshot fails so the next Flush retries it.
func (p *ChangeProcessor) Flush(ctx context.Context) error {
	p.mu.Lock()
	dirty, batch := p.dirty, p.pending
	p.dirty, p.pending = false, make(map[string]struct{})
	p.mu.Unlock()

	if !dirty || !p.snapshotOnChange {
		return nil
	}
	ref, err := p.svc.Snapshot(ctx)
	if err != nil {
		p.logger.Error("snapshot after change batch failed", logging.Int("projects", len(batch)), logging.Err(err))
		p.mu.Lock()
		p.dirty = true
		for id := range batch {
			p.pending[id] = struct{}{}
		}
		p.mu.Unlock()
		return err
	}
	p.logger.Info("snapshot after change batch", logging.String("snapshot_id", ref.ID), logging.Int("projects", len(batch)))
	return nil
}

// Run calls Flush every interval until ctx is done.
func (p *ChangeProcessor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Flush(ctx)
		}
	}
}

//Personal.AI order the ending

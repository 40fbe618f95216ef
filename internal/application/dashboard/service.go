// Package dashboard orchestrates the project board: it loads records from the
// configured source, runs the board engine, memoizes results, and stores and
// announces summary snapshots.
//
// Caching is two-tier.  Raw records live in the shared cache (Redis in
// production) under the "records:" prefix for CacheTTL.  Computed results live
// in an in-process LRU keyed by the content fingerprint of the records and the
// query, plus the evaluation time truncated to the memo resolution.
// Invalidate drops both tiers.
package dashboard

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/internal/domain/snapshot"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

const (
	recordsPrefix   = "records:"
	keyProjects     = recordsPrefix + "projects"
	keyTasksPrefix  = recordsPrefix + "tasks:"
	keyTasksAll     = keyTasksPrefix + "_all"
	defaultCacheTTL = 30 * time.Second

	defaultFetchTimeout = 30 * time.Second

	defaultSnapshotListLimit = 20
	maxSnapshotListLimit     = 100
)

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

// Service is the dashboard use-case boundary shared by the HTTP API, the CLI
// and the worker.
type Service interface {
	// Board returns the filtered, sorted project board and the summary of
	// every project.
	Board(ctx context.Context, q BoardQuery) (*board.Result, error)

	// Tasks returns a member's task board.
	Tasks(ctx context.Context, q TaskQuery) (*board.TaskResult, error)

	// Summary returns the KPI counters over every project.
	Summary(ctx context.Context) (*board.Summary, error)

	// Invalidate drops cached records and memoized results.  projectIDs name
	// the changed projects for the log; every entry is dropped regardless.
	Invalidate(ctx context.Context, projectIDs ...string) error

	// Snapshot stores the current summary and announces it.
	Snapshot(ctx context.Context) (*snapshot.Ref, error)

	// ListSnapshots returns stored snapshots, newest first.
	ListSnapshots(ctx context.Context, limit int) ([]snapshot.Ref, error)

	// GetSnapshot loads one stored snapshot.
	GetSnapshot(ctx context.Context, id string) (*snapshot.Snapshot, error)
}

// Config holds the service tunables.  Zero values take the defaults.
type Config struct {
	DefaultSort    board.SortField
	DefaultOrder   common.SortOrder
	CacheTTL       time.Duration
	MemoSize       int
	MemoResolution time.Duration
	// FetchTimeout bounds one record source call.  The call outlives the
	// request that started it, since other callers may be waiting on it.
	FetchTimeout time.Duration
}

// Option customises optional collaborators.
type Option func(*serviceImpl)

// WithCache enables the shared record cache.
func WithCache(c CachePort) Option { return func(s *serviceImpl) { s.cache = c } }

// WithSnapshotStore enables Snapshot, ListSnapshots and GetSnapshot.
func WithSnapshotStore(st SnapshotStore) Option { return func(s *serviceImpl) { s.snapshots = st } }

// WithPublisher enables snapshot events.
func WithPublisher(p EventPublisher) Option { return func(s *serviceImpl) { s.publisher = p } }

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option { return func(s *serviceImpl) { s.metrics = m } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *serviceImpl) { s.clock = now } }

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type serviceImpl struct {
	source    RecordSource
	cache     CachePort
	snapshots SnapshotStore
	publisher EventPublisher
	metrics   Metrics
	logger    logging.Logger
	clock     func() time.Time

	memo  *memo
	group singleflight.Group

	// genMu guards generation.  Invalidate bumps it; a fetch started under an
	// older generation does not write to the shared cache.
	genMu      sync.RWMutex
	generation uint64

	defaultSort  board.SortField
	defaultOrder common.SortOrder
	cacheTTL     time.Duration
	fetchTimeout time.Duration
}

// NewService constructs a Service over source.
func NewService(source RecordSource, logger logging.Logger, cfg Config, opts ...Option) (Service, error) {
	if source == nil {
		return nil, errors.New(errors.ErrCodeInternal, "record source is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = board.SortByDeadline
	}
	if !cfg.DefaultSort.Valid() {
		return nil, errors.Newf(errors.ErrCodeSortFieldInvalid, "invalid default sort field %q", cfg.DefaultSort)
	}
	if cfg.DefaultOrder == "" {
		cfg.DefaultOrder = common.SortAsc
	}
	if !cfg.DefaultOrder.Valid() {
		return nil, errors.Newf(errors.ErrCodeSortOrderInvalid, "invalid default sort order %q", cfg.DefaultOrder)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	m, err := newMemo(cfg.MemoSize, cfg.MemoResolution)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create result memo")
	}

	s := &serviceImpl{
		source:       source,
		metrics:      noopMetrics{},
		logger:       logger.Named("dashboard"),
		clock:        time.Now,
		memo:         m,
		defaultSort:  cfg.DefaultSort,
		defaultOrder: cfg.DefaultOrder,
		cacheTTL:     cfg.CacheTTL,
		fetchTimeout: cfg.FetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	return s, nil
}

// Board returns the project board for q.
func (s *serviceImpl) Board(ctx context.Context, q BoardQuery) (*board.Result, error) {
	query, err := q.resolve(s.defaultSort, s.defaultOrder)
	if err != nil {
		return nil, err
	}
	res, _, _, err := s.computeBoard(ctx, query)
	return res, err
}

// Summary returns the summary of an unfiltered board.
func (s *serviceImpl) Summary(ctx context.Context) (*board.Summary, error) {
	res, err := s.Board(ctx, BoardQuery{})
	if err != nil {
		return nil, err
	}
	summary := res.Summary
	return &summary, nil
}

// Tasks returns the task board of q.AssigneeID, or of everyone when empty.
func (s *serviceImpl) Tasks(ctx context.Context, q TaskQuery) (*board.TaskResult, error) {
	query, err := q.resolve(s.defaultSort, s.defaultOrder)
	if err != nil {
		return nil, err
	}
	member := strings.TrimSpace(q.AssigneeID)
	key := keyTasksAll
	if member != "" {
		key = keyTasksPrefix + member
	}
	tasks, err := loadRecords(ctx, s, key, "list_tasks", func(ctx context.Context) ([]board.Task, error) {
		return s.source.ListTasks(ctx, member)
	})
	if err != nil {
		return nil, err
	}
	tasks = board.TasksForMember(tasks, member)

	now := s.clock()
	mk := s.memo.key(memoKindTasks, board.TaskFingerprint(tasks, query), now)
	if v, ok := s.memo.get(mk); ok {
		s.metrics.RecordCacheHit(TierMemo)
		return v.(*board.TaskResult), nil
	}
	s.metrics.RecordCacheMiss(TierMemo)

	start := time.Now()
	res := board.ComputeTasks(tasks, query, now)
	s.metrics.ObserveCompute(memoKindTasks, time.Since(start))
	s.memo.add(mk, &res)

	s.logger.Debug("task board computed",
		logging.String("member", member),
		logging.Int("tasks", len(res.Tasks)),
		logging.Int("overdue", res.Summary.OverdueCount))
	return &res, nil
}

// Invalidate drops both cache tiers.
func (s *serviceImpl) Invalidate(ctx context.Context, projectIDs ...string) error {
	s.genMu.Lock()
	s.generation++
	s.genMu.Unlock()

	dropped := s.memo.purge()
	var deleted int64
	if s.cache != nil {
		n, err := s.cache.DeleteByPrefix(ctx, recordsPrefix)
		if err != nil {
			s.logger.Error("failed to drop cached records", logging.Err(err))
			return errors.Wrap(err, errors.ErrCodeCacheError, "failed to invalidate record cache")
		}
		deleted = n
	}
	s.logger.Info("board cache invalidated",
		logging.Strings("projects", projectIDs),
		logging.Int("memo_entries", dropped),
		logging.Int64("record_keys", deleted))
	return nil
}

// Snapshot computes the unfiltered board, stores its summary and publishes
// a snapshot event.  A failed publish is logged; the stored snapshot stands.
func (s *serviceImpl) Snapshot(ctx context.Context) (*snapshot.Ref, error) {
	if s.snapshots == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "snapshot store is not configured")
	}
	query := board.Query{SortField: s.defaultSort, SortOrder: s.defaultOrder}
	res, projects, fp, err := s.computeBoard(ctx, query)
	if err != nil {
		return nil, err
	}

	snap := snapshot.New(res, len(projects), fp)
	ref, err := s.snapshots.Save(ctx, snap)
	if err != nil {
		s.metrics.RecordSnapshot(false)
		s.logger.Error("failed to store snapshot", logging.String("snapshot_id", snap.ID), logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotFailed, "failed to store board snapshot")
	}
	s.metrics.RecordSnapshot(true)

	if s.publisher != nil {
		evt := SnapshotCreatedEvent{
			SnapshotID:   ref.ID,
			Key:          ref.Key,
			TakenAt:      snap.TakenAt,
			Fingerprint:  snap.Fingerprint,
			ProjectCount: snap.ProjectCount,
			Summary:      snap.Summary,
		}
		if err := s.publisher.PublishEvent(ctx, EventSnapshotCreated, ref.ID, evt); err != nil {
			s.logger.Warn("failed to publish snapshot event", logging.String("snapshot_id", ref.ID), logging.Err(err))
		}
	}

	s.logger.Info("snapshot stored",
		logging.String("snapshot_id", ref.ID),
		logging.String("key", ref.Key),
		logging.Int("projects", snap.ProjectCount))
	return ref, nil
}

// ListSnapshots returns up to limit stored snapshots; limit is clamped to
// [1, 100] with 20 for non-positive values.
func (s *serviceImpl) ListSnapshots(ctx context.Context, limit int) ([]snapshot.Ref, error) {
	if s.snapshots == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "snapshot store is not configured")
	}
	if limit <= 0 {
		limit = defaultSnapshotListLimit
	}
	if limit > maxSnapshotListLimit {
		limit = maxSnapshotListLimit
	}
	refs, err := s.snapshots.List(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to list snapshots")
	}
	return refs, nil
}

// GetSnapshot loads the snapshot stored under id.
func (s *serviceImpl) GetSnapshot(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	if s.snapshots == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "snapshot store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.Validation("snapshot id is required")
	}
	snap, err := s.snapshots.Get(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to load snapshot")
	}
	return snap, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// computeBoard loads the projects and returns the memoized or freshly
// computed result together with its inputs.
func (s *serviceImpl) computeBoard(ctx context.Context, query board.Query) (*board.Result, []board.Project, uint64, error) {
	projects, err := loadRecords(ctx, s, keyProjects, "list_projects", s.source.ListProjects)
	if err != nil {
		return nil, nil, 0, err
	}

	now := s.clock()
	fp := board.Fingerprint(projects, query)
	mk := s.memo.key(memoKindBoard, fp, now)
	if v, ok := s.memo.get(mk); ok {
		s.metrics.RecordCacheHit(TierMemo)
		return v.(*board.Result), projects, fp, nil
	}
	s.metrics.RecordCacheMiss(TierMemo)

	start := time.Now()
	res := board.Compute(projects, query, now)
	elapsed := time.Since(start)
	s.metrics.ObserveCompute(memoKindBoard, elapsed)
	s.metrics.SetBoardGauges(res.Summary)
	s.memo.add(mk, &res)

	s.logger.Debug("board computed",
		logging.Int("projects", len(projects)),
		logging.Int("visible", len(res.Projects)),
		logging.Duration("elapsed", elapsed))
	return &res, projects, fp, nil
}

func (s *serviceImpl) currentGeneration() uint64 {
	s.genMu.RLock()
	defer s.genMu.RUnlock()
	return s.generation
}

// storeRecords writes records to the shared cache unless an invalidation
// happened after gen was read.
func (s *serviceImpl) storeRecords(ctx context.Context, gen uint64, key string, records interface{}) {
	s.genMu.RLock()
	defer s.genMu.RUnlock()
	if s.generation != gen {
		s.logger.Debug("discarding records fetched before invalidation", logging.String("key", key))
		return
	}
	if err := s.cache.Set(ctx, key, records, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache records", logging.String("key", key), logging.Err(err))
	}
}

// loadRecords reads key from the shared cache or, on a miss, from fetch.
// Concurrent misses on the same key and generation share one fetch, which
// runs detached from the caller's cancellation.
func loadRecords[T any](ctx context.Context, s *serviceImpl, key, op string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var cached []T
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheHit(TierRecords)
			return cached, nil
		}
		s.metrics.RecordCacheMiss(TierRecords)
	}

	gen := s.currentGeneration()
	ch := s.group.DoChan(key+"@"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		records, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.storeRecords(fctx, gen, key, records)
		}
		return records, nil
	})

	var (
		v   interface{}
		err error
	)
	select {
	case r := <-ch:
		v, err = r.Val, r.Err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "record load abandoned").WithDetail(op)
	}
	if err != nil {
		s.metrics.RecordSourceError(op)
		s.logger.Error("record source failed", logging.String("op", op), logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to load records").WithDetail(op)
	}
	return v.([]T), nil
}

//Personal.AI order the ending

package dashboard

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	memoKindBoard = "board"
	memoKindTasks = "tasks"

	defaultMemoSize       = 256
	defaultMemoResolution = time.Minute
)

// memoKey identifies a computed result.  bucket is the evaluation time
// truncated to the memo resolution, since overdue flags depend on it.
type memoKey struct {
	kind   string
	fp     uint64
	bucket int64
}

// memo is the in-process result tier.  Values are shared between callers and
// must be treated as read-only.
type memo struct {
	cache      *lru.Cache[memoKey, any]
	resolution time.Duration
}

func newMemo(size int, resolution time.Duration) (*memo, error) {
	if size <= 0 {
		size = defaultMemoSize
	}
	if resolution <= 0 {
		resolution = defaultMemoResolution
	}
	c, err := lru.New[memoKey, any](size)
	if err != nil {
		return nil, err
	}
	return &memo{cache: c, resolution: resolution}, nil
}

func (m *memo) key(kind string, fp uint64, now time.Time) memoKey {
	return memoKey{kind: kind, fp: fp, bucket: now.UTC().Truncate(m.resolution).UnixNano()}
}

func (m *memo) get(k memoKey) (any, bool) {
	// 0 is the fingerprint of an input that could not be encoded.
	if k.fp == 0 {
		return nil, false
	}
	return m.cache.Get(k)
}

func (m *memo) add(k memoKey, v any) {
	if k.fp == 0 {
		return
	}
	m.cache.Add(k, v)
}

func (m *memo) purge() int {
	n := m.cache.Len()
	m.cache.Purge()
	return n
}

//Personal.AI order the ending

// Package snapshot defines the persisted board summary: a point-in-time copy
// of the KPI counters and the status facets, written to object storage and
// announced on the event bus.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

// idTimeLayout keeps IDs lexically ordered by capture time.
const idTimeLayout = "20060102T150405Z"

// Snapshot is one stored board summary.
type Snapshot struct {
	ID           string         `json:"id"`
	TakenAt      time.Time      `json:"takenAt"`
	Fingerprint  string         `json:"fingerprint"`
	ProjectCount int            `json:"projectCount"`
	Summary      board.Summary  `json:"summary"`
	StatusFacets []board.Status `json:"statusFacets"`
}

// Ref locates a stored snapshot.
type Ref struct {
	ID      string    `json:"id"`
	Key     string    `json:"key"`
	Size    int64     `json:"size"`
	TakenAt time.Time `json:"takenAt"`
}

// New captures result.  fingerprint is the board fingerprint of the records
// the result was computed from.
func New(result *board.Result, projectCount int, fingerprint uint64) *Snapshot {
	takenAt := result.ComputedAt.UTC()
	facets := result.StatusFacets
	if facets == nil {
		facets = []board.Status{}
	}
	return &Snapshot{
		ID:           NewID(takenAt),
		TakenAt:      takenAt,
		Fingerprint:  fmt.Sprintf("%016x", fingerprint),
		ProjectCount: projectCount,
		Summary:      result.Summary,
		StatusFacets: facets,
	}
}

// NewID builds a snapshot ID that sorts by capture time.
func NewID(takenAt time.Time) string {
	return takenAt.UTC().Format(idTimeLayout) + "-" + common.GenerateID("")[:8]
}

// TakenAtFromID recovers the capture time encoded in id.
func TakenAtFromID(id string) (time.Time, bool) {
	if len(id) < len(idTimeLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(idTimeLayout, id[:len(idTimeLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Repository persists snapshots.
type Repository interface {
	Save(ctx context.Context, s *Snapshot) (*Ref, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	// List returns up to limit refs, newest first.
	List(ctx context.Context, limit int) ([]Ref, error)
}

//Personal.AI order the ending

package dashboard

import (
	"time"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
)

// Event types exchanged on the bus.
const (
	EventProjectChanged  = "records.project.changed"
	EventTaskChanged     = "records.task.changed"
	EventSnapshotCreated = "dashboard.snapshot.created"
)

// RecordChangedEvent is emitted by the record store whenever a project or
// task is written or removed.
type RecordChangedEvent struct {
	RecordType string    `json:"record_type"`
	RecordID   string    `json:"record_id"`
	ProjectID  string    `json:"project_id,omitempty"`
	Operation  string    `json:"operation"`
	ChangedAt  time.Time `json:"changed_at"`
}

// AffectedProject returns the project the change belongs to.
func (e RecordChangedEvent) AffectedProject() string {
	if e.ProjectID != "" {
		return e.ProjectID
	}
	if e.RecordType == "project" {
		return e.RecordID
	}
	return ""
}

// SnapshotCreatedEvent announces a stored snapshot.
type SnapshotCreatedEvent struct {
	SnapshotID   string        `json:"snapshot_id"`
	Key          string        `json:"key"`
	TakenAt      time.Time     `json:"taken_at"`
	Fingerprint  string        `json:"fingerprint"`
	ProjectCount int           `json:"project_count"`
	Summary      board.Summary `json:"summary"`
}

//Personal.AI order the ending

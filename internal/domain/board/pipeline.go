package board

import (
	"encoding/json"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

// Query is a complete view request: which records to keep and how to order
// them.
type Query struct {
	Criteria  Criteria         `json:"criteria"`
	SortField SortField        `json:"sortField,omitempty"`
	SortOrder common.SortOrder `json:"sortOrder,omitempty"`
}

// Result is the project board: the filtered, sorted project views and the
// summary of the unfiltered collection.
type Result struct {
	Projects     []ProjectView `json:"projects"`
	Summary      Summary       `json:"summary"`
	StatusFacets []Status      `json:"statusFacets"`
	ComputedAt   time.Time     `json:"computedAt"`
}

// Compute runs filter and sort over projects for display and summarizes the
// whole input.  An empty SortField keeps input order.
func Compute(projects []Project, q Query, now time.Time) Result {
	filtered := FilterProjects(projects, q.Criteria)
	if q.SortField != "" {
		filtered = SortProjects(filtered, q.SortField, q.SortOrder)
	}
	return Result{
		Projects:     NormalizeProjects(filtered, now),
		Summary:      Summarize(projects, now),
		StatusFacets: StatusFacets(projects),
		ComputedAt:   now.UTC(),
	}
}

// TaskResult is a member's task board.
type TaskResult struct {
	Tasks      []TaskView  `json:"tasks"`
	Summary    TaskSummary `json:"summary"`
	ComputedAt time.Time   `json:"computedAt"`
}

// ComputeTasks filters tasks, orders them by due date and summarizes the
// whole input.  Tasks are always sorted by deadline; SortField is ignored.
func ComputeTasks(tasks []Task, q Query, now time.Time) TaskResult {
	filtered := SortTasks(FilterTasks(tasks, q.Criteria), q.SortOrder)
	return TaskResult{
		Tasks:      NormalizeTasks(filtered, now),
		Summary:    SummarizeTasks(tasks, now),
		ComputedAt: now.UTC(),
	}
}

// Fingerprint hashes the canonical JSON encoding of projects and q.  Equal
// inputs hash equally; 0 means the input could not be encoded and must not be
// cached.
func Fingerprint(projects []Project, q Query) uint64 {
	return fingerprint(struct {
		Kind     string    `json:"kind"`
		Projects []Project `json:"projects"`
		Query    Query     `json:"query"`
	}{"projects", projects, q})
}

// TaskFingerprint is Fingerprint for a task board.
func TaskFingerprint(tasks []Task, q Query) uint64 {
	return fingerprint(struct {
		Kind  string `json:"kind"`
		Tasks []Task `json:"tasks"`
		Query Query  `json:"query"`
	}{"tasks", tasks, q})
}

func fingerprint(v any) uint64 {
	d := xxhash.New()
	if err := json.NewEncoder(d).Encode(v); err != nil {
		return 0
	}
	return d.Sum64()
}

//Personal.AI order the ending

package board

import (
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────────────────────────────────────

// Status is the canonical form of a free-text backend status.  The four
// constants below are the known states; any other value is a lower-cased
// passthrough of whatever the backend sent.
type Status string

const (
	StatusToDo       Status = "to-do"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

// Display labels produced by StatusLabel.
const (
	LabelToDo       = "To-Do"
	LabelInProgress = "In Progress"
	LabelCompleted  = "Completed"
	LabelBlocked    = "Blocked"
	LabelUnknown    = "Unknown"
)

// Known reports whether s is one of the four canonical states.
func (s Status) Known() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	}
	return false
}

// CanonicalStatus maps a raw status case-insensitively:
//
//	doing         → in progress
//	done          → completed
//	to-do, todo   → to-do
//	blocked       → blocked
//
// Every other value is returned lower-cased and otherwise unchanged, so that
// status filters built from distinct values can still surface states the
// backend invents.  KPI counters only ever count the four known states.
func CanonicalStatus(raw string) Status {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "doing", string(StatusInProgress):
		return StatusInProgress
	case "done", string(StatusCompleted):
		return StatusCompleted
	case "to-do", "todo":
		return StatusToDo
	case "blocked":
		return StatusBlocked
	}
	return Status(v)
}

// StatusLabel maps a raw or canonical status to the label shown on task
// cards.  Unlike CanonicalStatus it has a catch-all: anything outside the four
// known states reads "Unknown".
func StatusLabel(raw string) string {
	switch CanonicalStatus(raw) {
	case StatusToDo:
		return LabelToDo
	case StatusInProgress:
		return LabelInProgress
	case StatusCompleted:
		return LabelCompleted
	case StatusBlocked:
		return LabelBlocked
	}
	return LabelUnknown
}

// StatusFacets returns the sorted distinct canonical statuses found on the
// projects and their tasks, passthrough values included.  It feeds the
// status filter options.
func StatusFacets(projects []Project) []Status {
	seen := make(map[Status]struct{})
	add := func(raw string) {
		if s := CanonicalStatus(raw); s != "" {
			seen[s] = struct{}{}
		}
	}
	for i := range projects {
		add(projects[i].Status)
		for j := range projects[i].Tasks {
			add(projects[i].Tasks[j].Status)
		}
	}
	out := make([]Status, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

//Personal.AI order the ending

package board

import (
	"strconv"
	"strings"
)

// FilterAll is the criterion value that disables a filter.  An empty value
// does the same.
const FilterAll = "all"

// Criteria is a conjunction of optional predicates.  Each field is inactive
// when empty or "all".
type Criteria struct {
	// Search is a case-insensitive substring of the name/title or description.
	Search string `json:"search,omitempty" mapstructure:"search"`

	// ProjectID selects a single project (or, for tasks, the owning project).
	ProjectID string `json:"projectId,omitempty" mapstructure:"project_id"`

	// EmployeeSubstring is a case-insensitive substring of any member ID or
	// member display name.
	EmployeeSubstring string `json:"employee,omitempty" mapstructure:"employee"`

	// Status matches the record's canonical status or that of any child.
	Status string `json:"status,omitempty" mapstructure:"status"`

	// CompletionBucket is "100" or "<lo>-<hi>".  Unparseable values match
	// everything.
	CompletionBucket string `json:"completion,omitempty" mapstructure:"completion"`

	// Priority is a bucket name: low, medium or high.
	Priority string `json:"priority,omitempty" mapstructure:"priority"`
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, FilterAll)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// FilterProjects returns the projects matching every active criterion, in
// input order.  The input is not modified.
func FilterProjects(projects []Project, c Criteria) []Project {
	out := make([]Project, 0, len(projects))
	for i := range projects {
		if c.MatchProject(&projects[i]) {
			out = append(out, projects[i])
		}
	}
	return out
}

// FilterTasks returns the tasks matching every active criterion, in input
// order.  The input is not modified.
func FilterTasks(tasks []Task, c Criteria) []Task {
	out := make([]Task, 0, len(tasks))
	for i := range tasks {
		if c.MatchTask(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// MatchProject reports whether p satisfies every active criterion.
func (c Criteria) MatchProject(p *Project) bool {
	if active(c.Search) {
		q := strings.ToLower(strings.TrimSpace(c.Search))
		if !containsFold(p.Name, q) && !containsFold(p.Description, q) {
			return false
		}
	}
	if active(c.ProjectID) && p.ID != strings.TrimSpace(c.ProjectID) {
		return false
	}
	if active(c.EmployeeSubstring) && !matchTeam(p.TeamIDs, c.EmployeeSubstring) {
		return false
	}
	if active(c.Status) {
		want := CanonicalStatus(c.Status)
		if CanonicalStatus(p.Status) != want && !anyTaskStatus(p.Tasks, want) {
			return false
		}
	}
	if !MatchCompletionBucket(c.CompletionBucket, CompletionPercent(p)) {
		return false
	}
	if active(c.Priority) && !matchPriority(p.Priority, c.Priority) {
		return false
	}
	return true
}

// MatchTask reports whether t satisfies every active criterion.
func (c Criteria) MatchTask(t *Task) bool {
	if active(c.Search) {
		q := strings.ToLower(strings.TrimSpace(c.Search))
		if !containsFold(t.Title, q) && !containsFold(t.Description, q) {
			return false
		}
	}
	if active(c.ProjectID) && t.ProjectID != strings.TrimSpace(c.ProjectID) {
		return false
	}
	if active(c.EmployeeSubstring) {
		q := strings.ToLower(strings.TrimSpace(c.EmployeeSubstring))
		found := false
		for _, id := range t.Members() {
			if containsFold(id, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if active(c.Status) {
		want := CanonicalStatus(c.Status)
		if CanonicalStatus(t.Status) != want && !anySubtaskStatus(t.Subtasks, want) {
			return false
		}
	}
	if !MatchCompletionBucket(c.CompletionBucket, TaskCompletionPercent(t)) {
		return false
	}
	if active(c.Priority) && !matchPriority(t.Priority, c.Priority) {
		return false
	}
	return true
}

// MatchCompletionBucket reports whether percent falls in bucket.  "all" and
// "" match everything, "100" matches exactly 100 and "<lo>-<hi>" matches the
// closed range.  Anything else matches everything.
func MatchCompletionBucket(bucket string, percent int) bool {
	b := strings.TrimSpace(bucket)
	if !active(b) {
		return true
	}
	if b == "100" {
		return percent == 100
	}
	loText, hiText, ok := strings.Cut(b, "-")
	if !ok {
		return true
	}
	lo, errLo := strconv.ParseFloat(strings.TrimSpace(loText), 64)
	hi, errHi := strconv.ParseFloat(strings.TrimSpace(hiText), 64)
	if errLo != nil || errHi != nil {
		return true
	}
	pct := float64(percent)
	return lo <= pct && pct <= hi
}

func matchTeam(team []MemberRef, substring string) bool {
	q := strings.ToLower(strings.TrimSpace(substring))
	for _, m := range team {
		if m.IsZero() {
			continue
		}
		if containsFold(m.ID, q) || containsFold(m.Name, q) {
			return true
		}
	}
	return false
}

func matchPriority(f PriorityField, want string) bool {
	return string(f.Bucket()) == strings.ToLower(strings.TrimSpace(want))
}

func anyTaskStatus(tasks []Task, want Status) bool {
	for i := range tasks {
		if CanonicalStatus(tasks[i].Status) == want {
			return true
		}
	}
	return false
}

func anySubtaskStatus(subtasks []Subtask, want Status) bool {
	for _, s := range subtasks {
		if CanonicalStatus(s.Status) == want {
			return true
		}
	}
	return false
}

//Personal.AI order the ending

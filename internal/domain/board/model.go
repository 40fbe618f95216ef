// Package board is the derived-state engine behind the project dashboard.
//
// It takes Project and Task records in whatever shape the record source
// delivers them, and produces normalized view-models, filtered and sorted
// project lists and KPI summaries.  Every function in the package is pure:
// no I/O, no shared state, no errors.  Bad input degrades to documented
// defaults (medium priority, absent date, empty task list, match-everything
// completion bucket) instead of failing, so the package is safe to call on
// every request and from any number of goroutines.
package board

import (
	"bytes"
	"encoding/json"
	"strings"
)

// UnassignedProjectID is the project reference given to tasks that arrive
// without one.
const UnassignedProjectID = "unassigned"

// ─────────────────────────────────────────────────────────────────────────────
// MemberRef
// ─────────────────────────────────────────────────────────────────────────────

// MemberRef is one entry of a project's team list.  The source sends either a
// bare member ID or an object with an id and a display name.  The zero
// MemberRef never matches a member filter.
type MemberRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsZero reports whether the entry carries neither ID nor name.
func (m MemberRef) IsZero() bool {
	return m.ID == "" && m.Name == ""
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (m *MemberRef) UnmarshalJSON(data []byte) error {
	*m = MemberRef{}
	if isNull(data) {
		return nil
	}
	if obj, ok := decodeObject(data); ok {
		m.ID = obj.text("id", "_id", "uid", "userId")
		m.Name = obj.text("name", "displayName", "fullName")
		return nil
	}
	m.ID = scalarText(data)
	return nil
}

// MarshalJSON writes a bare ID when there is no name.
func (m MemberRef) MarshalJSON() ([]byte, error) {
	if m.Name == "" {
		return json.Marshal(m.ID)
	}
	type plain MemberRef
	return json.Marshal(plain(m))
}

// ─────────────────────────────────────────────────────────────────────────────
// StringList
// ─────────────────────────────────────────────────────────────────────────────

// StringList is an identifier or tag collection.  Decoding accepts an array
// or a single scalar; nulls, empty strings, objects and arrays are dropped,
// numbers keep their literal form and duplicates are removed with the first
// occurrence kept.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = nil
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}
	if data[0] != '[' {
		if s := strings.TrimSpace(scalarText(data)); s != "" {
			*l = StringList{s}
		}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	raw := make([]string, 0, len(items))
	for _, it := range items {
		raw = append(raw, scalarText(it))
	}
	*l = Dedupe(raw)
	return nil
}

// Dedupe trims the entries, drops empty ones and removes duplicates while
// preserving first-seen order.  The input is not modified.
func Dedupe(values []string) StringList {
	seen := make(map[string]struct{}, len(values))
	out := make(StringList, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Subtask
// ─────────────────────────────────────────────────────────────────────────────

// Subtask is a checklist item under a task.
type Subtask struct {
	ID     string `json:"id"`
	TaskID string `json:"taskId,omitempty"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status"`
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (s *Subtask) UnmarshalJSON(data []byte) error {
	*s = Subtask{}
	obj, ok := decodeObject(data)
	if !ok {
		return nil
	}
	s.ID = obj.text("id", "_id")
	s.TaskID = obj.text("taskId", "task_id", "parentId")
	s.Title = obj.text("title", "name")
	s.Status = obj.text("status")
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Task
// ─────────────────────────────────────────────────────────────────────────────

// Task is a unit of work, either embedded in a Project or delivered on its
// own for a member's task board.
type Task struct {
	// ID identifies the task.  It is the only member the source guarantees.
	ID string `json:"id"`

	// ProjectID references the owning project.  UnassignedProjectID when the
	// source omits it.
	ProjectID string `json:"projectId"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Status is the raw backend status; see CanonicalStatus.
	Status string `json:"status"`

	// Priority is numeric-leaning on tasks; see TaskPriorityLevel.
	Priority PriorityField `json:"priority"`

	DueDate DueDate `json:"dueDate"`

	AssigneeID      string     `json:"assigneeId,omitempty"`
	CollaboratorIDs StringList `json:"collaboratorsIds,omitempty"`
	Tags            StringList `json:"tags,omitempty"`
	Subtasks        []Subtask  `json:"subtasks,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (t *Task) UnmarshalJSON(data []byte) error {
	*t = Task{}
	obj, ok := decodeObject(data)
	if !ok {
		t.ProjectID = UnassignedProjectID
		return nil
	}
	t.ID = obj.text("id", "_id")
	t.ProjectID = obj.text("projectId", "project_id")
	if t.ProjectID == "" {
		t.ProjectID = UnassignedProjectID
	}
	t.Title = obj.text("title", "name")
	t.Description = obj.text("description")
	t.Status = obj.text("status")
	if v, ok := obj.lookup("priority"); ok {
		t.Priority.Raw = decodeRawPriority(v)
	}
	if v, ok := obj.lookup("dueDate", "due_date", "deadline"); ok {
		t.DueDate = decodeDueDate(v)
	}
	t.AssigneeID = obj.text("assigneeId", "assignee_id")
	if v, ok := obj.lookup("collaboratorsIds", "collaboratorIds", "collaborator_ids"); ok {
		_ = t.CollaboratorIDs.UnmarshalJSON(v)
	}
	if v, ok := obj.lookup("tags"); ok {
		_ = t.Tags.UnmarshalJSON(v)
	}
	if v, ok := obj.lookup("subtasks"); ok {
		t.Subtasks = decodeList[Subtask](v)
	}
	return nil
}

// Members returns the de-duplicated assignee and collaborator IDs.
func (t *Task) Members() StringList {
	ids := make([]string, 0, len(t.CollaboratorIDs)+1)
	ids = append(ids, t.AssigneeID)
	ids = append(ids, t.CollaboratorIDs...)
	return Dedupe(ids)
}

// ─────────────────────────────────────────────────────────────────────────────
// Project
// ─────────────────────────────────────────────────────────────────────────────

// Project is a project record with its embedded task summaries.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Status is the raw backend status; see CanonicalStatus.
	Status string `json:"status"`

	// Priority is a string, a number or a {"value": ...} object.
	Priority PriorityField `json:"priority"`

	// Progress is an explicit completion figure.  It may lie outside 0–100;
	// nil when absent or not a JSON number.
	Progress *float64 `json:"progress,omitempty"`

	DueDate DueDate `json:"dueDate"`

	// TeamIDs lists members as bare IDs or {id, name} objects.
	TeamIDs []MemberRef `json:"teamIds,omitempty"`

	// Tasks may be absent; nil and empty are equivalent.
	Tasks []Task `json:"tasks,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (p *Project) UnmarshalJSON(data []byte) error {
	*p = Project{}
	obj, ok := decodeObject(data)
	if !ok {
		return nil
	}
	p.ID = obj.text("id", "_id")
	p.Name = obj.text("name", "title")
	p.Description = obj.text("description")
	p.Status = obj.text("status")
	if v, ok := obj.lookup("priority"); ok {
		p.Priority.Raw = decodeRawPriority(v)
	}
	p.Progress = obj.number("progress")
	if v, ok := obj.lookup("dueDate", "due_date", "deadline"); ok {
		p.DueDate = decodeDueDate(v)
	}
	if v, ok := obj.lookup("teamIds", "team_ids", "members"); ok {
		p.TeamIDs = decodeList[MemberRef](v)
		if p.TeamIDs == nil {
			var m MemberRef
			_ = m.UnmarshalJSON(v)
			if !m.IsZero() {
				p.TeamIDs = []MemberRef{m}
			}
		}
	}
	if v, ok := obj.lookup("tasks"); ok {
		p.Tasks = decodeList[Task](v)
		for i := range p.Tasks {
			if p.Tasks[i].ProjectID == UnassignedProjectID && p.ID != "" {
				p.Tasks[i].ProjectID = p.ID
			}
		}
	}
	return nil
}

// MemberIDs returns the de-duplicated, non-empty team member IDs.
func (p *Project) MemberIDs() StringList {
	ids := make([]string, 0, len(p.TeamIDs))
	for _, m := range p.TeamIDs {
		ids = append(ids, m.ID)
	}
	return Dedupe(ids)
}

// decodeList decodes a JSON array element by element, skipping null
// elements.  A non-array value yields nil.
func decodeList[T any](data json.RawMessage) []T {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if isNull(it) {
			continue
		}
		var v T
		if err := json.Unmarshal(it, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DecodeProjects decodes a JSON array of project records.  Records that are
// not objects decode as empty projects; a document that is not an array
// yields nil.
func DecodeProjects(data []byte) []Project {
	return decodeList[Project](data)
}

// DecodeTasks decodes a JSON array of task records.
func DecodeTasks(data []byte) []Task {
	return decodeList[Task](data)
}

//Personal.AI order the ending

package board

import "time"

// TaskView is the normalized form of a Task handed to renderers.
type TaskView struct {
	ID              string         `json:"id"`
	ProjectID       string         `json:"projectId"`
	Title           string         `json:"title,omitempty"`
	Description     string         `json:"description,omitempty"`
	Status          Status         `json:"status"`
	StatusLabel     string         `json:"statusLabel"`
	Priority        PriorityBucket `json:"priority"`
	PriorityLevel   *int           `json:"priorityLevel"`
	DueDate         DueDate        `json:"dueDate"`
	Overdue         bool           `json:"overdue"`
	DaysOverdue     int            `json:"daysOverdue"`
	AssigneeID      string         `json:"assigneeId,omitempty"`
	CollaboratorIDs []string       `json:"collaboratorsIds"`
	Tags            []string       `json:"tags"`
	Subtasks        []Subtask      `json:"subtasks,omitempty"`
	SubtaskPercent  *int           `json:"subtaskCompletion,omitempty"`
}

// ProjectView is the normalized form of a Project handed to renderers.
type ProjectView struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Status            Status         `json:"status"`
	Priority          PriorityBucket `json:"priority"`
	CompletionPercent int            `json:"completionPercent"`
	DueDate           DueDate        `json:"dueDate"`
	Overdue           bool           `json:"overdue"`
	TeamIDs           []string       `json:"teamIds"`
	Team              []MemberRef    `json:"team,omitempty"`
	Tasks             []TaskView     `json:"tasks"`
}

// NormalizeTask builds the view of t at now.
func NormalizeTask(t *Task, now time.Time) TaskView {
	v := TaskView{
		ID:              t.ID,
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          CanonicalStatus(t.Status),
		StatusLabel:     StatusLabel(t.Status),
		Priority:        t.Priority.Bucket(),
		DueDate:         t.DueDate,
		AssigneeID:      t.AssigneeID,
		CollaboratorIDs: nonNil(Dedupe(t.CollaboratorIDs)),
		Tags:            nonNil(Dedupe(t.Tags)),
		Subtasks:        t.Subtasks,
	}
	if v.ProjectID == "" {
		v.ProjectID = UnassignedProjectID
	}
	if level, ok := TaskPriorityLevel(t.Priority.Raw); ok {
		v.PriorityLevel = &level
	}
	if IsOverdue(t.DueDate, t.Status, now) {
		v.Overdue = true
		v.DaysOverdue = OverdueDays(t.DueDate, now)
	}
	if pct, ok := SubtaskCompletion(t); ok {
		v.SubtaskPercent = &pct
	}
	return v
}

// NormalizeProject builds the view of p at now.
func NormalizeProject(p *Project, now time.Time) ProjectView {
	v := ProjectView{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Status:            CanonicalStatus(p.Status),
		Priority:          p.Priority.Bucket(),
		CompletionPercent: CompletionPercent(p),
		DueDate:           p.DueDate,
		Overdue:           IsOverdue(p.DueDate, p.Status, now),
		TeamIDs:           nonNil(p.MemberIDs()),
		Tasks:             make([]TaskView, 0, len(p.Tasks)),
	}
	for _, m := range p.TeamIDs {
		if m.Name != "" {
			v.Team = append(v.Team, m)
		}
	}
	for i := range p.Tasks {
		v.Tasks = append(v.Tasks, NormalizeTask(&p.Tasks[i], now))
	}
	return v
}

// NormalizeProjects normalizes every project in order.
func NormalizeProjects(projects []Project, now time.Time) []ProjectView {
	out := make([]ProjectView, 0, len(projects))
	for i := range projects {
		out = append(out, NormalizeProject(&projects[i], now))
	}
	return out
}

// NormalizeTasks normalizes every task in order.
func NormalizeTasks(tasks []Task, now time.Time) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		out = append(out, NormalizeTask(&tasks[i], now))
	}
	return out
}

func nonNil(l StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

//Personal.AI order the ending

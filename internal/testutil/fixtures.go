package testutil

import (
	"time"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
)

// FixedNow is the reference clock used by fixtures.  Fixture due dates are
// relative to it.
var FixedNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

// ProjectsJSON is a small record-source payload in the loose shape the
// upstream API produces: mixed priority representations, missing task
// lists, null collaborators and epoch-seconds dates.
const ProjectsJSON = `[
  {
    "id": "p-web",
    "name": "Website Redesign",
    "status": "doing",
    "priority": 8,
    "dueDate": "2025-08-15",
    "teamIds": ["u-alice", {"id": "u-bob", "name": "Bob Stone"}, null],
    "tasks": [
      {"id": "t-1", "title": "Wireframes", "status": "done", "assigneeId": "u-alice", "priority": 5},
      {"id": "t-2", "title": "Copy review", "status": "to-do", "assigneeId": "u-bob",
       "collaboratorsIds": ["u-alice", null, "u-alice"], "dueDate": "2025-06-26", "priority": "9"},
      {"id": "t-3", "title": "Launch checklist", "status": "blocked", "assigneeId": "u-alice",
       "dueDate": {"seconds": 1749945600, "nanoseconds": 0}, "tags": "launch"}
    ]
  },
  {
    "id": "p-billing",
    "name": "Billing Migration",
    "status": "todo",
    "priority": {"value": "low"},
    "teamIds": ["u-carol"]
  },
  {
    "id": "p-mobile",
    "name": "Mobile App",
    "status": "done",
    "priority": "2",
    "progress": 100,
    "dueDate": "2020-01-01"
  }
]`

// SampleProjects decodes ProjectsJSON.
func SampleProjects() []board.Project {
	return board.DecodeProjects([]byte(ProjectsJSON))
}

// SampleTasks returns the tasks embedded in SampleProjects.
func SampleTasks() []board.Task {
	return board.FlattenTasks(SampleProjects())
}

//Personal.AI order the ending

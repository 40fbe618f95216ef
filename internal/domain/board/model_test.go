package board

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProjects_Tolerant(t *testing.T) {
	t.Parallel()
	ps := DecodeProjects([]byte(`[
		{
			"id": "p1",
			"name": "Alpha",
			"status": "Doing",
			"priority": {"value": "9"},
			"progress": "not a number",
			"dueDate": {"_seconds": 1719705600, "_nanoseconds": 0},
			"teamIds": ["u1", null, {"id": "u2", "name": "Bea"}, "u1"],
			"tasks": [
				{"id": "t1", "status": "done", "collaboratorsIds": ["a", null, "a", 7, "", {"x": 1}], "tags": "urgent"},
				null,
				{"id": "t2", "projectId": "other", "dueDate": 1719705600000}
			]
		},
		null,
		"junk",
		{"id": "p2", "tasks": null, "teamIds": "u9"}
	]`))
	require.Len(t, ps, 3)

	p1 := ps[0]
	assert.Equal(t, "p1", p1.ID)
	assert.Equal(t, "Doing", p1.Status)
	assert.Equal(t, WrappedPriority{Value: StringPriority("9")}, p1.Priority.Raw)
	assert.Nil(t, p1.Progress)
	due, ok := p1.DueDate.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), due)
	assert.Equal(t, StringList{"u1", "u2"}, p1.MemberIDs())

	require.Len(t, p1.Tasks, 2)
	assert.Equal(t, "p1", p1.Tasks[0].ProjectID)
	assert.Equal(t, StringList{"a", "7"}, p1.Tasks[0].CollaboratorIDs)
	assert.Equal(t, StringList{"urgent"}, p1.Tasks[0].Tags)
	assert.Equal(t, "other", p1.Tasks[1].ProjectID)
	assert.True(t, p1.Tasks[1].DueDate.Valid())

	assert.Equal(t, Project{}, ps[1])

	assert.Equal(t, "p2", ps[2].ID)
	assert.Empty(t, ps[2].Tasks)
	assert.Equal(t, []MemberRef{{ID: "u9"}}, ps[2].TeamIDs)

	assert.Nil(t, DecodeProjects([]byte(`{"not": "an array"}`)))
}

func TestDecodeTasks_DefaultsProjectID(t *testing.T) {
	tasks := DecodeTasks([]byte(`[{"id": "t1"}, {"id": "t2", "projectId": "p9", "subtasks": [{"id": "s1", "status": "done"}, null]}]`))
	require.Len(t, tasks, 2)
	assert.Equal(t, UnassignedProjectID, tasks[0].ProjectID)
	assert.Equal(t, "p9", tasks[1].ProjectID)
	assert.Len(t, tasks[1].Subtasks, 1)
}

func TestParseDueDate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in    string
		want  time.Time
		valid bool
	}{
		{"2025-06-30", time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), true},
		{"2025-06-30T12:30:00Z", time.Date(2025, 6, 30, 12, 30, 0, 0, time.UTC), true},
		{"2025-06-30T12:30:00", time.Date(2025, 6, 30, 12, 30, 0, 0, time.UTC), true},
		{"2025-06-30T14:30:00+02:00", time.Date(2025, 6, 30, 12, 30, 0, 0, time.UTC), true},
		{"06/30/2025", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		d := ParseDueDate(tt.in)
		got, ok := d.Time()
		assert.Equal(t, tt.valid, ok, tt.in)
		if tt.valid {
			assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
		}
	}
}

func TestDueDate_JSON(t *testing.T) {
	var d DueDate
	require.NoError(t, json.Unmarshal([]byte(`true`), &d))
	assert.False(t, d.Valid())

	out, err := json.Marshal(DueDate{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = json.Marshal(ParseDueDate("2025-06-30"))
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-30T00:00:00Z"`, string(out))
}

func TestDecodeTasks_OutOfRangeEpoch(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	tasks := DecodeTasks([]byte(`[
		{"id": "t1", "dueDate": 1e300, "status": "to-do"},
		{"id": "t2", "dueDate": -8.65e15, "status": "to-do"},
		{"id": "t3", "dueDate": {"seconds": 1e300}, "status": "to-do"},
		{"id": "t4", "dueDate": 8.64e15, "status": "to-do"}
	]`))
	require.Len(t, tasks, 4)
	for _, task := range tasks[:3] {
		assert.False(t, task.DueDate.Valid(), task.ID)
		assert.False(t, IsOverdue(task.DueDate, task.Status, now), task.ID)
	}
	due, ok := tasks[3].DueDate.Time()
	require.True(t, ok)
	assert.Equal(t, 275760, due.Year())
	assert.Equal(t, 0, MedianOverdueDays(tasks, now))
}

func TestMemberRef_JSON(t *testing.T) {
	var m MemberRef
	require.NoError(t, json.Unmarshal([]byte(`{"_id": "u1", "displayName": "Ann"}`), &m))
	assert.Equal(t, MemberRef{ID: "u1", Name: "Ann"}, m)

	out, err := json.Marshal(MemberRef{ID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, `"u2"`, string(out))
}

func TestTask_Members(t *testing.T) {
	task := Task{AssigneeID: "a", CollaboratorIDs: StringList{"b", "a", " ", "c"}}
	assert.Equal(t, StringList{"a", "b", "c"}, task.Members())
}

//Personal.AI order the ending

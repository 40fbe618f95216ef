package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func projectIDs(ps []Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func fixtureProjects() []Project {
	return []Project{
		{
			ID: "p1", Name: "Website Redesign", Description: "marketing refresh",
			Status: "doing", Priority: PriorityField{Raw: NumberPriority(9)},
			TeamIDs: []MemberRef{{ID: "u-alice", Name: "Alice Smith"}, {}, {ID: "u-bob"}},
			Tasks:   []Task{{ID: "t1", Status: "done"}, {ID: "t2", Status: "blocked"}},
		},
		{
			ID: "p2", Name: "Billing Migration",
			Status: "todo", Priority: PriorityField{Raw: StringPriority("low")},
			TeamIDs: []MemberRef{{ID: "u-carol"}},
		},
		{
			ID: "p3", Name: "Mobile App",
			Status: "done", Priority: PriorityField{Raw: WrappedPriority{Value: NumberPriority(5)}},
			Progress: floatPtr(100),
		},
	}
}

func TestFilterProjects_NoCriteria(t *testing.T) {
	ps := fixtureProjects()
	assert.Equal(t, []string{"p1", "p2", "p3"}, projectIDs(FilterProjects(ps, Criteria{})))
	all := Criteria{Search: "", ProjectID: "all", Status: "ALL", CompletionBucket: "all", Priority: "all"}
	assert.Equal(t, []string{"p1", "p2", "p3"}, projectIDs(FilterProjects(ps, all)))
}

func TestFilterProjects_Fields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"search name", Criteria{Search: "WEBSITE"}, []string{"p1"}},
		{"search description", Criteria{Search: "refresh"}, []string{"p1"}},
		{"search miss", Criteria{Search: "nothing"}, []string{}},
		{"project id", Criteria{ProjectID: "p2"}, []string{"p2"}},
		{"employee by id", Criteria{EmployeeSubstring: "carol"}, []string{"p2"}},
		{"employee by name", Criteria{EmployeeSubstring: "smith"}, []string{"p1"}},
		{"employee shared prefix", Criteria{EmployeeSubstring: "u-"}, []string{"p1", "p2"}},
		{"status own", Criteria{Status: "to-do"}, []string{"p2"}},
		{"status via task", Criteria{Status: "blocked"}, []string{"p1"}},
		{"status alias", Criteria{Status: "done"}, []string{"p1", "p3"}},
		{"completion exact", Criteria{CompletionBucket: "100"}, []string{"p3"}},
		{"completion range", Criteria{CompletionBucket: "0-49"}, []string{"p2"}},
		{"completion garbage", Criteria{CompletionBucket: "garbage"}, []string{"p1", "p2", "p3"}},
		{"priority high", Criteria{Priority: "high"}, []string{"p1"}},
		{"priority wrapped", Criteria{Priority: "Medium"}, []string{"p3"}},
		{"conjunction", Criteria{EmployeeSubstring: "u-", Priority: "low"}, []string{"p2"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, projectIDs(FilterProjects(fixtureProjects(), tt.c)))
		})
	}
}

func TestFilterProjects_DoesNotMutate(t *testing.T) {
	ps := fixtureProjects()
	_ = FilterProjects(ps, Criteria{Search: "billing"})
	assert.Equal(t, []string{"p1", "p2", "p3"}, projectIDs(ps))
}

func TestMatchCompletionBucket(t *testing.T) {
	t.Parallel()
	assert.True(t, MatchCompletionBucket("25-49", 25))
	assert.True(t, MatchCompletionBucket("25-49", 49))
	assert.False(t, MatchCompletionBucket("25-49", 24))
	assert.False(t, MatchCompletionBucket("25-49", 50))

	assert.True(t, MatchCompletionBucket("100", 100))
	assert.False(t, MatchCompletionBucket("100", 99))

	for _, pct := range []int{0, 24, 50, 100} {
		assert.True(t, MatchCompletionBucket("garbage", pct))
		assert.True(t, MatchCompletionBucket("all", pct))
		assert.True(t, MatchCompletionBucket("", pct))
		assert.True(t, MatchCompletionBucket("a-b", pct))
	}
}

func TestFilterTasks(t *testing.T) {
	t.Parallel()
	tasks := []Task{
		{ID: "t1", ProjectID: "p1", Title: "Write copy", Status: "doing", AssigneeID: "u-alice",
			Priority: PriorityField{Raw: NumberPriority(9)}},
		{ID: "t2", ProjectID: "p1", Title: "Review", Status: "to-do", CollaboratorIDs: StringList{"u-alice", "u-bob"},
			Subtasks: []Subtask{{Status: "blocked"}}},
		{ID: "t3", ProjectID: UnassignedProjectID, Title: "Triage", Description: "inbox copy", Status: "done"},
	}
	ids := func(ts []Task) []string {
		out := make([]string, 0, len(ts))
		for _, task := range ts {
			out = append(out, task.ID)
		}
		return out
	}
	assert.Equal(t, []string{"t1", "t3"}, ids(FilterTasks(tasks, Criteria{Search: "copy"})))
	assert.Equal(t, []string{"t1", "t2"}, ids(FilterTasks(tasks, Criteria{ProjectID: "p1"})))
	assert.Equal(t, []string{"t2"}, ids(FilterTasks(tasks, Criteria{EmployeeSubstring: "BOB"})))
	assert.Equal(t, []string{"t2"}, ids(FilterTasks(tasks, Criteria{Status: "blocked"})))
	assert.Equal(t, []string{"t3"}, ids(FilterTasks(tasks, Criteria{CompletionBucket: "100"})))
	assert.Equal(t, []string{"t1"}, ids(FilterTasks(tasks, Criteria{Priority: "high"})))
}

//Personal.AI order the ending

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

const scenarioJSON = `[
	{"id": "1", "status": "doing", "priority": 8, "progress": null,
	 "tasks": [{"status": "completed"}, {"status": "to-do"}]},
	{"id": "2", "status": "done", "priority": "2", "dueDate": "2020-01-01"}
]`

func TestCompute_EndToEndScenario(t *testing.T) {
	projects := DecodeProjects([]byte(scenarioJSON))
	require.Len(t, projects, 2)

	res := Compute(projects, Query{}, refNow)
	require.Len(t, res.Projects, 2)

	p1 := res.Projects[0]
	assert.Equal(t, "1", p1.ID)
	assert.Equal(t, StatusInProgress, p1.Status)
	assert.Equal(t, PriorityHigh, p1.Priority)
	assert.Equal(t, 50, p1.CompletionPercent)
	require.Len(t, p1.Tasks, 2)
	assert.Equal(t, "1", p1.Tasks[0].ProjectID)
	assert.Equal(t, LabelCompleted, p1.Tasks[0].StatusLabel)

	p2 := res.Projects[1]
	assert.Equal(t, StatusCompleted, p2.Status)
	assert.Equal(t, PriorityLow, p2.Priority)
	assert.Equal(t, 100, p2.CompletionPercent)
	assert.False(t, p2.Overdue, "completed projects are never overdue")

	assert.Equal(t, 0, res.Summary.OverdueTaskCount)
	assert.Equal(t, 1, res.Summary.ActiveProjectCount)
	assert.Equal(t, 1, res.Summary.CompletedCount)
	assert.Equal(t, 2, res.Summary.TotalTaskCount)
	assert.Equal(t, 1, res.Summary.CompletedTaskCount)
	assert.Equal(t, 75, res.Summary.AverageProgressPercent)
	assert.Equal(t, refNow, res.ComputedAt)
}

func TestCompute_SummaryIgnoresFilter(t *testing.T) {
	projects := fixtureProjects()
	res := Compute(projects, Query{
		Criteria:  Criteria{Priority: "low"},
		SortField: SortByCompletion,
		SortOrder: common.SortDesc,
	}, refNow)

	require.Len(t, res.Projects, 1)
	assert.Equal(t, "p2", res.Projects[0].ID)
	assert.Equal(t, Summarize(projects, refNow), res.Summary)
	assert.Contains(t, res.StatusFacets, StatusBlocked)
}

func TestCompute_SortsWhenFieldSet(t *testing.T) {
	res := Compute(fixtureProjects(), Query{SortField: SortByCompletion, SortOrder: common.SortAsc}, refNow)
	got := make([]string, 0, len(res.Projects))
	for _, p := range res.Projects {
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{"p2", "p1", "p3"}, got)
}

func TestComputeTasks(t *testing.T) {
	tasks := []Task{
		{ID: "a", Status: "to-do", DueDate: daysAgo(4), Priority: PriorityField{Raw: NumberPriority(12)}},
		{ID: "b", Status: "done", DueDate: daysAgo(40)},
		{ID: "c", Status: "doing"},
		{ID: "d", Status: "blocked", DueDate: daysAgo(10)},
	}
	res := ComputeTasks(tasks, Query{Criteria: Criteria{Status: "all"}, SortOrder: common.SortAsc}, refNow)

	ids := make([]string, 0, len(res.Tasks))
	for _, v := range res.Tasks {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)

	a := res.Tasks[2]
	assert.True(t, a.Overdue)
	assert.Equal(t, 4, a.DaysOverdue)
	require.NotNil(t, a.PriorityLevel)
	assert.Equal(t, 10, *a.PriorityLevel)
	assert.Nil(t, res.Tasks[3].PriorityLevel)
	assert.Equal(t, []string{}, res.Tasks[3].CollaboratorIDs)

	assert.Equal(t, 2, res.Summary.OverdueCount)
	assert.Equal(t, 7, res.Summary.MedianDaysOverdue)
}

func TestFingerprint(t *testing.T) {
	a := DecodeProjects([]byte(scenarioJSON))
	b := DecodeProjects([]byte(scenarioJSON))
	q := Query{Criteria: Criteria{Search: "x"}}

	assert.NotZero(t, Fingerprint(a, q))
	assert.Equal(t, Fingerprint(a, q), Fingerprint(b, q))
	assert.NotEqual(t, Fingerprint(a, q), Fingerprint(a, Query{}))

	b[0].Status = "done"
	assert.NotEqual(t, Fingerprint(a, q), Fingerprint(b, q))

	tasks := FlattenTasks(a)
	assert.Equal(t, TaskFingerprint(tasks, q), TaskFingerprint(FlattenTasks(a), q))
	assert.NotEqual(t, TaskFingerprint(tasks, q), TaskFingerprint(tasks[:1], q))
}

//Personal.AI order the ending

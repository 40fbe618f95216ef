package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Parallel()
	projects := []Project{
		{Status: "doing", Progress: floatPtr(40), Tasks: []Task{
			{Status: "done", DueDate: daysAgo(30)},
			{Status: "to-do", DueDate: daysAgo(5)},
			{Status: "blocked", DueDate: daysAgo(15)},
		}},
		{Status: "In Progress", Tasks: []Task{{Status: "done"}, {Status: "done"}}},
		{Status: "todo"},
		{Status: "done"},
		{Status: "blocked"},
		{Status: "paused"},
	}
	s := Summarize(projects, refNow)

	assert.Equal(t, 1, s.TodoCount)
	assert.Equal(t, 2, s.InProgressCount)
	assert.Equal(t, 1, s.CompletedCount)
	assert.Equal(t, 1, s.BlockedCount)
	assert.Equal(t, 2, s.ActiveProjectCount)
	assert.Equal(t, 5, s.TotalTaskCount)
	assert.Equal(t, 3, s.CompletedTaskCount)
	assert.Equal(t, 2, s.OverdueTaskCount)
	assert.Equal(t, 10, s.MedianDaysOverdue)
	// (40 + 100 + 0 + 100 + 0 + 50) / 6 = 48.33
	assert.Equal(t, 48, s.AverageProgressPercent)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, refNow))
	assert.Equal(t, Summary{}, Summarize([]Project{}, refNow))
}

func TestSummarizeTasks(t *testing.T) {
	tasks := []Task{
		{Status: "doing", DueDate: daysAgo(3)},
		{Status: "todo", DueDate: daysAgo(7)},
		{Status: "blocked", DueDate: daysAgo(20)},
		{Status: "done", DueDate: daysAgo(50)},
		{Status: "weird"},
	}
	s := SummarizeTasks(tasks, refNow)
	assert.Equal(t, TaskSummary{
		TotalCount:        5,
		TodoCount:         1,
		InProgressCount:   1,
		CompletedCount:    1,
		BlockedCount:      1,
		OverdueCount:      3,
		MedianDaysOverdue: 7,
	}, s)
}

//Personal.AI order the ending

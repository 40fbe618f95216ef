package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

func TestSortProjects_DeadlineMissingLast(t *testing.T) {
	t.Parallel()
	ps := DecodeProjects([]byte(`[
		{"id": "a", "dueDate": "2025-06-30"},
		{"id": "b", "dueDate": null},
		{"id": "c", "dueDate": "2025-12-31"}
	]`))
	require.Len(t, ps, 3)

	assert.Equal(t, []string{"a", "c", "b"}, projectIDs(SortProjects(ps, SortByDeadline, common.SortAsc)))
	assert.Equal(t, []string{"c", "a", "b"}, projectIDs(SortProjects(ps, SortByDeadline, common.SortDesc)))
	assert.Equal(t, []string{"a", "b", "c"}, projectIDs(ps), "input must keep its order")
}

func TestSortProjects_CompletionStable(t *testing.T) {
	t.Parallel()
	ps := []Project{
		{ID: "a", Progress: floatPtr(50)},
		{ID: "b", Progress: floatPtr(10)},
		{ID: "c", Status: "doing"},
		{ID: "d", Progress: floatPtr(90)},
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, projectIDs(SortProjects(ps, SortByCompletion, common.SortAsc)))
	assert.Equal(t, []string{"d", "a", "c", "b"}, projectIDs(SortProjects(ps, SortByCompletion, common.SortDesc)))
}

func TestSortProjects_UnknownFieldAndOrder(t *testing.T) {
	ps := []Project{
		{ID: "a", Progress: floatPtr(50)},
		{ID: "b", Progress: floatPtr(10)},
	}
	assert.Equal(t, []string{"a", "b"}, projectIDs(SortProjects(ps, SortField("name"), common.SortAsc)))
	assert.Equal(t, []string{"b", "a"}, projectIDs(SortProjects(ps, SortByCompletion, common.SortOrder("sideways"))))
	assert.Empty(t, SortProjects(nil, SortByDeadline, common.SortAsc))
}

func TestSortTasks(t *testing.T) {
	tasks := []Task{
		{ID: "none"},
		{ID: "late", DueDate: ParseDueDate("2025-09-01")},
		{ID: "early", DueDate: ParseDueDate("2025-01-01")},
	}
	got := SortTasks(tasks, common.SortAsc)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "late", got[1].ID)
	assert.Equal(t, "none", got[2].ID)

	got = SortTasks(tasks, common.SortDesc)
	assert.Equal(t, "late", got[0].ID)
	assert.Equal(t, "none", got[2].ID)
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField(" Deadline ", SortByCompletion)
	require.NoError(t, err)
	assert.Equal(t, SortByDeadline, f)

	f, err = ParseSortField("", SortByCompletion)
	require.NoError(t, err)
	assert.Equal(t, SortByCompletion, f)

	_, err = ParseSortField("name", SortByCompletion)
	assert.Error(t, err)
}

//Personal.AI order the ending

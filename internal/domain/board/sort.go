package board

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

// SortField names the key projects are ordered by.
type SortField string

const (
	SortByCompletion SortField = "completion"
	SortByDeadline   SortField = "deadline"
)

// Valid reports whether f is a known field.
func (f SortField) Valid() bool {
	return f == SortByCompletion || f == SortByDeadline
}

// ParseSortField maps a field name (any case) to a SortField.  The empty
// string yields def.
func ParseSortField(s string, def SortField) (SortField, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return def, nil
	}
	f := SortField(v)
	if !f.Valid() {
		return def, fmt.Errorf("unknown sort field %q", s)
	}
	return f, nil
}

// SortProjects returns a new slice ordered by field.  The sort is stable, so
// equal keys keep their input order.  Missing due dates are last under both
// orders.  Any order other than desc sorts ascending; an unknown field
// returns an unchanged copy.
func SortProjects(projects []Project, field SortField, order common.SortOrder) []Project {
	out := make([]Project, len(projects))
	copy(out, projects)
	if !field.Valid() || len(out) < 2 {
		return out
	}
	keys := make([]float64, len(out))
	for i := range out {
		switch field {
		case SortByCompletion:
			keys[i] = float64(CompletionPercent(&out[i]))
		case SortByDeadline:
			keys[i] = out[i].DueDate.sortKey()
		}
	}
	idx := orderedIndex(keys, order)
	sorted := make([]Project, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// SortTasks returns a new slice ordered by due date.  Missing dates are last
// under both orders.
func SortTasks(tasks []Task, order common.SortOrder) []Task {
	keys := make([]float64, len(tasks))
	for i := range tasks {
		keys[i] = tasks[i].DueDate.sortKey()
	}
	idx := orderedIndex(keys, order)
	out := make([]Task, len(tasks))
	for i, j := range idx {
		out[i] = tasks[j]
	}
	return out
}

// orderedIndex stably sorts the positions of keys.  +Inf keys always go last.
func orderedIndex(keys []float64, order common.SortOrder) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sign := 1.0
	if order == common.SortDesc {
		sign = -1
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		aMissing, bMissing := math.IsInf(ka, 1), math.IsInf(kb, 1)
		if aMissing || bMissing {
			return bMissing && !aMissing
		}
		return sign*(ka-kb) < 0
	})
	return idx
}

//Personal.AI order the ending

package board

import "math"

// CompletionPercent derives a project's completion as an integer in [0, 100].
// The first applicable rule wins:
//
//  1. a finite Progress is clamped to [0, 100] and rounded;
//  2. a non-empty task list gives round(100 * completed / total);
//  3. otherwise the project status decides: completed is 100, to-do and
//     blocked are 0, everything else is 50.
//
// An empty task list falls through to rule 3.
func CompletionPercent(p *Project) int {
	if p == nil {
		return 50
	}
	if p.Progress != nil && !math.IsNaN(*p.Progress) && !math.IsInf(*p.Progress, 0) {
		return int(roundHalfUp(clamp(*p.Progress, 0, 100)))
	}
	if len(p.Tasks) > 0 {
		done := 0
		for i := range p.Tasks {
			if CanonicalStatus(p.Tasks[i].Status) == StatusCompleted {
				done++
			}
		}
		return ratioPercent(done, len(p.Tasks))
	}
	return statusPercent(p.Status)
}

// SubtaskCompletion reports round(100 * completed / total) over the task's
// subtasks.  It returns false when the task has none.
func SubtaskCompletion(t *Task) (int, bool) {
	if t == nil || len(t.Subtasks) == 0 {
		return 0, false
	}
	done := 0
	for _, s := range t.Subtasks {
		if CanonicalStatus(s.Status) == StatusCompleted {
			done++
		}
	}
	return ratioPercent(done, len(t.Subtasks)), true
}

// TaskCompletionPercent is the completion shown for a single task: the
// subtask ratio when subtasks exist, the status tier otherwise.
func TaskCompletionPercent(t *Task) int {
	if pct, ok := SubtaskCompletion(t); ok {
		return pct
	}
	if t == nil {
		return 50
	}
	return statusPercent(t.Status)
}

func statusPercent(raw string) int {
	switch CanonicalStatus(raw) {
	case StatusCompleted:
		return 100
	case StatusToDo, StatusBlocked:
		return 0
	}
	return 50
}

func ratioPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(roundHalfUp(100 * float64(done) / float64(total)))
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

//Personal.AI order the ending

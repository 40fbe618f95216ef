package board

import "time"

// Summary holds the KPI counters for a project collection.
type Summary struct {
	TodoCount              int `json:"todoCount"`
	InProgressCount        int `json:"inProgressCount"`
	CompletedCount         int `json:"completedCount"`
	BlockedCount           int `json:"blockedCount"`
	ActiveProjectCount     int `json:"activeProjectCount"`
	TotalTaskCount         int `json:"totalTaskCount"`
	CompletedTaskCount     int `json:"completedTaskCount"`
	OverdueTaskCount       int `json:"overdueTaskCount"`
	MedianDaysOverdue      int `json:"medianDaysOverdue"`
	AverageProgressPercent int `json:"averageProgressPercent"`
}

// Summarize reduces projects into a Summary.  Per-status counters only count
// the four known states; unknown statuses contribute to no status bucket.
// The average progress of an empty collection is 0.
func Summarize(projects []Project, now time.Time) Summary {
	var s Summary
	progress := 0
	for i := range projects {
		switch CanonicalStatus(projects[i].Status) {
		case StatusToDo:
			s.TodoCount++
		case StatusInProgress:
			s.InProgressCount++
			s.ActiveProjectCount++
		case StatusCompleted:
			s.CompletedCount++
		case StatusBlocked:
			s.BlockedCount++
		}
		progress += CompletionPercent(&projects[i])
	}
	if len(projects) > 0 {
		s.AverageProgressPercent = int(roundHalfUp(float64(progress) / float64(len(projects))))
	}

	tasks := FlattenTasks(projects)
	s.TotalTaskCount = len(tasks)
	for i := range tasks {
		if CanonicalStatus(tasks[i].Status) == StatusCompleted {
			s.CompletedTaskCount++
		}
	}
	days := OverdueDayCounts(tasks, now)
	s.OverdueTaskCount = len(days)
	s.MedianDaysOverdue = MedianOfDays(days)
	return s
}

// TaskSummary holds the counters of a member's task board.
type TaskSummary struct {
	TotalCount        int `json:"totalCount"`
	TodoCount         int `json:"todoCount"`
	InProgressCount   int `json:"inProgressCount"`
	CompletedCount    int `json:"completedCount"`
	BlockedCount      int `json:"blockedCount"`
	OverdueCount      int `json:"overdueCount"`
	MedianDaysOverdue int `json:"medianDaysOverdue"`
}

// SummarizeTasks reduces a task collection into a TaskSummary.
func SummarizeTasks(tasks []Task, now time.Time) TaskSummary {
	s := TaskSummary{TotalCount: len(tasks)}
	for i := range tasks {
		switch CanonicalStatus(tasks[i].Status) {
		case StatusToDo:
			s.TodoCount++
		case StatusInProgress:
			s.InProgressCount++
		case StatusCompleted:
			s.CompletedCount++
		case StatusBlocked:
			s.BlockedCount++
		}
	}
	days := OverdueDayCounts(tasks, now)
	s.OverdueCount = len(days)
	s.MedianDaysOverdue = MedianOfDays(days)
	return s
}

//Personal.AI order the ending

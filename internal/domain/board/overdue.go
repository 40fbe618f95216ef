package board

import (
	"math"
	"sort"
	"time"
)

const millisPerDay = 86_400_000

// IsOverdue reports whether due is present, strictly before now, and the
// item's canonical status is not completed.
func IsOverdue(due DueDate, status string, now time.Time) bool {
	if !due.Valid() {
		return false
	}
	if CanonicalStatus(status) == StatusCompleted {
		return false
	}
	return due.t.UnixMilli() < now.UnixMilli()
}

// OverdueDays returns the whole days due lies before now, rounded up.  It is
// 0 for absent or future dates.
func OverdueDays(due DueDate, now time.Time) int {
	if !due.Valid() {
		return 0
	}
	diff := now.UnixMilli() - due.t.UnixMilli()
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(float64(diff) / millisPerDay))
}

// OverdueDayCounts collects OverdueDays for every overdue task, in input order.
func OverdueDayCounts(tasks []Task, now time.Time) []int {
	days := make([]int, 0)
	for i := range tasks {
		if IsOverdue(tasks[i].DueDate, tasks[i].Status, now) {
			days = append(days, OverdueDays(tasks[i].DueDate, now))
		}
	}
	return days
}

// MedianOverdueDays is the median age in days of the overdue tasks, or 0 when
// none are overdue.
func MedianOverdueDays(tasks []Task, now time.Time) int {
	return MedianOfDays(OverdueDayCounts(tasks, now))
}

// MedianOfDays returns the statistical median of days.  An even-length input
// averages the two middle values and rounds half up; an empty input yields 0.
// days is not modified.
func MedianOfDays(days []int) int {
	n := len(days)
	if n == 0 {
		return 0
	}
	sorted := make([]int, n)
	copy(sorted, days)
	sort.Ints(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return int(roundHalfUp(float64(sorted[n/2-1]+sorted[n/2]) / 2))
}

// OverdueCount counts the overdue tasks.
func OverdueCount(tasks []Task, now time.Time) int {
	count := 0
	for i := range tasks {
		if IsOverdue(tasks[i].DueDate, tasks[i].Status, now) {
			count++
		}
	}
	return count
}

// FlattenTasks concatenates the task lists of all projects in order.
func FlattenTasks(projects []Project) []Task {
	total := 0
	for i := range projects {
		total += len(projects[i].Tasks)
	}
	out := make([]Task, 0, total)
	for i := range projects {
		out = append(out, projects[i].Tasks...)
	}
	return out
}

// TasksForMember returns the tasks memberID is assigned to or collaborates
// on.  An empty memberID returns every task.
func TasksForMember(tasks []Task, memberID string) []Task {
	if memberID == "" {
		return append([]Task(nil), tasks...)
	}
	out := make([]Task, 0)
	for i := range tasks {
		for _, id := range tasks[i].Members() {
			if id == memberID {
				out = append(out, tasks[i])
				break
			}
		}
	}
	return out
}

//Personal.AI order the ending

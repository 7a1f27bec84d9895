package task

import (
	"cmp"
	"slices"
)

// SortForList orders open tasks before done ones, then by date, then by
// creation time. The input is not modified.
func SortForList(tasks []Task) []Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		return cmp.Or(
			compareDone(a, b),
			cmp.Compare(a.Date, b.Date),
			cmp.Compare(a.CreatedAt, b.CreatedAt),
		)
	})
	return out
}

func FilterStatus(tasks []Task, status Status) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if status.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// ListView is SortForList followed by FilterStatus.
func ListView(tasks []Task, status Status) []Task {
	return FilterStatus(SortForList(tasks), status)
}

// TasksOn returns the tasks dated date, open first, then by creation time.
func TasksOn(tasks []Task, date string) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b Task) int {
		return cmp.Or(compareDone(a, b), cmp.Compare(a.CreatedAt, b.CreatedAt))
	})
	return out
}

func compareDone(a, b Task) int {
	switch {
	case a.Done == b.Done:
		return 0
	case a.Done:
		return 1
	default:
		return -1
	}
}

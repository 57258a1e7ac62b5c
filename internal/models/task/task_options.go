package task

// TaskOption — функция, дополняющая задачу при создании.
type TaskOption func(*Task)

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		if description == "" {
			return
		}
		task.Description = description
	}
}

func WithTags(tags []string) TaskOption {
	return func(task *Task) {
		if len(tags) == 0 {
			return
		}
		task.Tags = tags
	}
}

func WithDue(due Date) TaskOption {
	return func(task *Task) {
		if due.IsZero() {
			return
		}
		task.Due = &due
	}
}

func WithChecklist(items []ChecklistItem) TaskOption {
	return func(task *Task) {
		if len(items) == 0 {
			return
		}
		task.Checklist = items
	}
}

// WithCountdown задаёт длительность отсчёта; остаток сбрасывается на неё же.
func WithCountdown(seconds int) TaskOption {
	return func(task *Task) {
		if seconds <= 0 {
			return
		}
		task.CountdownSeconds = seconds
		task.RemainingSeconds = seconds
	}
}

package storage

import (
	"time"

	"taskBoard/internal/models/task"

	"github.com/google/uuid"
)

// defaultSnapshot — стартовый набор задач для нового или восстановленного
// файла. Колонки берутся из конфигурации: первая, вторая и последняя.
func (s *Storage) defaultSnapshot() *Snapshot {
	first := s.columns[0]
	second := first
	if len(s.columns) > 1 {
		second = s.columns[1]
	}
	last := s.columns[len(s.columns)-1]

	now := time.Now().UTC()
	due := task.Today()

	return NewSnapshot([]*task.Task{
		{
			ID:          uuid.New(),
			Title:       "Sketch board layout",
			Status:      first,
			Description: "Rough out how the kanban and list views should look.",
			Tags:        []string{"design", "kanban"},
			Checklist: []task.ChecklistItem{
				{Label: "List view columns"},
				{Label: "Board column titles"},
				{Label: "Calendar cells"},
			},
			CountdownSeconds: 15 * 60,
			RemainingSeconds: 15 * 60,
			CreatedAt:        now,
		},
		{
			ID:          uuid.New(),
			Title:       "Wire up time tracking",
			Status:      second,
			Description: "Make sure timers can be started and paused from the TUI.",
			Tags:        []string{"timer", "tui"},
			Checklist: []task.ChecklistItem{
				{Label: "Start/pause control", Done: true},
				{Label: "Countdown per task"},
				{Label: "Reset to default duration"},
			},
			CountdownSeconds: 25 * 60,
			RemainingSeconds: 22 * 60,
			CreatedAt:        now,
		},
		{
			ID:          uuid.New(),
			Title:       "Ship a first demo",
			Status:      last,
			Description: "Create a default config and sample data so new users can explore.",
			Tags:        []string{"docs", "demo"},
			Checklist: []task.ChecklistItem{
				{Label: "Default config file", Done: true},
				{Label: "Sample tasks", Done: true},
				{Label: "Update README", Done: true},
			},
			Due:              &due,
			CountdownSeconds: 5 * 60,
			RemainingSeconds: 0,
			CreatedAt:        now,
		},
	})
}

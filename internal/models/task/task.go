package task

import (
	"time"

	"github.com/google/uuid"
)

// Status — идентификатор колонки доски, в которой находится задача.
// Набор колонок задаётся конфигурацией и не меняется в течение сессии.
type Status string

type ChecklistItem struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

type Task struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Status           Status          `json:"status"`
	Tags             []string        `json:"tags"`
	Due              *Date           `json:"due"`
	Checklist        []ChecklistItem `json:"checklist"`
	CountdownSeconds int             `json:"countdown_seconds"`
	RemainingSeconds int             `json:"remaining_seconds"`
	TimerRunning     bool            `json:"timer_running"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        *time.Time      `json:"updated_at,omitempty"`
}

// Clone возвращает глубокую копию задачи. Хранилище отдаёт наружу только
// копии, поэтому представления не могут изменить задачу напрямую.
func (t *Task) Clone() *Task {
	cloned := *t
	if t.Tags != nil {
		cloned.Tags = make([]string, len(t.Tags))
		copy(cloned.Tags, t.Tags)
	}
	if t.Checklist != nil {
		cloned.Checklist = make([]ChecklistItem, len(t.Checklist))
		copy(cloned.Checklist, t.Checklist)
	}
	if t.Due != nil {
		due := *t.Due
		cloned.Due = &due
	}
	if t.UpdatedAt != nil {
		updated := *t.UpdatedAt
		cloned.UpdatedAt = &updated
	}
	return &cloned
}

func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

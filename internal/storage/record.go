package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"taskBoard/internal/models/task"

	"github.com/google/uuid"
)

// Формат файла задач. Записи отделены от модели, чтобы держать
// совместимость с данными старых версий: id здесь строка, пустое или
// битое значение не ломает загрузку, а чинится нормализацией.

type snapshotRecord struct {
	Version int          `json:"version"`
	Tasks   []taskRecord `json:"tasks"`
}

type taskRecord struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Status           string            `json:"status"`
	Tags             []string          `json:"tags"`
	Due              *string           `json:"due"`
	Checklist        []checklistRecord `json:"checklist"`
	CountdownSeconds int               `json:"countdown_seconds"`
	RemainingSeconds int               `json:"remaining_seconds"`
	TimerRunning     bool              `json:"timer_running"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        *time.Time        `json:"updated_at,omitempty"`
}

type checklistRecord struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

func fromTask(t *task.Task) taskRecord {
	record := taskRecord{
		ID:               t.ID.String(),
		Title:            t.Title,
		Description:      t.Description,
		Status:           string(t.Status),
		Tags:             t.Tags,
		CountdownSeconds: t.CountdownSeconds,
		RemainingSeconds: t.RemainingSeconds,
		TimerRunning:     t.TimerRunning,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.Due != nil {
		due := t.Due.String()
		record.Due = &due
	}
	if t.Checklist != nil {
		record.Checklist = make([]checklistRecord, len(t.Checklist))
		for i, item := range t.Checklist {
			record.Checklist[i] = checklistRecord(item)
		}
	}
	return record
}

func (r taskRecord) toTask() *task.Task {
	restored := &task.Task{
		Title:            r.Title,
		Description:      r.Description,
		Status:           task.Status(r.Status),
		Tags:             r.Tags,
		CountdownSeconds: r.CountdownSeconds,
		RemainingSeconds: r.RemainingSeconds,
		TimerRunning:     r.TimerRunning,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}

	// битый id чинится нормализацией при загрузке, не ошибкой
	if id, err := uuid.Parse(r.ID); err == nil {
		restored.ID = id
	}

	// некорректная дата равносильна её отсутствию
	if r.Due != nil {
		if due, err := task.ParseDate(*r.Due); err == nil {
			restored.Due = &due
		}
	}

	if r.Checklist != nil {
		restored.Checklist = make([]task.ChecklistItem, len(r.Checklist))
		for i, item := range r.Checklist {
			restored.Checklist[i] = task.ChecklistItem(item)
		}
	}
	return restored
}

func fromSnapshot(snap *Snapshot) snapshotRecord {
	record := snapshotRecord{
		Version: SchemaVersion,
		Tasks:   make([]taskRecord, len(snap.Tasks)),
	}
	for i, taskToSave := range snap.Tasks {
		record.Tasks[i] = fromTask(taskToSave)
	}
	return record
}

// decodeSnapshot разбирает файл задач. Старый формат — просто массив
// задач без маркера версии — принимается как версия 0.
func decodeSnapshot(raw []byte) (*Snapshot, error) {
	var record snapshotRecord
	if err := json.Unmarshal(raw, &record); err == nil {
		return record.toSnapshot(), nil
	}

	var legacy []taskRecord
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("разбор файла задач: %w", err)
	}
	record = snapshotRecord{Tasks: legacy}
	return record.toSnapshot(), nil
}

func (r snapshotRecord) toSnapshot() *Snapshot {
	snap := &Snapshot{
		Version: r.Version,
		Tasks:   make([]*task.Task, len(r.Tasks)),
	}
	if snap.Version == 0 {
		snap.Version = SchemaVersion
	}
	for i, record := range r.Tasks {
		snap.Tasks[i] = record.toTask()
	}
	return snap
}

package storage

import "taskBoard/internal/models/task"

// SchemaVersion — текущая версия формата файла задач.
const SchemaVersion = 1

// Snapshot — полное сериализуемое состояние всех задач в один момент.
// Порядок Tasks совпадает с порядком вставки в хранилище.
type Snapshot struct {
	Version int
	Tasks   []*task.Task
}

func NewSnapshot(tasks []*task.Task) *Snapshot {
	return &Snapshot{
		Version: SchemaVersion,
		Tasks:   tasks,
	}
}

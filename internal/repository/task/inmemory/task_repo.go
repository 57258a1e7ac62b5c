package inmemory

import (
	"context"
	"sync"
	"time"

	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage — упорядоченное in-memory хранилище задач.
// Порядок ids — это порядок вставки, он же порядок задач в снапшоте.
// Наружу отдаются только копии; изменение применяется целиком через Update.
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now().UTC()
	}

	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

// Update заменяет сохранённую задачу целиком. Частичных правок нет:
// даже при ошибке на полпути в хранилище остаётся прежняя версия.
func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToUpdate.ID]; !ok {
		return repo.ErrNotFound
	}

	now := time.Now().UTC()
	updated := taskToUpdate.Clone()
	updated.UpdatedAt = &now
	s.storage[updated.ID] = updated

	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

// GetAll возвращает копии всех задач в порядке вставки.
func (s *TaskStorage) GetAll(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res, nil
}

// MutateAll применяет fn к каждой задаче под блокировкой записи и возвращает
// ID задач, для которых fn вернула true. Чтение и правка — одна критическая
// секция: параллельное редактирование не может вклиниться между ними и быть
// перезаписано устаревшей копией. UpdatedAt не проставляется: fn — фоновая
// правка, а не действие пользователя.
func (s *TaskStorage) MutateAll(ctx context.Context, fn func(*task.Task) bool) ([]uuid.UUID, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	changed := make([]uuid.UUID, 0)
	for _, id := range s.ids {
		if fn(s.storage[id]) {
			changed = append(changed, id)
		}
	}
	return changed, nil
}

// Restore полностью заменяет содержимое хранилища задачами из снапшота.
func (s *TaskStorage) Restore(ctx context.Context, tasks []*task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	storage := make(map[uuid.UUID]*task.Task, len(tasks))
	ids := make([]uuid.UUID, 0, len(tasks))

	for _, taskToRestore := range tasks {
		if _, ok := storage[taskToRestore.ID]; ok {
			return repo.ErrDuplicateID
		}
		storage[taskToRestore.ID] = taskToRestore.Clone()
		ids = append(ids, taskToRestore.ID)
	}

	s.storage = storage
	s.ids = ids
	return nil
}

package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"taskBoard/internal/models/task"
	"taskBoard/internal/repository"
	"taskBoard/internal/repository/task/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTaskStorage_New тестирует создание хранилища
func TestTaskStorage_New(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NotNil(t, storage)
}

// TestTaskStorage_Create тестирует создание задачи
func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := &task.Task{
		ID:               uuid.New(),
		Title:            "Test Task",
		Description:      "Test Description",
		Status:           "backlog",
		CountdownSeconds: 1500,
		RemainingSeconds: 1500,
	}

	err := storage.Create(ctx, taskToCreate)
	require.NoError(t, err)

	// Проверяем, что поля заполнены
	assert.False(t, taskToCreate.CreatedAt.IsZero())

	// Проверяем, что задача сохранена
	retrievedTask, err := storage.GetByID(ctx, taskToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Task", retrievedTask.Title)
}

// TestTaskStorage_GetByID тестирует получение задачи по ID
func TestTaskStorage_GetByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskID := uuid.New()
	taskToCreate := &task.Task{
		ID:     taskID,
		Title:  "Test Get Task",
		Status: "in_progress",
	}

	err := storage.Create(ctx, taskToCreate)
	require.NoError(t, err)

	retrievedTask, err := storage.GetByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskID, retrievedTask.ID)
	assert.Equal(t, "Test Get Task", retrievedTask.Title)

	// Пытаемся получить несуществующую задачу
	nonExistentID := uuid.New()
	_, err = storage.GetByID(ctx, nonExistentID)
	assert.Error(t, err)
	assert.Equal(t, repository.ErrNotFound, err)
}

// TestTaskStorage_Update тестирует обновление задачи
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := &task.Task{
		ID:     uuid.New(),
		Title:  "Original Title",
		Status: "backlog",
	}

	err := storage.Create(ctx, taskToCreate)
	require.NoError(t, err)

	taskToCreate.Title = "Updated Title"
	taskToCreate.Status = "in_progress"

	err = storage.Update(ctx, taskToCreate)
	require.NoError(t, err)

	retrievedTask, err := storage.GetByID(ctx, taskToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", retrievedTask.Title)
	assert.Equal(t, task.Status("in_progress"), retrievedTask.Status)
	assert.NotNil(t, retrievedTask.UpdatedAt)
}

// TestTaskStorage_Update_NonExistent тестирует обновление несуществующей задачи
func TestTaskStorage_Update_NonExistent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	nonExistentTask := &task.Task{
		ID:    uuid.New(),
		Title: "Non-existent Task",
	}

	err := storage.Update(ctx, nonExistentTask)
	assert.Equal(t, repository.ErrNotFound, err)

	// Проверяем, что задача не создалась
	_, err = storage.GetByID(ctx, nonExistentTask.ID)
	assert.Equal(t, repository.ErrNotFound, err)
}

// TestTaskStorage_GetAll_Order тестирует порядок вставки
func TestTaskStorage_GetAll_Order(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := make([]*task.Task, 5)
	for i := 0; i < 5; i++ {
		created[i] = &task.Task{
			ID:    uuid.New(),
			Title: fmt.Sprintf("Task %d", i),
		}
		require.NoError(t, storage.Create(ctx, created[i]))
	}

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, retrieved := range all {
		assert.Equal(t, created[i].ID, retrieved.ID)
		assert.Equal(t, fmt.Sprintf("Task %d", i), retrieved.Title)
	}

	// Обновление не меняет позицию задачи
	created[2].Title = "Updated"
	require.NoError(t, storage.Update(ctx, created[2]))

	all, err = storage.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Updated", all[2].Title)
}

// TestTaskStorage_CopyIsolation тестирует, что наружу отдаются копии
func TestTaskStorage_CopyIsolation(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := &task.Task{
		ID:    uuid.New(),
		Title: "Protected",
		Tags:  []string{"original"},
	}
	require.NoError(t, storage.Create(ctx, taskToCreate))

	retrieved, err := storage.GetByID(ctx, taskToCreate.ID)
	require.NoError(t, err)

	// Правка полученной копии не должна менять хранилище
	retrieved.Title = "Hacked"
	retrieved.Tags[0] = "hacked"

	fresh, err := storage.GetByID(ctx, taskToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Protected", fresh.Title)
	assert.Equal(t, "original", fresh.Tags[0])
}

// TestTaskStorage_MutateAll тестирует атомарную правку всех задач
func TestTaskStorage_MutateAll(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	running := &task.Task{ID: uuid.New(), Title: "Running", RemainingSeconds: 10, TimerRunning: true}
	paused := &task.Task{ID: uuid.New(), Title: "Paused", RemainingSeconds: 30}
	require.NoError(t, storage.Create(ctx, running))
	require.NoError(t, storage.Create(ctx, paused))

	changed, err := storage.MutateAll(ctx, func(stored *task.Task) bool {
		if !stored.TimerRunning {
			return false
		}
		stored.RemainingSeconds--
		return true
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, running.ID, changed[0])

	retrieved, err := storage.GetByID(ctx, running.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, retrieved.RemainingSeconds)
	// фоновая правка не считается действием пользователя
	assert.Nil(t, retrieved.UpdatedAt)

	untouched, err := storage.GetByID(ctx, paused.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, untouched.RemainingSeconds)
}

// TestTaskStorage_Restore тестирует восстановление из снапшота
func TestTaskStorage_Restore(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	// Предварительно наполняем, Restore должен всё заменить
	require.NoError(t, storage.Create(ctx, &task.Task{ID: uuid.New(), Title: "Old"}))

	restored := []*task.Task{
		{ID: uuid.New(), Title: "First"},
		{ID: uuid.New(), Title: "Second"},
	}
	require.NoError(t, storage.Restore(ctx, restored))

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "First", all[0].Title)
	assert.Equal(t, "Second", all[1].Title)
}

// TestTaskStorage_Restore_DuplicateID тестирует отказ при повторе ID
func TestTaskStorage_Restore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	duplicated := uuid.New()
	err := storage.Restore(ctx, []*task.Task{
		{ID: duplicated, Title: "First"},
		{ID: duplicated, Title: "Second"},
	})
	assert.Equal(t, repository.ErrDuplicateID, err)
}

// TestTaskStorage_ConcurrentAccess тестирует конкурентный доступ
func TestTaskStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			taskToCreate := &task.Task{
				ID:    uuid.New(),
				Title: fmt.Sprintf("Concurrent %d", i),
			}
			require.NoError(t, storage.Create(ctx, taskToCreate))
			_, err := storage.GetAll(ctx)
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

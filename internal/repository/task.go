package repository

import (
	"context"
	"taskBoard/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, task *task.Task) error
	Update(ctx context.Context, task *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	GetAll(ctx context.Context) ([]*task.Task, error)
	Restore(ctx context.Context, tasks []*task.Task) error
}

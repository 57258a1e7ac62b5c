package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	rep "taskBoard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики и все мутации задач

// Flusher получает сигнал «есть несохранённые изменения».
type Flusher interface {
	ScheduleFlush()
}

type TaskService struct {
	repo           rep.TaskRepository
	flusher        Flusher
	columns        []task.Status
	defaultMinutes int
}

func NewTaskService(repo rep.TaskRepository, flusher Flusher, columns []string, defaultMinutes int) TaskService {
	statuses := make([]task.Status, 0, len(columns))
	for _, column := range columns {
		statuses = append(statuses, task.Status(column))
	}
	if defaultMinutes <= 0 {
		defaultMinutes = 25
	}
	return TaskService{
		repo:           repo,
		flusher:        flusher,
		columns:        statuses,
		defaultMinutes: defaultMinutes,
	}
}

// AddTask создаёт задачу в первой колонке доски с таймером по умолчанию
// на паузе. Пустой заголовок — ошибка валидации.
func (s *TaskService) AddTask(ctx context.Context, title string, options ...task.TaskOption) (*task.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError("title", "заголовок не должен быть пустым")
	}

	newTask := &task.Task{
		ID:               uuid.New(),
		Title:            title,
		Status:           s.firstColumn(),
		CountdownSeconds: s.defaultMinutes * 60,
		RemainingSeconds: s.defaultMinutes * 60,
	}
	for _, opt := range options {
		opt(newTask)
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	s.flusher.ScheduleFlush()
	logger.Info("Service: Задача создана",
		zap.String("task_id", newTask.ID.String()),
		zap.String("status", string(newTask.Status)))
	return newTask, nil
}

// MoveNext переводит задачу в следующую колонку. В последней колонке —
// no-op: статус не меняется, запись не планируется.
func (s *TaskService) MoveNext(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	taskToMove, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, moved := s.nextColumn(taskToMove.Status)
	if !moved {
		return taskToMove, nil
	}

	taskToMove.Status = next
	if err := s.update(ctx, taskToMove); err != nil {
		return nil, err
	}
	return taskToMove, nil
}

// MarkDone ставит задачу в последнюю колонку. Идемпотентна.
func (s *TaskService) MarkDone(ctx context.Context, id uuid.UUID) error {
	taskToFinish, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	done := s.lastColumn()
	if taskToFinish.Status == done {
		return nil
	}

	taskToFinish.Status = done
	return s.update(ctx, taskToFinish)
}

func (s *TaskService) ToggleChecklistItem(ctx context.Context, id uuid.UUID, index int) error {
	taskToEdit, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(taskToEdit.Checklist) {
		return NewOutOfRange("checklist", index, len(taskToEdit.Checklist))
	}

	taskToEdit.Checklist[index].Done = !taskToEdit.Checklist[index].Done
	return s.update(ctx, taskToEdit)
}

func (s *TaskService) SetTags(ctx context.Context, id uuid.UUID, tags []string) error {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return NewValidationError("tags", "тег не должен быть пустым")
		}
	}

	taskToEdit, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	taskToEdit.Tags = tags
	return s.update(ctx, taskToEdit)
}

// SetDueDate заменяет срок выполнения; nil снимает его.
func (s *TaskService) SetDueDate(ctx context.Context, id uuid.UUID, due *task.Date) error {
	if due != nil && due.IsZero() {
		return NewValidationError("due", "дата должна быть корректной или отсутствовать")
	}

	taskToEdit, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	taskToEdit.Due = due
	return s.update(ctx, taskToEdit)
}

// FilterByTag возвращает задачи с тегом (точное совпадение) в порядке
// хранилища; пустой тег — все задачи. Состояние не меняется.
func (s *TaskService) FilterByTag(ctx context.Context, tag string) ([]*task.Task, error) {
	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	if tag == "" {
		return tasks, nil
	}

	res := make([]*task.Task, 0, len(tasks))
	for _, candidate := range tasks {
		if candidate.HasTag(tag) {
			res = append(res, candidate)
		}
	}
	return res, nil
}

// ApplyTimerPreset устанавливает длительность отсчёта minutes*60
// и ставит таймер на паузу.
func (s *TaskService) ApplyTimerPreset(ctx context.Context, id uuid.UUID, minutes int) error {
	if minutes <= 0 {
		return NewValidationError("minutes", "длительность должна быть положительной")
	}

	taskToEdit, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	taskToEdit.CountdownSeconds = minutes * 60
	taskToEdit.RemainingSeconds = minutes * 60
	taskToEdit.TimerRunning = false
	return s.update(ctx, taskToEdit)
}

// StartPauseTimer переключает таймер. На нулевом остатке запуск — тихий
// no-op: сначала нужен ResetTimer.
func (s *TaskService) StartPauseTimer(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	taskToEdit, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !taskToEdit.TimerRunning && taskToEdit.RemainingSeconds == 0 {
		return taskToEdit, nil
	}

	taskToEdit.TimerRunning = !taskToEdit.TimerRunning
	if err := s.update(ctx, taskToEdit); err != nil {
		return nil, err
	}
	return taskToEdit, nil
}

func (s *TaskService) ResetTimer(ctx context.Context, id uuid.UUID) error {
	taskToEdit, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	taskToEdit.RemainingSeconds = taskToEdit.CountdownSeconds
	taskToEdit.TimerRunning = false
	return s.update(ctx, taskToEdit)
}

func (s *TaskService) get(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	taskToGet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return taskToGet, nil
}

func (s *TaskService) update(ctx context.Context, taskToUpdate *task.Task) error {
	if err := s.repo.Update(ctx, taskToUpdate); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(taskToUpdate.ID.String())
		}
		return fmt.Errorf("обновление задачи: %w", err)
	}
	s.flusher.ScheduleFlush()
	return nil
}

func (s *TaskService) firstColumn() task.Status {
	if len(s.columns) == 0 {
		return ""
	}
	return s.columns[0]
}

func (s *TaskService) lastColumn() task.Status {
	if len(s.columns) == 0 {
		return ""
	}
	return s.columns[len(s.columns)-1]
}

// nextColumn возвращает следующую колонку. Из последней возврата нет:
// последовательность не зацикливается. Статус вне набора колонок
// переводится в первую колонку.
func (s *TaskService) nextColumn(current task.Status) (task.Status, bool) {
	if len(s.columns) == 0 {
		return current, false
	}
	for i, column := range s.columns {
		if column == current {
			if i == len(s.columns)-1 {
				return current, false
			}
			return s.columns[i+1], true
		}
	}
	return s.columns[0], true
}

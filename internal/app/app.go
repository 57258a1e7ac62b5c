package app

import (
	"context"
	"fmt"
	"sync"

	"taskBoard/internal/config"
	"taskBoard/internal/logger"
	"taskBoard/internal/repository/task/inmemory"
	"taskBoard/internal/service"
	"taskBoard/internal/storage"
	"taskBoard/internal/worker"

	"go.uber.org/zap"
)

type App struct {
	config    *config.Config
	repo      *inmemory.TaskStorage
	storage   *storage.Storage
	service   *service.TaskService
	flush     *worker.FlushWorker
	timers    *worker.TimerWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования")
		logger.Sync()
	})

	a.storage = storage.NewStorage(a.config.DataPath, a.config.BoardColumns)
	snap := a.storage.Load(ctx)

	a.repo = inmemory.NewTaskStorage()
	if err := a.repo.Restore(ctx, snap.Tasks); err != nil {
		return fmt.Errorf("восстановление снапшота: %w", err)
	}
	logger.Info("Снапшот загружен",
		zap.Int("tasks", len(snap.Tasks)),
		zap.String("path", a.storage.Path()))

	a.flush = worker.NewFlushWorker(a.storage, a.repo, nil)
	a.timers = worker.NewTimerWorker(a.repo, a.flush, nil)

	svc := service.NewTaskService(a.repo, a.flush, a.config.BoardColumns, a.config.DefaultTimerMinutes)
	a.service = &svc

	return nil
}

// Service — API мутаций, которым пользуются представления.
func (a *App) Service() *service.TaskService {
	return a.service
}

func (a *App) Config() *config.Config {
	return a.config
}

// Run запускает фоновые воркеры и блокируется до отмены контекста.
// Воркер записи при остановке сам выполняет финальную запись,
// поэтому Run не возвращается, пока несохранённые правки не на диске.
func (a *App) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.flush.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		a.timers.Start(ctx)
	}()

	<-ctx.Done()
	wg.Wait()
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/storage"

	"go.uber.org/zap"
)

type SnapshotSaver interface {
	Save(ctx context.Context, snap *storage.Snapshot) error
}

type SnapshotSource interface {
	GetAll(ctx context.Context) ([]*task.Task, error)
}

// FlushWorker собирает частые изменения в одну запись на диск.
// ScheduleFlush взводит флаг и сдвигает дедлайн; фоновой цикл пишет
// снапшот, когда дедлайн прошёл. Запись идёт вне интерактивного пути.
type FlushWorker struct {
	saver  SnapshotSaver
	source SnapshotSource
	window time.Duration
	poll   time.Duration

	mtx      sync.Mutex
	dirty    bool
	deadline time.Time
}

func NewFlushWorker(saver SnapshotSaver, source SnapshotSource, window *time.Duration) *FlushWorker {
	var windowToSet time.Duration
	if window == nil {
		windowToSet = 3 * time.Second
	} else {
		windowToSet = *window
	}

	pollToSet := windowToSet / 10
	if pollToSet < 10*time.Millisecond {
		pollToSet = 10 * time.Millisecond
	}

	return &FlushWorker{
		saver:  saver,
		source: source,
		window: windowToSet,
		poll:   pollToSet,
	}
}

// ScheduleFlush помечает состояние несохранённым. Каждый вызов сдвигает
// дедлайн, так что N изменений внутри окна дают одну физическую запись
// не позже, чем окно после последнего из них.
func (w *FlushWorker) ScheduleFlush() {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	w.dirty = true
	w.deadline = time.Now().Add(w.window)
}

func (w *FlushWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	logger.Info("Worker: Отложенная запись запущена", zap.Duration("window", w.window))

	for {
		select {
		case <-ticker.C:
			if !w.due() {
				continue
			}
			if err := w.Flush(ctx); err != nil {
				logger.Warn("Worker: Ошибка записи снапшота, повтор в следующем окне", zap.Error(err))
			}
		case <-ctx.Done():
			// незаписанная последняя правка — потеря данных, поэтому
			// при остановке запись выполняется безусловно
			if err := w.Flush(context.Background()); err != nil {
				logger.Error("Worker: Финальная запись не удалась", err)
			}
			logger.Info("Worker: Отложенная запись остановлена")
			return
		}
	}
}

// Flush немедленно записывает снапшот, если есть несохранённые изменения.
// При ошибке записи состояние в памяти не откатывается: флаг взводится
// снова, и запись повторится в следующем окне.
func (w *FlushWorker) Flush(ctx context.Context) error {
	w.mtx.Lock()
	if !w.dirty {
		w.mtx.Unlock()
		return nil
	}
	w.dirty = false
	w.mtx.Unlock()

	tasks, err := w.source.GetAll(ctx)
	if err != nil {
		w.ScheduleFlush()
		return fmt.Errorf("получение задач для записи: %w", err)
	}

	if err := w.saver.Save(ctx, storage.NewSnapshot(tasks)); err != nil {
		// режим «только для чтения» держится всю сессию — повторять запись
		// бессмысленно, изменения живут в памяти
		if errors.Is(err, storage.ErrReadOnly) {
			logger.Warn("Worker: Хранилище только для чтения, снапшот не записан", zap.Error(err))
			return nil
		}
		w.ScheduleFlush()
		return fmt.Errorf("сохранение снапшота: %w", err)
	}
	return nil
}

func (w *FlushWorker) due() bool {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.dirty && !time.Now().Before(w.deadline)
}

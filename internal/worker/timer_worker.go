package worker

import (
	"context"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TimerRepository interface {
	MutateAll(ctx context.Context, fn func(*task.Task) bool) ([]uuid.UUID, error)
}

type Flusher interface {
	ScheduleFlush()
}

// TimerWorker раз в секунду уменьшает остаток у запущенных таймеров.
// Прошедшее время считается от реальных часов: если процесс был
// приостановлен, весь пропуск вычитается одним шагом, без недосчёта.
// Вычитание выполняется внутри блокировки хранилища, поэтому пауза или
// правка задачи из другой горутины не теряется между чтением и записью.
type TimerWorker struct {
	repo     TimerRepository
	flusher  Flusher
	interval time.Duration
	lastTick time.Time
}

func NewTimerWorker(repo TimerRepository, flusher Flusher, interval *time.Duration) *TimerWorker {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = time.Second
	} else {
		intervalToSet = *interval
	}

	return &TimerWorker{
		repo:     repo,
		flusher:  flusher,
		interval: intervalToSet,
	}
}

func (w *TimerWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Отсчёт таймеров запущен", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ticker.C:
			w.Tick(ctx, time.Now())
		case <-ctx.Done():
			logger.Info("Worker: Отсчёт таймеров остановлен")
			return
		}
	}
}

// Tick вычитает прошедшие секунды у всех запущенных таймеров, зажимает
// остаток на нуле и снимает флаг запуска при истечении. Возвращает ID
// изменившихся задач — представления перерисовывают только их.
func (w *TimerWorker) Tick(ctx context.Context, now time.Time) []uuid.UUID {
	if w.lastTick.IsZero() {
		w.lastTick = now
		return nil
	}

	elapsed := int(now.Sub(w.lastTick) / time.Second)
	if elapsed <= 0 {
		return nil
	}
	// остаток меньше секунды переносится на следующий тик
	w.lastTick = w.lastTick.Add(time.Duration(elapsed) * time.Second)

	var expired []uuid.UUID
	changed, err := w.repo.MutateAll(ctx, func(ticking *task.Task) bool {
		if !ticking.TimerRunning || ticking.RemainingSeconds <= 0 {
			return false
		}

		ticking.RemainingSeconds -= elapsed
		if ticking.RemainingSeconds <= 0 {
			ticking.RemainingSeconds = 0
			ticking.TimerRunning = false
			expired = append(expired, ticking.ID)
		}
		return true
	})
	if err != nil {
		logger.Warn("Worker: Ошибка отсчёта таймеров", zap.Error(err))
		return nil
	}

	// логи пишутся вне блокировки хранилища
	for _, id := range expired {
		logger.Info("Worker: Таймер задачи истёк", zap.String("task_id", id.String()))
	}

	if len(changed) > 0 {
		w.flusher.ScheduleFlush()
	}
	return changed
}

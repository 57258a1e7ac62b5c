package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskBoard/internal/models/task"
	"taskBoard/internal/storage"
	"taskBoard/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSaver считает физические записи на диск
type fakeSaver struct {
	mtx   sync.Mutex
	saves int
	fails int   // первые fails вызовов завершаются ошибкой
	err   error // постоянная ошибка каждого вызова
	last  *storage.Snapshot
}

func (f *fakeSaver) Save(ctx context.Context, snap *storage.Snapshot) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.fails > 0 {
		f.fails--
		return errors.New("диск переполнен")
	}
	f.saves++
	f.last = snap
	return nil
}

func (f *fakeSaver) count() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.saves
}

type fakeSource struct {
	tasks []*task.Task
}

func (f *fakeSource) GetAll(ctx context.Context) ([]*task.Task, error) {
	return f.tasks, nil
}

func duration(d time.Duration) *time.Duration {
	return &d
}

// TestFlushWorker_Flush тестирует немедленную запись
func TestFlushWorker_Flush(t *testing.T) {
	ctx := context.Background()
	saver := &fakeSaver{}
	source := &fakeSource{tasks: []*task.Task{{ID: uuid.New(), Title: "Задача"}}}
	flushWorker := worker.NewFlushWorker(saver, source, nil)

	// без несохранённых изменений записи нет
	require.NoError(t, flushWorker.Flush(ctx))
	assert.Equal(t, 0, saver.count())

	flushWorker.ScheduleFlush()
	require.NoError(t, flushWorker.Flush(ctx))
	assert.Equal(t, 1, saver.count())
	require.NotNil(t, saver.last)
	assert.Equal(t, storage.SchemaVersion, saver.last.Version)
	assert.Len(t, saver.last.Tasks, 1)

	// повторный Flush без новых изменений — no-op
	require.NoError(t, flushWorker.Flush(ctx))
	assert.Equal(t, 1, saver.count())
}

// TestFlushWorker_DebounceCoalescing тестирует склейку частых изменений
func TestFlushWorker_DebounceCoalescing(t *testing.T) {
	saver := &fakeSaver{}
	source := &fakeSource{}
	flushWorker := worker.NewFlushWorker(saver, source, duration(150*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		flushWorker.Start(ctx)
	}()

	// десять изменений внутри окна дают ровно одну запись
	for i := 0; i < 10; i++ {
		flushWorker.ScheduleFlush()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return saver.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// после записи новых изменений нет — счётчик не растёт
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, saver.count())

	cancel()
	<-done
	assert.Equal(t, 1, saver.count())
}

// TestFlushWorker_FinalFlushOnShutdown тестирует безусловную запись при остановке
func TestFlushWorker_FinalFlushOnShutdown(t *testing.T) {
	saver := &fakeSaver{}
	source := &fakeSource{}
	// большое окно: до дедлайна воркер остановится раньше
	flushWorker := worker.NewFlushWorker(saver, source, duration(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		flushWorker.Start(ctx)
	}()

	flushWorker.ScheduleFlush()
	cancel()
	<-done

	// последняя правка записана несмотря на не истёкшее окно
	assert.Equal(t, 1, saver.count())
}

// TestFlushWorker_ReadOnlyStorage тестирует пропуск записи в режиме
// «только для чтения»
func TestFlushWorker_ReadOnlyStorage(t *testing.T) {
	ctx := context.Background()
	saver := &fakeSaver{err: storage.ErrReadOnly}
	source := &fakeSource{}
	flushWorker := worker.NewFlushWorker(saver, source, nil)

	flushWorker.ScheduleFlush()

	// режим держится всю сессию — бесконечные повторы не планируются
	require.NoError(t, flushWorker.Flush(ctx))
	assert.Equal(t, 0, saver.count())
	require.NoError(t, flushWorker.Flush(ctx))
	assert.Equal(t, 0, saver.count())
}

// TestFlushWorker_RetryAfterWriteError тестирует повтор после ошибки записи
func TestFlushWorker_RetryAfterWriteError(t *testing.T) {
	ctx := context.Background()
	saver := &fakeSaver{fails: 1}
	source := &fakeSource{}
	flushWorker := worker.NewFlushWorker(saver, source, duration(50*time.Millisecond))

	flushWorker.ScheduleFlush()

	// первая запись падает; состояние остаётся несохранённым
	err := flushWorker.Flush(ctx)
	require.Error(t, err)
	assert.Equal(t, 0, saver.count())

	// следующая попытка записывает без нового ScheduleFlush
	require.NoError(t, flushWorker.Flush(ctx))
	assert.Equal(t, 1, saver.count())
}

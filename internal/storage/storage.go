package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

const backupTimeLayout = "20060102T150405"

// ErrReadOnly возвращается Save, когда файл задач существует, но прочитать
// его не удалось: перезапись уничтожила бы данные, которые никто не видел.
var ErrReadOnly = errors.New("хранилище доступно только для чтения")

// Storage сериализует снапшот задач в JSON-файл.
// Повреждённый файл никогда не ошибка для вызывающего: он откладывается
// в резервную копию, а на его месте создаются задачи по умолчанию.
type Storage struct {
	path    string
	columns []task.Status

	// readOnly взводится, когда файл существует, но не читается:
	// запись отключается до конца сессии, чтобы не затереть его
	readOnly bool
}

func NewStorage(path string, columns []string) *Storage {
	statuses := make([]task.Status, 0, len(columns))
	for _, column := range columns {
		statuses = append(statuses, task.Status(column))
	}
	if len(statuses) == 0 {
		statuses = []task.Status{"backlog", "in_progress", "done"}
	}
	return &Storage{
		path:    path,
		columns: statuses,
	}
}

func (s *Storage) Path() string {
	return s.path
}

// Load читает файл задач. Ошибок не возвращает: отсутствие файла и
// повреждение — восстановимые ситуации.
func (s *Storage) Load(ctx context.Context) *Snapshot {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		snap := s.defaultSnapshot()
		if saveErr := s.Save(ctx, snap); saveErr != nil {
			logger.Warn("Storage: Не удалось записать файл задач по умолчанию", zap.Error(saveErr))
		}
		return snap
	}
	if err != nil {
		// файл есть, но не читается (например, права). В отличие от
		// повреждения, исходные байты нельзя даже отложить в резервную
		// копию, поэтому запись отключается: отложенная запись не должна
		// атомарно подменить целый, но нечитаемый файл дефолтами
		s.readOnly = true
		logger.Warn("Storage: Файл задач недоступен, запись отключена до конца сессии",
			zap.Error(err), zap.String("path", s.path))
		return s.defaultSnapshot()
	}

	snap, err := decodeSnapshot(raw)
	if err != nil {
		backupPath, backupErr := s.backup(raw)
		if backupErr != nil {
			logger.Warn("Storage: Не удалось создать резервную копию", zap.Error(backupErr))
		}
		logger.Warn("Storage: Файл задач повреждён, восстанавливаю задачи по умолчанию",
			zap.Error(err),
			zap.String("backup", backupPath))

		snap = s.defaultSnapshot()
		if saveErr := s.Save(ctx, snap); saveErr != nil {
			logger.Warn("Storage: Не удалось перезаписать файл задач", zap.Error(saveErr))
		}
		return snap
	}

	s.normalize(snap)
	return snap
}

// Save атомарно записывает снапшот: содержимое пишется во временный файл
// и подменяет целевой, частичной записи на диске не бывает.
func (s *Storage) Save(ctx context.Context, snap *Snapshot) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("создание каталога данных: %w", err)
	}

	buf, err := json.MarshalIndent(fromSnapshot(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация снапшота: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("запись файла задач: %w", err)
	}
	return nil
}

// backup откладывает исходные байты в tasks.json.<метка>.bak.
// Резервные копии никогда не удаляются.
func (s *Storage) backup(raw []byte) (string, error) {
	backupPath := fmt.Sprintf("%s.%s.bak", s.path, time.Now().UTC().Format(backupTimeLayout))
	if err := os.WriteFile(backupPath, raw, 0o644); err != nil {
		return "", err
	}
	return backupPath, nil
}

// normalize чинит нарушенные инварианты загруженного снапшота: пустые и
// повторяющиеся id, статус вне набора колонок, отрицательный остаток,
// запущенный таймер на нуле.
func (s *Storage) normalize(snap *Snapshot) {
	seen := make(map[uuid.UUID]bool, len(snap.Tasks))
	for _, loaded := range snap.Tasks {
		if loaded.ID == uuid.Nil || seen[loaded.ID] {
			loaded.ID = uuid.New()
		}
		seen[loaded.ID] = true

		if !s.knownColumn(loaded.Status) {
			loaded.Status = s.columns[0]
		}

		if loaded.CountdownSeconds < 0 {
			loaded.CountdownSeconds = 0
		}
		if loaded.RemainingSeconds < 0 {
			loaded.RemainingSeconds = 0
		}
		if loaded.RemainingSeconds == 0 {
			loaded.TimerRunning = false
		}
	}
}

func (s *Storage) knownColumn(status task.Status) bool {
	for _, column := range s.columns {
		if column == status {
			return true
		}
	}
	return false
}

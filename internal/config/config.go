package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvHome указывает каталог данных и конфигурации.
	EnvHome = "TASKTUI_HOME"
	// EnvHomeLegacy — старое имя переменной, поддерживается для миграции.
	EnvHomeLegacy = "OVER_SSH_HOME"

	configFileName = "config.yml"
	taskFileName   = "tasks.json"

	legacyDirName = ".over-ssh"
	homeDirName   = ".tasktui"
)

type Config struct {
	DataPath            string
	DefaultView         string
	BoardColumns        []string
	StatusLabels        map[string]string
	TimerPresets        []int
	DefaultTimerMinutes int
	Logging             LoggingConfig
	Theme               ThemeConfig
}

type LoggingConfig struct {
	Development bool
}

// ThemeConfig потребляется только слоем представлений.
type ThemeConfig struct {
	Name       string
	Background string
	Primary    string
	Accent     string
	Muted      string
	Text       string
}

// fileConfig — форма config.yml. Все поля необязательные: любое
// отсутствующее или некорректное значение заменяется встроенным дефолтом.
type fileConfig struct {
	App struct {
		DefaultView         string            `yaml:"default_view"`
		DataPath            string            `yaml:"data_path"`
		BoardColumns        []string          `yaml:"board_columns"`
		StatusLabels        map[string]string `yaml:"status_labels"`
		TimerPresets        []int             `yaml:"timer_presets"`
		DefaultTimerMinutes int               `yaml:"default_timer_minutes"`
	} `yaml:"app"`
	Appearance struct {
		Theme      string `yaml:"theme"`
		Background string `yaml:"background"`
		Primary    string `yaml:"primary"`
		Accent     string `yaml:"accent"`
		Muted      string `yaml:"muted"`
		Text       string `yaml:"text"`
	} `yaml:"appearance"`
	Logging struct {
		Development bool `yaml:"development"`
	} `yaml:"logging"`
}

// Dir возвращает каталог данных: сначала переменные окружения, затем
// ~/.tasktui. Если нового каталога ещё нет, а старый ~/.over-ssh существует,
// используется старый — чтобы не терять данные при миграции.
func Dir() string {
	if env := os.Getenv(EnvHome); env != "" {
		return env
	}
	if env := os.Getenv(EnvHomeLegacy); env != "" {
		return env
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return homeDirName
	}
	newDefault := filepath.Join(home, homeDirName)
	legacyDefault := filepath.Join(home, legacyDirName)
	if _, err := os.Stat(newDefault); os.IsNotExist(err) {
		if _, err := os.Stat(legacyDefault); err == nil {
			return legacyDefault
		}
	}
	return newDefault
}

func DefaultConfigPath() string {
	return filepath.Join(Dir(), configFileName)
}

func DefaultTaskPath() string {
	return filepath.Join(Dir(), taskFileName)
}

func Default() *Config {
	return &Config{
		DataPath:    DefaultTaskPath(),
		DefaultView: "board",
		BoardColumns: []string{
			"backlog", "in_progress", "done",
		},
		StatusLabels: map[string]string{
			"backlog":     "Backlog",
			"in_progress": "In Progress",
			"done":        "Done",
		},
		TimerPresets:        []int{5, 15, 25, 50},
		DefaultTimerMinutes: 25,
		Theme: ThemeConfig{
			Name:       "midnight",
			Background: "#0d1117",
			Primary:    "#58a6ff",
			Accent:     "#ff7b72",
			Muted:      "#30363d",
			Text:       "#c9d1d9",
		},
	}
}

// EnsureConfigFile создаёт стартовый конфиг, если его ещё нет.
func EnsureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	starter := starterConfig()
	return os.WriteFile(path, []byte(starter), 0o644)
}

func starterConfig() string {
	return `# Tasktui configuration
app:
  default_view: board # options: board, list, calendar, details
  data_path: ` + DefaultTaskPath() + `
  board_columns: [backlog, in_progress, done]
  status_labels:
    backlog: Backlog
    in_progress: In Progress
    done: Done
  timer_presets: [5, 15, 25, 50] # minutes
  default_timer_minutes: 25

appearance:
  theme: midnight
  background: "#0d1117"
  primary: "#58a6ff"
  accent: "#ff7b72"
  muted: "#30363d"
  text: "#c9d1d9"

logging:
  development: false
`
}

// Load читает config.yml и накладывает значения на дефолты.
// Никогда не завершается фатально: битый файл или поле — это дефолт.
func Load(path string) *Config {
	cfg := Default()

	// стартовый файл пишется по возможности; ошибка не мешает работе
	_ = EnsureConfigFile(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var parsed fileConfig
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return cfg
	}

	if parsed.App.DataPath != "" {
		cfg.DataPath = expandHome(parsed.App.DataPath)
	}

	switch parsed.App.DefaultView {
	case "list", "board", "calendar", "details":
		cfg.DefaultView = parsed.App.DefaultView
	}

	if columns := cleanColumns(parsed.App.BoardColumns); len(columns) > 0 {
		cfg.BoardColumns = columns
	}

	if labels := cleanLabels(parsed.App.StatusLabels); len(labels) > 0 {
		// дефолтные подписи сохраняются, файл их только дополняет
		for key, value := range labels {
			cfg.StatusLabels[key] = value
		}
	}

	if presets := cleanPresets(parsed.App.TimerPresets); len(presets) > 0 {
		cfg.TimerPresets = presets
	}

	if parsed.App.DefaultTimerMinutes > 0 {
		cfg.DefaultTimerMinutes = parsed.App.DefaultTimerMinutes
	}

	cfg.Logging.Development = parsed.Logging.Development

	if parsed.Appearance.Theme != "" {
		cfg.Theme.Name = parsed.Appearance.Theme
	}
	if parsed.Appearance.Background != "" {
		cfg.Theme.Background = parsed.Appearance.Background
	}
	if parsed.Appearance.Primary != "" {
		cfg.Theme.Primary = parsed.Appearance.Primary
	}
	if parsed.Appearance.Accent != "" {
		cfg.Theme.Accent = parsed.Appearance.Accent
	}
	if parsed.Appearance.Muted != "" {
		cfg.Theme.Muted = parsed.Appearance.Muted
	}
	if parsed.Appearance.Text != "" {
		cfg.Theme.Text = parsed.Appearance.Text
	}

	return cfg
}

// StatusLabel возвращает подпись колонки; для неизвестной колонки
// идентификатор приводится к виду "In Progress".
func (c *Config) StatusLabel(column string) string {
	if label, ok := c.StatusLabels[column]; ok {
		return label
	}
	words := strings.Split(strings.ReplaceAll(column, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

func cleanColumns(columns []string) []string {
	seen := make(map[string]bool)
	res := make([]string, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" || seen[column] {
			continue
		}
		seen[column] = true
		res = append(res, column)
	}
	return res
}

func cleanLabels(labels map[string]string) map[string]string {
	res := make(map[string]string, len(labels))
	for key, value := range labels {
		if strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			continue
		}
		res[key] = value
	}
	return res
}

func cleanPresets(presets []int) []int {
	res := make([]int, 0, len(presets))
	for _, preset := range presets {
		if preset <= 0 {
			continue
		}
		res = append(res, preset)
	}
	return res
}

package logwriter

import (
	"path/filepath"
)

// Встроенные шаблоны формата записи.
const (
	// FormatTabbed — время, имя, уровень и сообщение через табуляцию.
	FormatTabbed = "{{.Time}}\t{{.Name}}\t{{.Level}}\t{{.Message}}"
	// FormatSpaced — то же через пробел.
	FormatSpaced = "{{.Time}} {{.Name}} {{.Level}} {{.Message}}"
	// FormatTimestamp — время и сообщение.
	FormatTimestamp = "{{.Time}} {{.Message}}"
	// FormatMessage — только сообщение.
	FormatMessage = "{{.Message}}"
)

// Formats — встроенные шаблоны в фиксированном порядке.
var Formats = []string{FormatTabbed, FormatSpaced, FormatTimestamp, FormatMessage}

// DefaultDateFormat выводит время как YYYY/MM/DD HH:MM:SS,mmm.
const DefaultDateFormat = "2006/01/02 15:04:05,000"

// Значения по умолчанию для Config.
// Единый источник истины — используется в DefaultConfig и в internal/config.
const (
	DefaultName        = "root"
	DefaultLevel       = LevelInfo
	DefaultFormat      = FormatTimestamp
	DefaultFormatOut   = FormatMessage
	DefaultStdout      = true
	DefaultMaxBytes    = 1024 * 1024
	DefaultBackupCount = 2
)

// Config содержит нормализованные настройки логгера.
// Получается из DefaultConfig() и ParseOptions(); все поля уже приведены к своим типам.
type Config struct {
	// Name — имя логгера, используется в шаблонах и для поиска в Registry.
	Name string

	// Level — минимальный уровень записи для логгера и всех его приёмников.
	Level Level

	// Format — шаблон для файлового и syslog приёмников.
	Format string

	// FormatStdout — шаблон для консоли. Пусто — используется Format.
	FormatStdout string

	// Stdout — подключать ли консольный приёмник при создании.
	Stdout bool

	// Filename — файл логов. Пусто — файловый приёмник не подключается.
	Filename string

	// MaxBytes — размер файла, после которого выполняется ротация.
	// 0 отключает ротацию.
	MaxBytes int64

	// BackupCount — сколько ротированных файлов хранить.
	// 0 — ротация отключена, файл только дописывается.
	BackupCount int

	// Prefix — каталог, относительно которого разрешается Filename.
	Prefix string

	// DateFormat — layout времени в терминах пакета time.
	// По умолчанию: DefaultDateFormat.
	DateFormat string

	// Compress — сжимать ли ротированные файлы в gzip.
	Compress bool

	// Colorize — подсвечивать ли имя уровня в консоли.
	Colorize bool

	// Syslog — подключать ли syslog приёмник при создании.
	Syslog bool

	// SyslogAddress — адрес syslog. Пусто — автоматический выбор.
	SyslogAddress string
}

// DefaultConfig возвращает Config со значениями по умолчанию.
func DefaultConfig() Config {
	return Config{
		Name:         DefaultName,
		Level:        DefaultLevel,
		Format:       DefaultFormat,
		FormatStdout: DefaultFormatOut,
		Stdout:       DefaultStdout,
		MaxBytes:     DefaultMaxBytes,
		BackupCount:  DefaultBackupCount,
	}
}

// stdoutFormat возвращает шаблон консоли с откатом на Format.
func (c Config) stdoutFormat() string {
	if c.FormatStdout != "" {
		return c.FormatStdout
	}
	return c.Format
}

// normalize приводит путь файла к разделителям ОС, разрешает его относительно
// Prefix и ограничивает отрицательные числовые значения нулём.
func (c Config) normalize() Config {
	if c.MaxBytes < 0 {
		c.MaxBytes = 0
	}
	if c.BackupCount < 0 {
		c.BackupCount = 0
	}
	if c.Filename == "" {
		return c
	}

	c.Filename = filepath.FromSlash(c.Filename)
	if c.Prefix == "" {
		return c
	}

	joined := filepath.Join(filepath.FromSlash(c.Prefix), c.Filename)
	if filepath.IsAbs(c.Filename) {
		joined = c.Filename
	}
	c.Filename = realPath(joined)
	return c
}

// realPath возвращает абсолютный путь с раскрытыми символическими ссылками.
// Несуществующий хвост пути присоединяется к ближайшему существующему предку.
func realPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rest := ""
	for dir := abs; ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		rest = filepath.Join(filepath.Base(dir), rest)
	}
}

package logwriter

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// RegistryOption настраивает Registry.
type RegistryOption func(*Registry)

// WithRegistryErrorOutput задаёт поток для предупреждений Lookup.
// По умолчанию os.Stderr.
func WithRegistryErrorOutput(w io.Writer) RegistryOption {
	return func(r *Registry) { r.errOut = w }
}

// WithDefaultOptions задаёт опции для логгеров, которые Lookup создаёт
// при отсутствии совпадения.
func WithDefaultOptions(opts ...Option) RegistryOption {
	return func(r *Registry) { r.defaultOpts = append(r.defaultOpts, opts...) }
}

// Registry — упорядоченный по времени создания список логгеров.
// Записи не удаляются. Владельцем является корень композиции приложения.
type Registry struct {
	mu          sync.Mutex
	// createMu сериализует создание логгеров по умолчанию в Lookup.
	createMu    sync.Mutex
	loggers     []*Logger
	errOut      io.Writer
	defaultOpts []Option
}

// NewRegistry создаёт пустой реестр.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{errOut: os.Stderr}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register добавляет логгер в конец реестра.
func (r *Registry) Register(l *Logger) {
	if l == nil {
		return
	}
	r.mu.Lock()
	r.loggers = append(r.loggers, l)
	r.mu.Unlock()
}

// Lookup возвращает логгер.
//
// Если среди candidates есть *Logger, возвращается первый из них. Иначе при
// пустом name возвращается последний зарегистрированный логгер, а при
// непустом — самый новый логгер с этим именем. Если ничего не найдено,
// в поток ошибок пишется предупреждение и создаётся (и регистрируется)
// логгер с настройками по умолчанию.
func (r *Registry) Lookup(name string, candidates ...any) *Logger {
	for _, c := range candidates {
		if l, ok := c.(*Logger); ok && l != nil {
			return l
		}
	}

	if l := r.find(name); l != nil {
		return l
	}

	r.createMu.Lock()
	defer r.createMu.Unlock()
	if l := r.find(name); l != nil {
		return l
	}

	_, _ = fmt.Fprintf(r.errOut, "LogWriter was not found: %s\n", name) //nolint:errcheck // error stream

	cfg := DefaultConfig()
	if name != "" {
		cfg.Name = name
	}
	opts := append([]Option{WithErrorOutput(r.errOut)}, r.defaultOpts...)
	opts = append(opts, WithRegistry(r))
	l, err := New(cfg, opts...)
	if err != nil {
		// DefaultConfig не подключает файл и syslog, поэтому сюда попадаем
		// только при сломанных опциях по умолчанию.
		_, _ = fmt.Fprintf(r.errOut, "LogWriter default logger failed: %v\n", err) //nolint:errcheck // error stream
		l = &Logger{core: &loggerCore{cfg: cfg, opts: buildOptions(nil)}}
		l.core.level.Set(cfg.Level.Slog())
		l.handler = &fanoutHandler{name: cfg.Name, level: &l.core.level, sinks: &l.core.sinks}
		r.Register(l)
	}
	return l
}

func (r *Registry) find(name string) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.loggers) == 0 {
		return nil
	}
	if name == "" {
		return r.loggers[len(r.loggers)-1]
	}
	for i := len(r.loggers) - 1; i >= 0; i-- {
		if r.loggers[i].Name() == name {
			return r.loggers[i]
		}
	}
	return nil
}

// Len возвращает число зарегистрированных логгеров.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loggers)
}

// All возвращает логгеры в порядке регистрации.
func (r *Registry) All() []*Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Logger, len(r.loggers))
	copy(out, r.loggers)
	return out
}

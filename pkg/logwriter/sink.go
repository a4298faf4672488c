package logwriter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// SinkKind — тип приёмника.
type SinkKind string

// Типы приёмников.
const (
	SinkConsole SinkKind = "console"
	SinkFile    SinkKind = "file"
	SinkSyslog  SinkKind = "syslog"
)

// recordWriter доставляет готовую строку записи в конкретный вывод.
type recordWriter interface {
	writeRecord(level Level, line string) error
	Close() error
}

// Sink — приёмник записей логгера со своим уровнем фильтрации.
// Уровень задаётся при подключении и меняется через Logger.SetLevel.
type Sink struct {
	kind   SinkKind
	target string
	level  slog.LevelVar
	fmt    *formatter

	mu     sync.Mutex
	out    recordWriter
	closed bool

	rotations atomic.Int64
}

func newSink(kind SinkKind, target string, level Level, f *formatter, out recordWriter) *Sink {
	s := &Sink{kind: kind, target: target, fmt: f, out: out}
	s.level.Set(level.Slog())
	return s
}

// Kind возвращает тип приёмника.
func (s *Sink) Kind() SinkKind { return s.kind }

// Target возвращает назначение: имя потока, путь к файлу или адрес syslog.
func (s *Sink) Target() string { return s.target }

// Level возвращает текущий уровень приёмника.
func (s *Sink) Level() Level { return Level(s.level.Level()) }

// SetLevel меняет уровень приёмника.
func (s *Sink) SetLevel(level Level) { s.level.Set(level.Slog()) }

// Rotations возвращает число выполненных ротаций файла.
func (s *Sink) Rotations() int64 { return s.rotations.Load() }

// Enabled сообщает, пропустит ли приёмник запись уровня level.
func (s *Sink) Enabled(level Level) bool {
	return level.Slog() >= s.level.Level()
}

// emit форматирует и записывает одну запись.
func (s *Sink) emit(name string, r slog.Record, attrs []slog.Attr, group string) error {
	line, err := s.fmt.format(name, r, attrs, group)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.out.writeRecord(Level(r.Level), line)
}

// Close закрывает вывод приёмника. Повторный вызов безопасен.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.out.Close()
}

// sinkSet — общий для логгера и его производных (With) список приёмников.
type sinkSet struct {
	mu    sync.RWMutex
	sinks []*Sink
}

func (ss *sinkSet) add(s *Sink) {
	ss.mu.Lock()
	ss.sinks = append(ss.sinks, s)
	ss.mu.Unlock()
}

func (ss *sinkSet) snapshot() []*Sink {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	out := make([]*Sink, len(ss.sinks))
	copy(out, ss.sinks)
	return out
}

// fanoutHandler — slog.Handler, раздающий запись всем приёмникам логгера.
type fanoutHandler struct {
	name   string
	level  *slog.LevelVar
	sinks  *sinkSet
	attrs  []slog.Attr
	group  string
	onEmit func(Level)
}

func (h *fanoutHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *fanoutHandler) Handle(_ context.Context, r slog.Record) error {
	if h.onEmit != nil {
		h.onEmit(Level(r.Level))
	}
	var errs []error
	for _, s := range h.sinks.snapshot() {
		if !s.Enabled(Level(r.Level)) {
			continue
		}
		if err := s.emit(h.name, r, h.attrs, h.group); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

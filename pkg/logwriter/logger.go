package logwriter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/logwriter/pkg/apperrors"
	"github.com/Kargones/logwriter/pkg/argfmt"
	"github.com/Kargones/logwriter/pkg/callsite"
	"github.com/Kargones/logwriter/pkg/metrics"
)

// Option настраивает создание Logger.
type Option func(*loggerOptions)

type loggerOptions struct {
	registry *Registry
	stdout   io.Writer
	errOut   io.Writer
	metrics  metrics.Collector
}

// WithRegistry регистрирует созданный логгер в r.
func WithRegistry(r *Registry) Option {
	return func(o *loggerOptions) { o.registry = r }
}

// WithStdout задаёт поток консольного приёмника. По умолчанию os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *loggerOptions) { o.stdout = w }
}

// WithErrorOutput задаёт поток для служебных сообщений и ошибок записи.
// По умолчанию os.Stderr.
func WithErrorOutput(w io.Writer) Option {
	return func(o *loggerOptions) { o.errOut = w }
}

// WithMetrics подключает сборщик метрик записей и ротаций.
func WithMetrics(c metrics.Collector) Option {
	return func(o *loggerOptions) { o.metrics = c }
}

func buildOptions(opts []Option) loggerOptions {
	o := loggerOptions{stdout: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = metrics.NewNopCollector()
	}
	return o
}

// loggerCore — состояние, общее для логгера и его производных из With.
type loggerCore struct {
	mu    sync.Mutex
	cfg   Config
	level slog.LevelVar
	sinks sinkSet
	opts  loggerOptions
}

// Logger — именованный логгер с нормализованной конфигурацией, набором
// приёмников и отладочными помощниками с местом вызова.
//
// Фильтрация по уровню и раздача записей выполняются через log/slog.
// Безопасен для конкурентного использования.
type Logger struct {
	core    *loggerCore
	handler slog.Handler
}

// New создаёт логгер по cfg и подключает приёмники согласно настройкам.
// При ошибке подключения приёмника уже открытые приёмники закрываются.
func New(cfg Config, opts ...Option) (*Logger, error) {
	cfg = cfg.normalize()
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if _, err := newFormatter(cfg.Format, cfg.DateFormat); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "некорректный format", err)
	}
	if _, err := newFormatter(cfg.stdoutFormat(), cfg.DateFormat); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "некорректный format_stdout", err)
	}

	core := &loggerCore{cfg: cfg, opts: buildOptions(opts)}
	core.level.Set(cfg.Level.Slog())

	l := &Logger{core: core}
	l.handler = &fanoutHandler{
		name:  cfg.Name,
		level: &core.level,
		sinks: &core.sinks,
		onEmit: func(level Level) {
			core.opts.metrics.RecordEmitted(cfg.Name, level.String())
		},
	}

	if cfg.Stdout {
		if _, err := l.AddConsoleSink(core.opts.stdout); err != nil {
			return nil, err
		}
	}
	if cfg.Filename != "" {
		if _, err := l.AddRotatingFileSink(cfg.Filename, cfg.MaxBytes, cfg.BackupCount); err != nil {
			_ = l.Close()
			return nil, err
		}
	}
	if cfg.Syslog {
		if _, err := l.AddSyslogSink(cfg.SyslogAddress); err != nil {
			_ = l.Close()
			return nil, err
		}
	}

	if core.opts.registry != nil {
		core.opts.registry.Register(l)
	}
	return l, nil
}

// NewFromOptions создаёт логгер по имени, уровню и открытой карте настроек.
// Значения из options перекрывают name и level.
func NewFromOptions(name string, level Level, options map[string]any, opts ...Option) (*Logger, error) {
	base := DefaultConfig()
	base.Name = name
	base.Level = level
	cfg, err := ParseOptions(base, options)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// AddConsoleSink подключает вывод в поток w с шаблоном FormatStdout.
// nil w означает поток, заданный WithStdout.
func (l *Logger) AddConsoleSink(w io.Writer) (*Sink, error) {
	if w == nil {
		w = l.core.opts.stdout
	}
	cfg := l.Config()
	f, err := newFormatter(cfg.stdoutFormat(), cfg.DateFormat)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "некорректный format_stdout", err)
	}
	if cfg.Colorize {
		f.paintLevel = levelPainter(w)
	}
	return l.attach(newSink(SinkConsole, streamName(w), l.Level(), f, streamWriter{w: w})), nil
}

// AddRotatingFileSink подключает файл с ротацией по размеру.
// maxBytes 0 или backupCount 0 отключают ротацию.
func (l *Logger) AddRotatingFileSink(filename string, maxBytes int64, backupCount int) (*Sink, error) {
	cfg := l.Config()
	f, err := newFormatter(cfg.Format, cfg.DateFormat)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "некорректный format", err)
	}
	rf, err := openRotatingFile(filename, maxBytes, backupCount, cfg.Compress)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrSinkOpen,
			fmt.Sprintf("не удалось открыть файл логов %s", filename), err)
	}
	sink := newSink(SinkFile, filename, l.Level(), f, rf)
	rf.onRotate = func() {
		sink.rotations.Add(1)
		l.core.opts.metrics.RecordRotation(cfg.Name)
	}
	return l.attach(sink), nil
}

// AddSyslogSink подключает syslog. Пустой dest — автоматический выбор адреса.
func (l *Logger) AddSyslogSink(dest string) (*Sink, error) {
	cfg := l.Config()
	f, err := newFormatter(cfg.Format, cfg.DateFormat)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "некорректный format", err)
	}
	w, target, err := dialSyslog(dest, cfg.Name)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrSinkSyslog,
			fmt.Sprintf("не удалось подключиться к syslog %s", target), err)
	}
	return l.attach(newSink(SinkSyslog, target, l.Level(), f, w)), nil
}

func (l *Logger) attach(s *Sink) *Sink {
	l.core.sinks.add(s)
	return s
}

// Name возвращает имя логгера.
func (l *Logger) Name() string {
	return l.Config().Name
}

// Config возвращает копию текущей конфигурации.
func (l *Logger) Config() Config {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	return l.core.cfg
}

// Sinks возвращает подключённые приёмники в порядке подключения.
func (l *Logger) Sinks() []*Sink {
	return l.core.sinks.snapshot()
}

// Level возвращает текущий уровень логгера.
func (l *Logger) Level() Level {
	return Level(l.core.level.Level())
}

// SetLevel сохраняет уровень в конфигурации и применяет его к логгеру и
// всем подключённым приёмникам. Приёмники не пересоздаются.
func (l *Logger) SetLevel(level Level) {
	l.core.mu.Lock()
	l.core.cfg.Level = level
	l.core.level.Set(level.Slog())
	l.core.mu.Unlock()

	for _, s := range l.core.sinks.snapshot() {
		s.SetLevel(level)
	}
}

// Enabled сообщает, будет ли записано сообщение уровня level.
func (l *Logger) Enabled(level Level) bool {
	return l.handler.Enabled(context.Background(), level.Slog())
}

// With возвращает логгер с добавленными атрибутами.
// Приёмники, уровень и регистрация общие с исходным логгером.
func (l *Logger) With(args ...any) *Logger {
	attrs := argsToAttrs(args)
	if len(attrs) == 0 {
		return l
	}
	return &Logger{core: l.core, handler: l.handler.WithAttrs(attrs)}
}

// Slog возвращает *slog.Logger поверх тех же приёмников.
// Уровни slog переводятся в Level через FromSlog.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(slogBridge{h: l.handler})
}

// slogBridge переводит записи со шкалой уровней slog в шкалу Level.
type slogBridge struct {
	h slog.Handler
}

func (b slogBridge) Enabled(ctx context.Context, level slog.Level) bool {
	return b.h.Enabled(ctx, FromSlog(level).Slog())
}

func (b slogBridge) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, FromSlog(r.Level).Slog(), r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(a)
		return true
	})
	return b.h.Handle(ctx, out)
}

func (b slogBridge) WithAttrs(attrs []slog.Attr) slog.Handler {
	return slogBridge{h: b.h.WithAttrs(attrs)}
}

func (b slogBridge) WithGroup(name string) slog.Handler {
	return slogBridge{h: b.h.WithGroup(name)}
}

// Close закрывает все приёмники.
func (l *Logger) Close() error {
	var errs []error
	for _, s := range l.core.sinks.snapshot() {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Info записывает сообщение уровня INFO.
func (l *Logger) Info(msg string, args ...any) {
	l.emit(context.Background(), LevelInfo, callerPC(1), msg, args)
}

// Warn записывает сообщение уровня WARNING.
func (l *Logger) Warn(msg string, args ...any) {
	l.emit(context.Background(), LevelWarning, callerPC(1), msg, args)
}

// Error записывает сообщение уровня ERROR.
func (l *Logger) Error(msg string, args ...any) {
	l.emit(context.Background(), LevelError, callerPC(1), msg, args)
}

// Critical записывает сообщение уровня CRITICAL.
func (l *Logger) Critical(msg string, args ...any) {
	l.emit(context.Background(), LevelCritical, callerPC(1), msg, args)
}

// Log записывает сообщение произвольного уровня.
func (l *Logger) Log(level Level, msg string, args ...any) {
	l.emit(context.Background(), level, callerPC(1), msg, args)
}

// LogContext записывает сообщение и добавляет trace_id и span_id, если в ctx
// есть span context OpenTelemetry. Для remote контекста без span ID
// добавляется только trace_id.
func (l *Logger) LogContext(ctx context.Context, level Level, msg string, args ...any) {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		args = append(args, "trace_id", sc.TraceID().String())
	}
	if sc.HasSpanID() {
		args = append(args, "span_id", sc.SpanID().String())
	}
	l.emit(ctx, level, callerPC(1), msg, args)
}

// emit создаёт slog.Record и передаёт её обработчику.
// Ошибки записи уходят в поток ошибок, как у стандартных обработчиков.
func (l *Logger) emit(ctx context.Context, level Level, pc uintptr, msg string, args []any) {
	if !l.handler.Enabled(ctx, level.Slog()) {
		return
	}
	r := slog.NewRecord(time.Now(), level.Slog(), msg, pc)
	if attrs := argsToAttrs(args); len(attrs) > 0 {
		r.AddAttrs(attrs...)
	}
	if err := l.handler.Handle(ctx, r); err != nil {
		_, _ = fmt.Fprintf(l.core.opts.errOut, "logwriter: ошибка записи в %s: %v\n", l.Name(), err) //nolint:errcheck // error stream
	}
}

// callerPC возвращает счётчик команд на глубине skip относительно вызывающей
// функции (skip=0 — функция, вызвавшая callerPC).
func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	runtime.Callers(skip+2, pcs[:])
	return pcs[0]
}

// argsToAttrs переводит аргументы в атрибуты slog.
// argfmt.Field становится атрибутом, управляющие поля и места вызова
// отбрасываются, остальное разбирается по правилам slog (ключ, значение).
func argsToAttrs(args []any) []slog.Attr {
	if len(args) == 0 {
		return nil
	}
	plain := make([]any, 0, len(args))
	var attrs []slog.Attr
	for _, a := range args {
		switch t := a.(type) {
		case argfmt.Field:
			if !t.IsControl() {
				attrs = append(attrs, slog.Any(t.Key, t.Value))
			}
		case *argfmt.Field:
			if t != nil && !t.IsControl() {
				attrs = append(attrs, slog.Any(t.Key, t.Value))
			}
		case callsite.Record, *callsite.Record:
		default:
			plain = append(plain, a)
		}
	}
	if len(plain) > 0 {
		r := slog.NewRecord(time.Time{}, 0, "", 0)
		r.Add(plain...)
		r.Attrs(func(a slog.Attr) bool {
			attrs = append(attrs, a)
			return true
		})
	}
	return attrs
}

package logwriter

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Kargones/logwriter/pkg/apperrors"
	"github.com/Kargones/logwriter/pkg/argfmt"
	"github.com/Kargones/logwriter/pkg/callsite"
)

// countingCollector считает вызовы metrics.Collector.
type countingCollector struct {
	mu        sync.Mutex
	emitted   map[string]int
	rotations int
}

func newCountingCollector() *countingCollector {
	return &countingCollector{emitted: make(map[string]int)}
}

func (c *countingCollector) RecordEmitted(logger, level string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitted[logger+"/"+level]++
}

func (c *countingCollector) RecordRotation(_ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotations++
}

func (c *countingCollector) Push(_ context.Context) error { return nil }

func (c *countingCollector) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.emitted {
		n += v
	}
	return n
}

// newConsoleLogger создаёт логгер только с консольным приёмником в буфер.
func newConsoleLogger(t *testing.T, level Level, opts ...Option) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Name = "test"
	cfg.Level = level
	opts = append([]Option{WithStdout(&buf)}, opts...)
	l, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l, &buf
}

func lines(buf *bytes.Buffer) []string {
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// TestNew_Defaults проверяет создание с настройками по умолчанию.
func TestNew_Defaults(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelInfo)

	assert.Equal(t, "test", l.Name())
	assert.Equal(t, LevelInfo, l.Level())
	require.Len(t, l.Sinks(), 1)
	assert.Equal(t, SinkConsole, l.Sinks()[0].Kind())

	l.Info("hello", "n", 1)
	assert.Equal(t, []string{"hello n=1"}, lines(buf))
}

// TestNew_NoStdout проверяет, что без stdout и filename приёмников нет.
func TestNew_NoStdout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stdout = false
	l, err := New(cfg)
	require.NoError(t, err)
	assert.Empty(t, l.Sinks())
	l.Info("nowhere")
}

// TestNew_StdoutFormatFallback проверяет откат format_stdout на format.
func TestNew_StdoutFormatFallback(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Name = "svc"
	cfg.Format = "{{.Name}}:{{.Level}}:{{.Message}}"
	cfg.FormatStdout = ""
	l, err := New(cfg, WithStdout(&buf))
	require.NoError(t, err)

	l.Warn("careful")
	assert.Equal(t, []string{"svc:WARNING:careful"}, lines(&buf))
}

// TestNew_InvalidFormat проверяет ошибку валидации шаблона.
func TestNew_InvalidFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "{{.Message"
	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConfigValidate))
}

// TestNewFromOptions проверяет создание из открытой карты настроек.
func TestNewFromOptions(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewFromOptions("opts", LevelInfo, map[string]any{
		"level":         "30",
		"format_stdout": "%(levelname)s %(message)s",
	}, WithStdout(&buf))
	require.NoError(t, err)

	assert.Equal(t, "opts", l.Name())
	assert.Equal(t, LevelWarning, l.Level())

	l.Info("skipped")
	l.Error("kept")
	assert.Equal(t, []string{"ERROR kept"}, lines(&buf))
}

// TestNewFromOptions_InvalidOptions проверяет, что ошибка разбора возвращается без создания логгера.
func TestNewFromOptions_InvalidOptions(t *testing.T) {
	reg := NewRegistry()
	_, err := NewFromOptions("bad", LevelInfo, map[string]any{"stdout": "sometimes"}, WithRegistry(reg))
	require.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}

// TestLogger_LevelMethods проверяет методы записи по уровням.
func TestLogger_LevelMethods(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = LevelNotSet
	cfg.FormatStdout = "{{.Level}} {{.Message}}"
	l, err := New(cfg, WithStdout(&buf))
	require.NoError(t, err)

	l.Info("i")
	l.Warn("w")
	l.Error("e")
	l.Critical("c")
	l.Log(Level(35), "custom")

	assert.Equal(t, []string{"INFO i", "WARNING w", "ERROR e", "CRITICAL c", "Level 35 custom"}, lines(&buf))
}

// TestLogger_CallerFields проверяет, что File, Line и Func указывают на место вызова.
func TestLogger_CallerFields(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.FormatStdout = "{{base .File}}:{{.Line}}:{{.Func}}"
	l, err := New(cfg, WithStdout(&buf))
	require.NoError(t, err)

	_, _, line, _ := runtime.Caller(0)
	l.Info("x")

	assert.Equal(t, []string{fmt.Sprintf("logger_test.go:%d:TestLogger_CallerFields", line+1)}, lines(&buf))
}

// TestLogger_With проверяет атрибуты производного логгера и общие приёмники.
func TestLogger_With(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelInfo)

	child := l.With("req", 42)
	child.Info("handled", argfmt.KV("status", "ok"), argfmt.KV("_hidden", 1))
	l.Info("plain")

	assert.Equal(t, []string{"handled req=42 status=ok", "plain"}, lines(buf))
	assert.Same(t, l, l.With())

	child.SetLevel(LevelError)
	assert.Equal(t, LevelError, l.Level())
}

// TestLogger_Slog проверяет вывод через *slog.Logger поверх тех же приёмников.
func TestLogger_Slog(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelInfo)
	l.Slog().WithGroup("g").Info("via slog", "k", "v")
	assert.Equal(t, []string{"via slog g.k=v"}, lines(buf))
}

// TestLogger_DebugNoopAboveDebug проверяет, что отладочные вызовы ничего не
// делают при уровне выше DEBUG.
func TestLogger_DebugNoopAboveDebug(t *testing.T) {
	for _, level := range []Level{Level(11), LevelInfo, LevelWarning, LevelError, LevelCritical, Level(99)} {
		t.Run(level.String(), func(t *testing.T) {
			collector := newCountingCollector()
			l, buf := newConsoleLogger(t, level, WithMetrics(collector))

			l.Debug("debug")
			l.DebugAnchorBegin(argfmt.KV("x", 1))
			l.DebugAnchorEnd(2, Elapsed(1.0))

			assert.Empty(t, buf.String())
			assert.Zero(t, collector.total())
		})
	}
}

// TestLogger_DebugPrefix проверяет префикс файла и строки.
func TestLogger_DebugPrefix(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelDebug)

	_, _, line, _ := runtime.Caller(0)
	l.Debug("message")

	assert.Equal(t, []string{fmt.Sprintf("logger_test (%05d) message", line+1)}, lines(buf))
}

// TestLogger_DebugExplicitFrame проверяет явное место вызова.
func TestLogger_DebugExplicitFrame(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelDebug)

	l.Debug("a", callsite.At("/src/handler.go", 7, "Serve"))
	l.Debug("b", Frame(callsite.At("worker.go", 12345, "Run")), "k", "v")

	assert.Equal(t, []string{"handler (00007) a", "worker (12345) b k=v"}, lines(buf))
}

// TestLogger_AnchorEndToEnd проверяет пару якорей начала и конца.
func TestLogger_AnchorEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stdout = true
	cfg.Filename = ""
	cfg.Level = LevelDebug
	var buf bytes.Buffer
	l, err := New(cfg, WithStdout(&buf))
	require.NoError(t, err)

	l.DebugAnchorBegin(argfmt.KV("x", 1))
	l.DebugAnchorEnd(2, Elapsed(3661.5))

	out := lines(&buf)
	require.Len(t, out, 2)
	assert.Contains(t, out[0], "anchor begin: TestLogger_AnchorEndToEnd(x=1)")
	assert.Contains(t, out[1], "anchor end: TestLogger_AnchorEndToEnd() result=2, time_elapsed=01:01:01.500")
	assert.True(t, strings.HasPrefix(out[1], "logger_test ("))
}

// TestLogger_AnchorControlArgs проверяет, что управляющие аргументы не попадают в вывод.
func TestLogger_AnchorControlArgs(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelDebug)

	l.DebugAnchorBegin("pos", argfmt.KV("user", "bob"), FuncName("Handle"), argfmt.KV("_secret", "pw"))
	l.DebugAnchorEnd(nil, FuncName("Handle"), Elapsed(90*time.Second))
	l.DebugAnchorEnd("done", Frame(callsite.At("job.go", 3, "Job")))

	out := lines(buf)
	require.Len(t, out, 3)
	assert.Contains(t, out[0], `anchor begin: Handle("pos", user=bob)`)
	assert.Contains(t, out[1], "anchor end: Handle() result=<nil>, time_elapsed=00:01:30.000")
	assert.Equal(t, "job (00003) anchor end: Job() result=done", out[2])
	for _, line := range out {
		assert.NotContains(t, line, "_secret")
		assert.NotContains(t, line, "pw")
		assert.NotContains(t, line, "_func_name")
		assert.NotContains(t, line, "_time_elapsed")
	}
}

// TestLogger_SetLevel проверяет, что уровень применяется ко всем приёмникам.
func TestLogger_SetLevel(t *testing.T) {
	var first, second bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = LevelWarning
	l, err := New(cfg, WithStdout(&first))
	require.NoError(t, err)
	extra, err := l.AddConsoleSink(&second)
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, extra.Level())

	l.Info("filtered")
	assert.Empty(t, first.String())
	assert.Empty(t, second.String())

	l.SetLevel(LevelInfo)
	for _, s := range l.Sinks() {
		assert.Equal(t, LevelInfo, s.Level())
	}
	assert.Equal(t, LevelInfo, l.Config().Level)
	assert.Len(t, l.Sinks(), 2, "приёмники не пересоздаются")

	l.Info("passed")
	assert.Equal(t, []string{"passed"}, lines(&first))
	assert.Equal(t, []string{"passed"}, lines(&second))

	l.SetLevel(LevelError)
	l.Warn("filtered again")
	assert.Equal(t, []string{"passed"}, lines(&first))
}

// TestLogger_SinkLevel проверяет отдельный уровень приёмника.
func TestLogger_SinkLevel(t *testing.T) {
	var all, errorsOnly bytes.Buffer
	cfg := DefaultConfig()
	l, err := New(cfg, WithStdout(&all))
	require.NoError(t, err)
	s, err := l.AddConsoleSink(&errorsOnly)
	require.NoError(t, err)
	s.SetLevel(LevelError)

	l.Info("info")
	l.Error("error")

	assert.Equal(t, []string{"info", "error"}, lines(&all))
	assert.Equal(t, []string{"error"}, lines(&errorsOnly))
	assert.True(t, s.Enabled(LevelCritical))
	assert.False(t, s.Enabled(LevelWarning))
}

// TestLogger_LogContext проверяет добавление trace_id и span_id.
func TestLogger_LogContext(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelInfo)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	l.LogContext(ctx, LevelInfo, "traced")
	l.LogContext(context.Background(), LevelInfo, "untraced")

	sc := span.SpanContext()
	out := lines(buf)
	require.Len(t, out, 2)
	assert.Equal(t, fmt.Sprintf("traced trace_id=%s span_id=%s", sc.TraceID(), sc.SpanID()), out[0])
	assert.Equal(t, "untraced", out[1])
}

// TestLogger_Metrics проверяет учёт записей, прошедших фильтр уровня.
func TestLogger_Metrics(t *testing.T) {
	collector := newCountingCollector()
	l, _ := newConsoleLogger(t, LevelInfo, WithMetrics(collector))

	l.Info("a")
	l.Info("b")
	l.Error("c")
	l.Debug("filtered")

	collector.mu.Lock()
	defer collector.mu.Unlock()
	assert.Equal(t, 2, collector.emitted["test/INFO"])
	assert.Equal(t, 1, collector.emitted["test/ERROR"])
	assert.Zero(t, collector.emitted["test/DEBUG"])
}

// TestLogger_Colorize проверяет, что раскраска не ломает вывод в буфер.
func TestLogger_Colorize(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Colorize = true
	cfg.FormatStdout = "{{.Level}} {{.Message}}"
	l, err := New(cfg, WithStdout(&buf))
	require.NoError(t, err)

	l.Error("red")
	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "red")
}

// TestLogger_Obsolete проверяет баннер устаревшей функции.
func TestLogger_Obsolete(t *testing.T) {
	var errOut bytes.Buffer
	l, _ := newConsoleLogger(t, LevelInfo, WithErrorOutput(&errOut))

	l.Obsolete("OldFunc")
	assert.Equal(t, "%%%%%%%%%% OldFunc is obsolete function. %%%%%%%%%%\n", errOut.String())
}

// TestLogger_Profile проверяет запись затраченного времени.
func TestLogger_Profile(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelInfo)

	called := false
	l.Profile("work", func() { called = true })

	assert.True(t, called)
	out := lines(buf)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "Profile Result: func=work time_elapsed=00:00:"))
}

// TestLogger_Close проверяет, что запись после Close не паникует.
func TestLogger_Close(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelInfo)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	l.Info("after close")
	assert.Empty(t, buf.String())
}

// TestLogger_ConcurrentUse проверяет конкурентную запись и смену уровня.
func TestLogger_ConcurrentUse(t *testing.T) {
	l, buf := newConsoleLogger(t, LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Error("msg", "g", i)
				if j%10 == 0 {
					l.SetLevel(LevelInfo)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, lines(buf), 400)
}

package logwriter

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/Kargones/logwriter/pkg/argfmt"
	"github.com/Kargones/logwriter/pkg/callsite"
)

// Ключи управляющих аргументов. В вывод не попадают.
const (
	KeyFuncName    = "_func_name"
	KeyFrame       = "_frame"
	KeyTimeElapsed = "_time_elapsed"
)

// FuncName задаёт имя функции для DebugAnchorBegin и DebugAnchorEnd.
func FuncName(name string) argfmt.Field { return argfmt.KV(KeyFuncName, name) }

// Frame задаёт место вызова явно вместо захвата по стеку.
func Frame(rec callsite.Record) argfmt.Field { return argfmt.KV(KeyFrame, rec) }

// Elapsed задаёт затраченное время для DebugAnchorEnd: секунды числом или
// строкой либо time.Duration.
func Elapsed(v any) argfmt.Field { return argfmt.KV(KeyTimeElapsed, v) }

const unknownFunc = "unknown"

// EnvCPUProfile — переменная окружения с путём для CPU профиля Profile.
const EnvCPUProfile = "LOGWRITER_CPUPROFILE"

// frameFromArgs ищет явное место вызова: callsite.Record среди аргументов
// или управляющее поле _frame.
func frameFromArgs(args []any) (callsite.Record, bool) {
	for _, a := range args {
		switch t := a.(type) {
		case callsite.Record:
			return t, true
		case *callsite.Record:
			if t != nil {
				return *t, true
			}
		}
	}
	if v, ok := argfmt.Lookup(args, KeyFrame); ok {
		switch t := v.(type) {
		case callsite.Record:
			return t, true
		case *callsite.Record:
			if t != nil {
				return *t, true
			}
		}
	}
	return callsite.Record{}, false
}

// withoutFrames убирает места вызова из позиционных аргументов.
func withoutFrames(args []any) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		switch a.(type) {
		case callsite.Record, *callsite.Record:
			continue
		}
		out = append(out, a)
	}
	return out
}

// resolveFrame возвращает явное место вызова или захватывает его на глубине
// skip относительно вызывающей функции.
func resolveFrame(args []any, skip int) (callsite.Record, bool) {
	if rec, ok := frameFromArgs(args); ok {
		return rec, true
	}
	return callsite.Capture(skip + 1)
}

// funcNameOf возвращает имя функции из _func_name или из места вызова.
func funcNameOf(args []any, frame callsite.Record, ok bool) string {
	if v, found := argfmt.Lookup(args, KeyFuncName); found {
		return argfmt.Text(v)
	}
	if ok && frame.Function != "" {
		return frame.Function
	}
	return unknownFunc
}

// Debug записывает сообщение уровня DEBUG с префиксом места вызова
// "<файл без расширения> (<строка, 5 цифр>) ".
//
// Место вызова берётся из callsite.Record среди args либо захватывается
// автоматически. Если захват не удался, сообщение пишется без префикса.
// При уровне выше DEBUG вызов ничего не делает.
func (l *Logger) Debug(msg string, args ...any) {
	if !l.Enabled(LevelDebug) {
		return
	}
	frame, ok := resolveFrame(args, 1)
	l.debugAt(frame, ok, callerPC(1), msg, args)
}

func (l *Logger) debugAt(frame callsite.Record, ok bool, pc uintptr, msg string, args []any) {
	if ok {
		msg = fmt.Sprintf("%s (%05d) %s", frame.Stem(), frame.Line, msg)
	}
	l.emit(context.Background(), LevelDebug, pc, msg, args)
}

// DebugAnchorBegin записывает "anchor begin: <функция>(<аргументы>)".
// Аргументы форматируются argfmt.Format, управляющие поля пропускаются.
func (l *Logger) DebugAnchorBegin(args ...any) {
	if !l.Enabled(LevelDebug) {
		return
	}
	frame, ok := resolveFrame(args, 1)
	msg := fmt.Sprintf("anchor begin: %s(%s)",
		funcNameOf(args, frame, ok), argfmt.Format(withoutFrames(args)...))
	l.debugAt(frame, ok, callerPC(1), msg, nil)
}

// DebugAnchorEnd записывает
// "anchor end: <функция>(<аргументы>) result=<результат>, time_elapsed=<HH:MM:SS.mmm>".
// time_elapsed выводится только при наличии Elapsed среди args.
func (l *Logger) DebugAnchorEnd(result any, args ...any) {
	if !l.Enabled(LevelDebug) {
		return
	}
	frame, ok := resolveFrame(args, 1)

	values := []any{argfmt.KV("result", result)}
	if v, found := argfmt.Lookup(args, KeyTimeElapsed); found && v != nil {
		values = append(values, argfmt.KV("time_elapsed", argfmt.ElapsedText(v)))
	}

	msg := fmt.Sprintf("anchor end: %s(%s) %s",
		funcNameOf(args, frame, ok), argfmt.Format(withoutFrames(args)...), argfmt.Format(values...))
	l.debugAt(frame, ok, callerPC(1), msg, nil)
}

// Obsolete пишет в поток ошибок предупреждение об устаревшей функции.
func (l *Logger) Obsolete(name string) {
	WriteObsolete(l.core.opts.errOut, name)
}

// WriteObsolete пишет баннер об устаревшей функции name в w.
func WriteObsolete(w io.Writer, name string) {
	const bar = "%%%%%%%%%%"
	_, _ = fmt.Fprintf(w, "%s %s is obsolete function. %s\n", bar, name, bar) //nolint:errcheck // error stream
}

// Profile выполняет fn и записывает на уровне INFO затраченное время.
// Если задан EnvCPUProfile, CPU профиль пишется в указанный файл.
func (l *Logger) Profile(name string, fn func()) {
	if path := os.Getenv(EnvCPUProfile); path != "" {
		if f, err := os.Create(path); err == nil {
			if err := pprof.StartCPUProfile(f); err == nil {
				defer func() {
					pprof.StopCPUProfile()
					_ = f.Close()
				}()
			} else {
				_ = f.Close()
			}
		}
	}

	start := time.Now()
	fn()
	elapsed := time.Since(start)

	l.emit(context.Background(), LevelInfo, callerPC(1), "Profile Result:",
		[]any{"func", name, "time_elapsed", argfmt.FormatElapsed(elapsed.Seconds())})
}

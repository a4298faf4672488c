package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/logwriter/pkg/logwriter"
)

// TracerName — имя tracer-а команд logwriter.
const TracerName = "github.com/Kargones/logwriter"

// Ключи атрибутов span-ов записи.
const (
	AttrLogger       = attribute.Key("logwriter.logger")
	AttrLoggerLevel  = attribute.Key("logwriter.logger.level")
	AttrSinkKinds    = attribute.Key("logwriter.sink.kinds")
	AttrSinkTargets  = attribute.Key("logwriter.sink.targets")
	AttrMessageLevel = attribute.Key("logwriter.message.level")
	AttrMessages     = attribute.Key("logwriter.messages")
	AttrRotations    = attribute.Key("logwriter.rotations")
)

// LoggerAttributes описывает логгер: имя, порог и подключённые приёмники
// в порядке подключения.
func LoggerAttributes(lw *logwriter.Logger) []attribute.KeyValue {
	sinks := lw.Sinks()
	kinds := make([]string, 0, len(sinks))
	targets := make([]string, 0, len(sinks))
	for _, s := range sinks {
		kinds = append(kinds, string(s.Kind()))
		targets = append(targets, s.Target())
	}
	return []attribute.KeyValue{
		AttrLogger.String(lw.Name()),
		AttrLoggerLevel.String(lw.Level().String()),
		AttrSinkKinds.StringSlice(kinds),
		AttrSinkTargets.StringSlice(targets),
	}
}

// StartWrite открывает span "logwriter.<op>" для записи сообщений уровня
// level через lw.
func StartWrite(ctx context.Context, tracer trace.Tracer, op string, lw *logwriter.Logger, level logwriter.Level) (context.Context, trace.Span) {
	attrs := append(LoggerAttributes(lw), AttrMessageLevel.String(level.String()))
	return tracer.Start(ctx, "logwriter."+op, trace.WithAttributes(attrs...))
}

// EndWrite добавляет число записанных сообщений и суммарное число ротаций
// файлов логгера, затем закрывает span.
func EndWrite(span trace.Span, lw *logwriter.Logger, messages int) {
	var rotations int64
	for _, s := range lw.Sinks() {
		rotations += s.Rotations()
	}
	span.SetAttributes(AttrMessages.Int(messages), AttrRotations.Int64(rotations))
	span.End()
}

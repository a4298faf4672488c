// Package tracing связывает команды logwriter с OpenTelemetry: экспорт
// span-ов, общий trace ID для записей одной команды и атрибуты, которые
// описывают логгер и его приёмники.
//
//	ctx = tracing.WithTraceID(ctx, tracing.GenerateTraceID())
//	ctx, span := tracing.StartWrite(ctx, otel.Tracer(tracing.TracerName), "emit", lw, level)
//	lw.LogContext(ctx, level, "сообщение")
//	tracing.EndWrite(span, lw, 1)
package tracing

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
)

var fallbackCounter atomic.Uint64

// GenerateTraceID возвращает случайный W3C trace ID: 32 hex-символа.
func GenerateTraceID() string {
	var id trace.TraceID
	if _, err := rand.Read(id[:]); err != nil || !id.IsValid() {
		return fallbackTraceID()
	}
	return id.String()
}

// fallbackTraceID собирает ID из времени и счётчика, если crypto/rand
// недоступен.
func fallbackTraceID() string {
	var id trace.TraceID
	binary.BigEndian.PutUint64(id[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint64(id[8:], fallbackCounter.Add(1))
	return id.String()
}

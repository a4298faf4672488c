package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/logwriter/internal/pkg/urlutil"
)

// Logger — диагностический вывод провайдера.
// Подходят *slog.Logger и *logwriter.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// NewTracerProvider регистрирует глобальный TracerProvider, который пакетами
// отправляет span-ы в OTLP коллектор. Возвращает функцию, сбрасывающую
// накопленные span-ы и останавливающую экспорт.
func NewTracerProvider(cfg Config, logger Logger) (func(context.Context) error, error) {
	if !cfg.Enabled {
		logger.Debug("экспорт span-ов выключен")
		return NewNopTracerProvider(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}
	exporter, err := otlptracehttp.New(context.Background(), cfg.exporterOptions()...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SamplingRate)),
	)
	otel.SetTracerProvider(tp)

	logger.Info("экспорт span-ов включён",
		"endpoint", urlutil.MaskURL(cfg.Endpoint),
		"service_name", cfg.ServiceName,
		"sampling_rate", cfg.SamplingRate,
	)
	return tp.Shutdown, nil
}

// newResource дополняет ресурс SDK атрибутами сервиса.
// NewSchemaless не конфликтует со schema URL ресурса по умолчанию.
func newResource(cfg Config) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
}

// WithTraceID кладёт в ctx удалённый span context с trace ID из hex-строки.
// Span-ы, открытые от ctx, и записи Logger.LogContext получают этот trace_id.
// Невалидный ID оставляет ctx как есть.
func WithTraceID(ctx context.Context, traceIDHex string) context.Context {
	id, err := trace.TraceIDFromHex(traceIDHex)
	if err != nil {
		return ctx
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    id,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

// newSampler сэмплирует по trace ID и корни, и удалённых родителей из
// WithTraceID: флаг sampled у них выставлен всегда. Локальные span-ы
// следуют решению родителя.
func newSampler(rate float64) sdktrace.Sampler {
	byID := sdktrace.TraceIDRatioBased(rate)
	return sdktrace.ParentBased(byID, sdktrace.WithRemoteParentSampled(byID))
}

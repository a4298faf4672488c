package di

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Kargones/logwriter/internal/config"
	"github.com/Kargones/logwriter/internal/constants"
	"github.com/Kargones/logwriter/internal/pkg/tracing"
	"github.com/Kargones/logwriter/pkg/logwriter"
	"github.com/Kargones/logwriter/pkg/metrics"
)

// ProvideDiagnostics создаёт служебный логгер для сообщений подсистем
// метрик и трейсинга. Пишет в stderr начиная с WARNING и не регистрируется
// в реестре.
func ProvideDiagnostics() *slog.Logger {
	cfg := logwriter.DefaultConfig()
	cfg.Name = constants.AppName
	cfg.Level = logwriter.LevelWarning
	cfg.FormatStdout = logwriter.FormatSpaced

	l, err := logwriter.New(cfg, logwriter.WithStdout(os.Stderr))
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return l.Slog()
}

// ProvideRegistry создаёт реестр логгеров приложения.
// Сообщения о ненайденных логгерах уходят в stderr.
func ProvideRegistry() *logwriter.Registry {
	return logwriter.NewRegistry(logwriter.WithRegistryErrorOutput(os.Stderr))
}

// ProvideTraceID генерирует уникальный trace_id для корреляции записей.
// Формат: 32-символьный hex string (16 байт).
func ProvideTraceID() string {
	return tracing.GenerateTraceID()
}

// ProvideMetricsCollector создаёт Collector на основе Config.Metrics.
// Если cfg == nil или Enabled=false, возвращает NopCollector.
// При ошибке создания Collector возвращает NopCollector и логирует ошибку.
func ProvideMetricsCollector(cfg *config.Config, diag *slog.Logger) metrics.Collector {
	if cfg == nil || !cfg.Metrics.Enabled {
		return metrics.NewNopCollector()
	}

	metricsCfg := metrics.DefaultConfig()
	metricsCfg.Enabled = true
	metricsCfg.PushgatewayURL = cfg.Metrics.PushgatewayURL
	metricsCfg.InstanceLabel = cfg.Metrics.InstanceLabel
	if cfg.Metrics.JobName != "" {
		metricsCfg.JobName = cfg.Metrics.JobName
	}
	if cfg.Metrics.Timeout > 0 {
		metricsCfg.Timeout = cfg.Metrics.Timeout
	}

	collector, err := metrics.NewCollector(metricsCfg, diag)
	if err != nil {
		diag.Error("ошибка создания MetricsCollector, используется NopCollector",
			slog.String("error", err.Error()),
		)
		return metrics.NewNopCollector()
	}
	return collector
}

// ProvideTracerProvider создаёт и инициализирует OTel TracerProvider.
// Возвращает shutdown function для graceful завершения.
// При ошибке создания TracerProvider возвращает nop shutdown и логирует ошибку.
func ProvideTracerProvider(cfg *config.Config, diag *slog.Logger) func(context.Context) error {
	if cfg == nil || !cfg.Tracing.Enabled {
		return tracing.NewNopTracerProvider()
	}

	tracingCfg := tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Endpoint:     cfg.Tracing.Endpoint,
		ServiceName:  cfg.Tracing.ServiceName,
		Version:      constants.Version,
		Environment:  cfg.Tracing.Environment,
		Insecure:     cfg.Tracing.Insecure,
		Timeout:      cfg.Tracing.Timeout,
		SamplingRate: cfg.Tracing.SamplingRate,
	}

	shutdown, err := tracing.NewTracerProvider(tracingCfg, diag)
	if err != nil {
		diag.Error("ошибка инициализации tracing, используется nop provider",
			slog.String("error", err.Error()),
		)
		return tracing.NewNopTracerProvider()
	}
	return shutdown
}

// ProvideLoggers создаёт логгеры из Config.LoggerOptions и регистрирует их
// в registry. При ошибке уже созданные логгеры закрываются, а ошибка
// сохраняет код apperrors исходной причины.
func ProvideLoggers(cfg *config.Config, registry *logwriter.Registry, collector metrics.Collector) ([]*logwriter.Logger, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	options := cfg.LoggerOptions()
	loggers := make([]*logwriter.Logger, 0, len(options))
	for i, opts := range options {
		l, err := logwriter.NewFromOptions(constants.DefaultLoggerName, logwriter.DefaultLevel, opts,
			logwriter.WithRegistry(registry),
			logwriter.WithMetrics(collector),
		)
		if err != nil {
			for _, created := range loggers {
				_ = created.Close()
			}
			return nil, fmt.Errorf("логгер #%d: %w", i, err)
		}
		loggers = append(loggers, l)
	}
	return loggers, nil
}

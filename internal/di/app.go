package di

import (
	"context"
	"errors"

	"github.com/Kargones/logwriter/internal/config"
	"github.com/Kargones/logwriter/pkg/logwriter"
	"github.com/Kargones/logwriter/pkg/metrics"
)

// App содержит инициализированные зависимости приложения.
// Создаётся через Wire DI в InitializeApp().
//
// При добавлении новых зависимостей:
// 1. Добавить поле в App struct
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Config содержит конфигурацию приложения.
	// Передаётся извне через InitializeApp().
	Config *config.Config

	// Registry — реестр логгеров для поиска по имени.
	Registry *logwriter.Registry

	// Loggers — логгеры из Config.Loggers в порядке описания.
	// Первый логгер считается основным.
	Loggers []*logwriter.Logger

	// MetricsCollector считает записи и ротации, отправляет их в Pushgateway.
	// Если метрики отключены — используется NopCollector.
	MetricsCollector metrics.Collector

	// TracerShutdown завершает OTel TracerProvider и отправляет буферизированные span-ы.
	// Если трейсинг отключён — nop function.
	TracerShutdown func(context.Context) error

	// TraceID — идентификатор запуска для корреляции записей.
	TraceID string
}

// Primary возвращает основной логгер приложения.
func (a *App) Primary() *logwriter.Logger {
	if len(a.Loggers) == 0 {
		return a.Registry.Lookup("")
	}
	return a.Loggers[0]
}

// Close отправляет метрики, завершает трейсинг и закрывает логгеры.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.MetricsCollector != nil {
		errs = append(errs, a.MetricsCollector.Push(ctx))
	}
	if a.TracerShutdown != nil {
		errs = append(errs, a.TracerShutdown(ctx))
	}
	for _, l := range a.Loggers {
		errs = append(errs, l.Close())
	}
	return errors.Join(errs...)
}

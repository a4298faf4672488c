// Package metrics предоставляет счётчики записей и ротаций логов с
// опциональной отправкой в Prometheus Pushgateway.
//
// Пакет следует общим паттернам проекта:
//   - Collector interface для абстракции
//   - NewCollector выбирает реализацию на основе конфигурации
//   - NopCollector при отключённых метриках
package metrics

import "context"

// Collector определяет интерфейс для сбора метрик логгеров.
// Реализации: PrometheusCollector (активный) и NopCollector (no-op).
type Collector interface {
	// RecordEmitted учитывает запись, прошедшую фильтр уровня логгера.
	RecordEmitted(logger, level string)

	// RecordRotation учитывает ротацию файла логов.
	RecordRotation(logger string)

	// Push отправляет метрики в Pushgateway.
	// Всегда возвращает nil — ошибки логируются внутри реализации.
	Push(ctx context.Context) error
}

// Logger — минимальный интерфейс для диагностики сборщика.
// Ему удовлетворяют *slog.Logger и *logwriter.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

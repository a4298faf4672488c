package metrics

import "context"

// NopCollector — no-op реализация Collector.
// Используется когда метрики отключены (Config.Enabled = false).
type NopCollector struct{}

// NewNopCollector создаёт NopCollector.
func NewNopCollector() *NopCollector {
	return &NopCollector{}
}

// RecordEmitted — no-op.
func (c *NopCollector) RecordEmitted(_, _ string) {}

// RecordRotation — no-op.
func (c *NopCollector) RecordRotation(_ string) {}

// Push — no-op, всегда возвращает nil.
func (c *NopCollector) Push(_ context.Context) error {
	return nil
}

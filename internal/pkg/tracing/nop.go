package tracing

import "context"

// NewNopTracerProvider возвращает shutdown function, которая ничего не делает.
// Глобальный provider при этом остаётся noop-провайдером OTel.
func NewNopTracerProvider() func(context.Context) error {
	return func(_ context.Context) error { return nil }
}

package metrics

// NewCollector создаёт Collector на основе конфигурации.
// Если метрики отключены — возвращает NopCollector, иначе PrometheusCollector.
func NewCollector(config Config, logger Logger) (Collector, error) {
	if !config.Enabled {
		return NewNopCollector(), nil
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return NewPrometheusCollector(config, logger)
}

package metrics

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/Kargones/logwriter/internal/pkg/urlutil"
)

// PrometheusCollector реализует Collector с Prometheus метриками.
type PrometheusCollector struct {
	config   Config
	logger   Logger
	registry *prometheus.Registry

	records   *prometheus.CounterVec
	rotations *prometheus.CounterVec

	instance string
}

// NewPrometheusCollector создаёт PrometheusCollector с указанной конфигурацией.
// Регистрирует метрики:
//   - <namespace>_records_total{logger,level} (counter)
//   - <namespace>_rotations_total{logger} (counter)
func NewPrometheusCollector(config Config, logger Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Namespace == "" {
		config.Namespace = DefaultConfig().Namespace
	}

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Debug("не удалось получить hostname для metrics instance label, используется 'unknown'",
				"error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	registry := prometheus.NewRegistry()

	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "records_total",
			Help:      "Total number of log records emitted",
		},
		[]string{"logger", "level"},
	)

	rotations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "rotations_total",
			Help:      "Total number of log file rotations",
		},
		[]string{"logger"},
	)

	// Используем Register вместо MustRegister для избежания panic.
	for _, c := range []prometheus.Collector{records, rotations} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}

	return &PrometheusCollector{
		config:    config,
		logger:    logger,
		registry:  registry,
		records:   records,
		rotations: rotations,
		instance:  instance,
	}, nil
}

// maxLabelLength — максимальная длина значения label для защиты от cardinality explosion.
const maxLabelLength = 128

// sanitizeLabel обрезает значение label до допустимой длины и заменяет
// контрольные символы, которые могут нарушить Prometheus text format.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)

	runes := []rune(clean)
	if len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}

// RecordEmitted увеличивает счётчик записей.
func (c *PrometheusCollector) RecordEmitted(logger, level string) {
	c.records.WithLabelValues(sanitizeLabel(logger), sanitizeLabel(level)).Inc()
}

// RecordRotation увеличивает счётчик ротаций.
func (c *PrometheusCollector) RecordRotation(logger string) {
	c.rotations.WithLabelValues(sanitizeLabel(logger)).Inc()
}

// Push отправляет метрики в Pushgateway.
// Возвращает nil даже при ошибке — ошибка метрик не критична для логирования.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if c.config.PushgatewayURL == "" {
		c.logger.Debug("metrics: pushgateway URL not configured, skipping push")
		return nil
	}

	select {
	case <-ctx.Done():
		c.logger.Debug("metrics push отменён")
		return nil
	default:
	}

	pusher := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance)

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	masked := urlutil.MaskURL(c.config.PushgatewayURL)
	if err := pusher.PushContext(pushCtx); err != nil {
		// push включает полный адрес в текст ошибки.
		raw := strings.TrimSuffix(c.config.PushgatewayURL, "/")
		c.logger.Error("ошибка отправки метрик в Pushgateway",
			"error", strings.ReplaceAll(err.Error(), raw, masked),
			"url", masked,
			"job", c.config.JobName,
		)
		return nil
	}

	c.logger.Info("метрики отправлены в Pushgateway",
		"url", masked,
		"job", c.config.JobName,
		"instance", c.instance,
	)
	return nil
}

// Registry возвращает внутренний registry для экспорта или проверки метрик.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

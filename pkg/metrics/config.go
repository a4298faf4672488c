package metrics

import (
	"time"

	"github.com/Kargones/logwriter/internal/pkg/urlutil"
)

// Config содержит настройки сбора метрик.
type Config struct {
	// Enabled — включены ли метрики (по умолчанию false).
	Enabled bool

	// Namespace — префикс имён метрик. По умолчанию: "logwriter".
	Namespace string

	// PushgatewayURL — URL Prometheus Pushgateway.
	// Пусто — метрики только собираются в registry, Push ничего не делает.
	PushgatewayURL string

	// JobName — имя job для группировки метрик. По умолчанию: "logwriter".
	JobName string

	// Timeout — таймаут HTTP запросов к Pushgateway. По умолчанию: 10 секунд.
	Timeout time.Duration

	// InstanceLabel — переопределение instance label.
	// Если пусто — используется hostname.
	InstanceLabel string
}

// Validate проверяет корректность конфигурации.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Namespace == "" {
		return ErrNamespaceRequired
	}
	if c.PushgatewayURL == "" {
		return nil
	}

	if _, ok := urlutil.Host(c.PushgatewayURL); !ok {
		return ErrPushgatewayURLInvalid
	}
	if c.JobName == "" {
		return ErrJobNameRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		Enabled:   false,
		Namespace: "logwriter",
		JobName:   "logwriter",
		Timeout:   10 * time.Second,
	}
}

// Package config загружает конфигурацию приложения logwriter из YAML файла
// и переменных окружения.
//
// Файл конфигурации задаётся флагом --config или переменной LOGWRITER_CONFIG.
// Переменные окружения LOGWRITER_* переопределяют значения из файла.
package config

import (
	"maps"
	"time"

	"github.com/Kargones/logwriter/internal/constants"
	"github.com/Kargones/logwriter/pkg/logwriter"
)

// Config — конфигурация приложения.
type Config struct {
	// Loggers — карты настроек логгеров в порядке создания.
	// Ключи совпадают с ключами logwriter.ParseOptions.
	Loggers []map[string]any `yaml:"loggers"`

	// Level переопределяет уровень всех логгеров (имя или число).
	Level string `yaml:"level" env:"LOGWRITER_LEVEL"`

	// Filename переопределяет файл логов первого логгера.
	Filename string `yaml:"filename" env:"LOGWRITER_FILENAME"`

	// Stdout переопределяет вывод первого логгера в консоль ("true"/"false").
	// Строка, чтобы отличать "не задано" от false.
	Stdout string `yaml:"stdout" env:"LOGWRITER_STDOUT"`

	// Watch включает наблюдение за файлом конфигурации.
	Watch bool `yaml:"watch" env:"LOGWRITER_WATCH"`

	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`

	// Path — путь к прочитанному файлу. Пусто, если файла не было.
	Path string `yaml:"-"`
}

// MetricsConfig содержит настройки Prometheus метрик.
type MetricsConfig struct {
	// Enabled — включены ли метрики (по умолчанию false).
	Enabled bool `yaml:"enabled" env:"LOGWRITER_METRICS_ENABLED"`

	// PushgatewayURL — URL Prometheus Pushgateway.
	// Пример: "http://pushgateway:9091"
	PushgatewayURL string `yaml:"pushgatewayUrl" env:"LOGWRITER_PUSHGATEWAY_URL"`

	// JobName — имя job для группировки метрик.
	JobName string `yaml:"jobName" env:"LOGWRITER_METRICS_JOB_NAME" env-default:"logwriter"`

	// Timeout — таймаут HTTP запросов к Pushgateway.
	Timeout time.Duration `yaml:"timeout" env:"LOGWRITER_METRICS_TIMEOUT" env-default:"10s"`

	// InstanceLabel — переопределение instance label.
	// Если пусто — используется hostname.
	InstanceLabel string `yaml:"instanceLabel" env:"LOGWRITER_METRICS_INSTANCE"`
}

// TracingConfig содержит настройки OpenTelemetry трейсинга.
type TracingConfig struct {
	// Enabled включает отправку трейсов в OTLP бэкенд.
	Enabled bool `yaml:"enabled" env:"LOGWRITER_TRACING_ENABLED"`

	// Endpoint — URL OTLP HTTP endpoint (например, http://jaeger:4318).
	Endpoint string `yaml:"endpoint" env:"LOGWRITER_TRACING_ENDPOINT"`

	// ServiceName — имя сервиса для resource attributes.
	ServiceName string `yaml:"serviceName" env:"LOGWRITER_TRACING_SERVICE_NAME" env-default:"logwriter"`

	// Environment — окружение (production, staging, development).
	Environment string `yaml:"environment" env:"LOGWRITER_TRACING_ENVIRONMENT" env-default:"production"`

	// Insecure — использовать HTTP вместо HTTPS для OTLP endpoint.
	Insecure bool `yaml:"insecure" env:"LOGWRITER_TRACING_INSECURE"`

	// Timeout — таймаут для экспорта трейсов.
	Timeout time.Duration `yaml:"timeout" env:"LOGWRITER_TRACING_TIMEOUT" env-default:"5s"`

	// SamplingRate — доля сэмплируемых трейсов (0.0 — ни один, 1.0 — все).
	SamplingRate float64 `yaml:"samplingRate" env:"LOGWRITER_TRACING_SAMPLING_RATE" env-default:"1.0"`
}

// LoggerOptions возвращает карты настроек логгеров с применёнными
// переопределениями. Исходные карты не изменяются.
// Если логгеры не описаны, возвращается один логгер с именем по умолчанию.
func (c *Config) LoggerOptions() []map[string]any {
	src := c.Loggers
	if len(src) == 0 {
		src = []map[string]any{{logwriter.OptName: constants.DefaultLoggerName}}
	}

	out := make([]map[string]any, len(src))
	for i, m := range src {
		opts := make(map[string]any, len(m)+3)
		maps.Copy(opts, m)
		if c.Level != "" {
			opts[logwriter.OptLevel] = c.Level
		}
		if i == 0 {
			if c.Filename != "" {
				opts[logwriter.OptFilename] = c.Filename
			}
			if c.Stdout != "" {
				opts[logwriter.OptStdout] = c.Stdout
			}
		}
		out[i] = opts
	}
	return out
}

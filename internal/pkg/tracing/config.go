package tracing

import (
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"

	"github.com/Kargones/logwriter/internal/pkg/urlutil"
)

// Ошибки конфигурации экспорта span-ов.
var (
	ErrEndpointRequired    = errors.New("tracing: не задан endpoint коллектора")
	ErrEndpointInvalid     = errors.New("tracing: endpoint должен быть абсолютным URL, например http://collector:4318")
	ErrServiceNameRequired = errors.New("tracing: не задано имя сервиса")
	ErrTimeoutInvalid      = errors.New("tracing: timeout экспорта должен быть больше нуля")
	ErrSamplingRateInvalid = errors.New("tracing: доля сэмплирования вне [0, 1]")
)

// Config описывает экспорт span-ов команд logwriter в OTLP коллектор.
type Config struct {
	Enabled bool

	// Endpoint — адрес OTLP/HTTP коллектора. Путь из адреса не используется,
	// экспортёр отправляет span-ы на /v1/traces.
	Endpoint string

	ServiceName string
	Version     string
	Environment string

	// Insecure отключает TLS при соединении с коллектором.
	Insecure bool

	Timeout time.Duration

	// SamplingRate — доля trace ID, span-ы которых экспортируются.
	SamplingRate float64
}

// DefaultConfig возвращает выключенный экспорт с настройками для logwriter.
func DefaultConfig() Config {
	return Config{
		ServiceName:  "logwriter",
		Environment:  "production",
		Timeout:      5 * time.Second,
		SamplingRate: 1.0,
	}
}

// Validate возвращает все найденные ошибки конфигурации сразу.
// Выключенная конфигурация всегда валидна.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	var errs []error
	switch _, ok := urlutil.Host(c.Endpoint); {
	case c.Endpoint == "":
		errs = append(errs, ErrEndpointRequired)
	case !ok:
		errs = append(errs, ErrEndpointInvalid)
	}
	if c.ServiceName == "" {
		errs = append(errs, ErrServiceNameRequired)
	}
	if c.Timeout <= 0 {
		errs = append(errs, ErrTimeoutInvalid)
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrSamplingRateInvalid, c.SamplingRate))
	}
	return errors.Join(errs...)
}

// exporterOptions переводит Config в опции otlptracehttp.
// WithEndpoint принимает только host:port.
func (c Config) exporterOptions() []otlptracehttp.Option {
	host, _ := urlutil.Host(c.Endpoint)
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(host),
		otlptracehttp.WithTimeout(c.Timeout),
	}
	if c.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts
}

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Kargones/logwriter/internal/constants"
	"github.com/Kargones/logwriter/pkg/apperrors"
)

// Load читает конфигурацию из path и переменных окружения.
// Пустой path — путь берётся из LOGWRITER_CONFIG; если и он пуст,
// читаются только переменные окружения.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(constants.EnvConfig)
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
				fmt.Sprintf("файл конфигурации %s недоступен", path), err)
		}
		// ReadConfig читает файл и затем переменные окружения.
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigParse,
				fmt.Sprintf("не удалось прочитать %s", path), err)
		}
		cfg.Path = path
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось прочитать переменные окружения", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "некорректная конфигурация", err)
	}
	return &cfg, nil
}

// Validate проверяет обязательные поля включённых подсистем.
func (c *Config) Validate() error {
	var errs []error
	if c.Metrics.Enabled && c.Metrics.Timeout <= 0 {
		errs = append(errs, errors.New("metrics: timeout должен быть положительным"))
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("tracing: endpoint обязателен при enabled=true"))
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("tracing: sampling rate должен быть от 0.0 до 1.0, получено: %g", c.Tracing.SamplingRate))
	}
	for i, m := range c.Loggers {
		if m == nil {
			errs = append(errs, fmt.Errorf("loggers[%d]: пустая запись", i))
		}
	}
	return errors.Join(errs...)
}

// Usage возвращает описание переменных окружения для справки CLI.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}

package logwriter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/Kargones/logwriter/pkg/apperrors"
)

// Ключи открытой карты настроек.
const (
	OptName          = "name"
	OptLevel         = "level"
	OptFormat        = "format"
	OptFormatStdout  = "format_stdout"
	OptStdout        = "stdout"
	OptFilename      = "filename"
	OptMaxBytes      = "maxBytes"
	OptBackupCount   = "backupCount"
	OptPrefix        = "prefix"
	OptDateFormat    = "datefmt"
	OptCompress      = "compress"
	OptColorize      = "colorize"
	OptSyslog        = "syslog"
	OptSyslogAddress = "syslog_address"
)

const optionsSchemaURL = "https://github.com/Kargones/logwriter/options.schema.json"

//go:embed options.schema.json
var optionsSchemaJSON []byte

var (
	optionsSchemaOnce sync.Once
	optionsSchema     *jsonschema.Schema
	optionsSchemaErr  error
)

// compiledSchema компилирует встроенную схему один раз за процесс.
func compiledSchema() (*jsonschema.Schema, error) {
	optionsSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(optionsSchemaJSON))
		if err != nil {
			optionsSchemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(optionsSchemaURL, doc); err != nil {
			optionsSchemaErr = err
			return
		}
		optionsSchema, optionsSchemaErr = compiler.Compile(optionsSchemaURL)
	})
	return optionsSchema, optionsSchemaErr
}

// validateOptions проверяет форму карты по JSON Schema.
// Карта проходит через JSON, чтобы валидатор видел те же типы, что и в файле.
func validateOptions(options map[string]any) error {
	schema, err := compiledSchema()
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrConfigParse, "не удалось скомпилировать схему настроек", err)
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrConfigValidate, "настройки не сериализуются в JSON", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrConfigValidate, "настройки не сериализуются в JSON", err)
	}
	if err := schema.Validate(doc); err != nil {
		return apperrors.NewAppError(apperrors.ErrConfigValidate, "настройки не соответствуют схеме", err)
	}
	return nil
}

// ParseOptions накладывает открытую карту настроек на base и возвращает
// строго типизированный Config.
//
// Сначала карта проверяется JSON Schema, затем значения приводятся к типам
// полей. Строковые представления чисел и булевых значений принимаются.
// Неизвестные ключи игнорируются. Любое значение, которое не удалось
// привести, даёт ошибку с кодом CONFIG.VALIDATION_FAILED.
func ParseOptions(base Config, options map[string]any) (Config, error) {
	cfg := base
	if len(options) == 0 {
		return cfg, nil
	}
	if err := validateOptions(options); err != nil {
		return base, err
	}

	var err error
	for key, value := range options {
		switch key {
		case OptName:
			cfg.Name, err = cast.ToStringE(value)
		case OptLevel:
			cfg.Level, err = ParseLevel(value)
		case OptFormat:
			cfg.Format, err = cast.ToStringE(value)
		case OptFormatStdout:
			cfg.FormatStdout, err = cast.ToStringE(value)
		case OptStdout:
			cfg.Stdout, err = cast.ToBoolE(value)
		case OptFilename:
			cfg.Filename, err = cast.ToStringE(value)
		case OptMaxBytes:
			cfg.MaxBytes, err = cast.ToInt64E(value)
		case OptBackupCount:
			cfg.BackupCount, err = cast.ToIntE(value)
		case OptPrefix:
			cfg.Prefix, err = cast.ToStringE(value)
		case OptDateFormat:
			cfg.DateFormat, err = cast.ToStringE(value)
		case OptCompress:
			cfg.Compress, err = cast.ToBoolE(value)
		case OptColorize:
			cfg.Colorize, err = cast.ToBoolE(value)
		case OptSyslog:
			cfg.Syslog, err = cast.ToBoolE(value)
		case OptSyslogAddress:
			cfg.SyslogAddress, err = cast.ToStringE(value)
		}
		if err != nil {
			return base, apperrors.NewAppError(apperrors.ErrConfigValidate,
				fmt.Sprintf("некорректное значение %q: %v", key, value), err)
		}
	}

	return cfg.normalize(), nil
}

// LoadOptions читает карту настроек из YAML.
func LoadOptions(r io.Reader) (map[string]any, error) {
	options := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&options); err != nil {
		if errors.Is(err, io.EOF) {
			return options, nil
		}
		return nil, apperrors.NewAppError(apperrors.ErrConfigParse, "не удалось разобрать YAML настроек", err)
	}
	return options, nil
}

// LoadOptionsFile читает карту настроек из YAML файла.
func LoadOptionsFile(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			fmt.Sprintf("не удалось открыть %s", path), err)
	}
	defer func() { _ = f.Close() }()
	return LoadOptions(f)
}

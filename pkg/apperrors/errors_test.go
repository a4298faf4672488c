package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"ErrConfigLoad", ErrConfigLoad, "CONFIG.LOAD_FAILED"},
		{"ErrConfigParse", ErrConfigParse, "CONFIG.PARSE_FAILED"},
		{"ErrConfigValidate", ErrConfigValidate, "CONFIG.VALIDATION_FAILED"},
		{"ErrSinkOpen", ErrSinkOpen, "SINK.OPEN_FAILED"},
		{"ErrSinkSyslog", ErrSinkSyslog, "SINK.SYSLOG_FAILED"},
		{"ErrWatch", ErrWatch, "WATCH.FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constant)
		})
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	cause := errors.New("permission denied")
	appErr := &AppError{
		Code:    ErrSinkOpen,
		Message: "не удалось открыть файл логов",
		Cause:   cause,
	}

	expected := "SINK.OPEN_FAILED: не удалось открыть файл логов (permission denied)"
	assert.Equal(t, expected, appErr.Error())
}

func TestAppError_Error_WithoutCause(t *testing.T) {
	appErr := &AppError{
		Code:    ErrConfigValidate,
		Message: "недопустимое значение level",
	}

	assert.Equal(t, "CONFIG.VALIDATION_FAILED: недопустимое значение level", appErr.Error())
}

func TestAppError_ErrorsIs(t *testing.T) {
	cause := errors.New("оригинальная ошибка")
	appErr := NewAppError(ErrConfigLoad, "не удалось загрузить конфигурацию", cause)

	// errors.Is должен найти wrapped ошибку
	assert.True(t, errors.Is(appErr, cause))
	assert.Nil(t, NewAppError(ErrConfigLoad, "x", nil).Unwrap())
}

func TestHasCode(t *testing.T) {
	appErr := NewAppError(ErrSinkSyslog, "syslog недоступен", nil)
	wrapped := fmt.Errorf("attach: %w", appErr)

	assert.True(t, HasCode(wrapped, ErrSinkSyslog))
	assert.False(t, HasCode(wrapped, ErrSinkOpen))
	assert.False(t, HasCode(errors.New("plain"), ErrSinkOpen))
	assert.False(t, HasCode(nil, ErrSinkOpen))
}

func TestAppError_JSON_Serialization(t *testing.T) {
	appErr := NewAppError(ErrConfigParse, "некорректный YAML", errors.New("line 3"))

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, ErrConfigParse, parsed["code"])
	assert.Equal(t, "некорректный YAML", parsed["message"])

	// Cause не должен сериализоваться (json:"-")
	_, hasCause := parsed["cause"]
	assert.False(t, hasCause, "Cause не должен сериализоваться в JSON")
}

// Package output форматирует результаты команд CLI в JSON и текстовом виде.
package output

import (
	"errors"

	"github.com/Kargones/logwriter/pkg/apperrors"
)

// StatusSuccess и StatusError — возможные значения поля Status в Result.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIVersion — текущая версия формата Result.
const APIVersion = "v1"

// Result представляет структурированный результат выполнения команды.
type Result struct {
	// Status содержит статус выполнения: "success" или "error".
	Status string `json:"status"`

	// Command содержит имя выполненной команды.
	Command string `json:"command"`

	// Data содержит payload конкретной команды.
	Data any `json:"data,omitempty"`

	// Error заполняется только при status="error".
	Error *ErrorInfo `json:"error,omitempty"`

	// Metadata содержит метаданные выполнения.
	Metadata *Metadata `json:"metadata,omitempty"`
}

// ErrorInfo содержит информацию об ошибке в структурированном виде.
// Code — код apperrors (например, "CONFIG.LOAD_FAILED") или "INTERNAL".
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata содержит метаданные выполнения команды.
type Metadata struct {
	// DurationMs — время выполнения команды в миллисекундах.
	DurationMs int64 `json:"duration_ms"`

	// TraceID — идентификатор трассировки, попавший в записи журнала.
	TraceID string `json:"trace_id,omitempty"`

	// APIVersion — версия формата Result.
	APIVersion string `json:"api_version"`
}

// CodeInternal — код ошибки без apperrors.AppError в цепочке.
const CodeInternal = "INTERNAL"

// NewErrorInfo строит ErrorInfo из ошибки, извлекая код apperrors.
func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return &ErrorInfo{Code: appErr.Code, Message: err.Error()}
	}
	return &ErrorInfo{Code: CodeInternal, Message: err.Error()}
}

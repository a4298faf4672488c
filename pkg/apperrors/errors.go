// Package apperrors предоставляет структурированные ошибки logwriter.
// Переименован из errors чтобы избежать конфликта со стандартной библиотекой.
package apperrors

import (
	"errors"
	"fmt"
)

// Коды ошибок в иерархическом формате: CATEGORY.SPECIFIC_ERROR.
// Позволяет grep по категориям: `grep "SINK\."` для всех ошибок приёмников.
const (
	// Category: CONFIG — ошибки загрузки, парсинга и валидации конфигурации.
	ErrConfigLoad     = "CONFIG.LOAD_FAILED"
	ErrConfigParse    = "CONFIG.PARSE_FAILED"
	ErrConfigValidate = "CONFIG.VALIDATION_FAILED"

	// Category: SINK — ошибки подключения приёмников логов.
	ErrSinkOpen   = "SINK.OPEN_FAILED"
	ErrSinkSyslog = "SINK.SYSLOG_FAILED"

	// Category: WATCH — ошибки наблюдения за файлом конфигурации.
	ErrWatch = "WATCH.FAILED"
)

// AppError представляет структурированную ошибку.
// Реализует error interface и поддерживает wrapping через Unwrap().
//
// Пример использования:
//
//	return apperrors.NewAppError(apperrors.ErrSinkOpen,
//	    "не удалось открыть файл логов",
//	    err)
type AppError struct {
	// Code — машиночитаемый код ошибки в формате CATEGORY.SPECIFIC.
	Code string `json:"code"`

	// Message — человекочитаемое описание ошибки.
	Message string `json:"message"`

	// Cause — wrapped оригинальная ошибка.
	Cause error `json:"-"`
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает wrapped ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError создаёт новый AppError с заданным кодом, сообщением и причиной.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode проверяет, содержит ли цепочка err AppError с указанным кодом.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

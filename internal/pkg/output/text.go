package output

import (
	"fmt"
	"io"
)

// Lines — Data, которое в текстовом виде выводится построчно без заголовка.
// Используется командами, у которых есть привычный построчный вывод.
type Lines interface {
	TextLines() []string
}

// TextWriter форматирует Result в человекочитаемый текст.
type TextWriter struct{}

// NewTextWriter создаёт новый TextWriter.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

// Write форматирует result в текст и записывает в w.
// Успешный результат с Data, реализующим Lines, выводится только строками Data.
// Остальные результаты выводятся как "<команда>: <статус>" и поля ниже.
func (t *TextWriter) Write(w io.Writer, result *Result) error {
	if result == nil {
		return nil
	}

	if lines, ok := result.Data.(Lines); ok && result.Status == StatusSuccess {
		for _, line := range lines.TextLines() {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "%s: %s\n", result.Command, result.Status); err != nil {
		return err
	}
	if result.Error != nil {
		if _, err := fmt.Fprintf(w, "Error [%s]: %s\n", result.Error.Code, result.Error.Message); err != nil {
			return err
		}
	}
	if lines, ok := result.Data.(Lines); ok {
		for _, line := range lines.TextLines() {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	} else if result.Data != nil {
		if _, err := fmt.Fprintf(w, "Data: %+v\n", result.Data); err != nil {
			return err
		}
	}
	if result.Metadata != nil && result.Metadata.TraceID != "" {
		if _, err := fmt.Fprintf(w, "Trace: %s\n", result.Metadata.TraceID); err != nil {
			return err
		}
	}
	return nil
}

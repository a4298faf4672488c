// Package argfmt превращает позиционные и именованные аргументы в
// человекочитаемую строку для отладочных сообщений.
//
// Именованный аргумент задаётся через KV:
//
//	argfmt.Format(1, "a", argfmt.KV("user", "bob"))
//	// 1, "a", user=bob
//
// Аргументы, имя которых начинается с "_", считаются управляющими и в
// вывод не попадают.
package argfmt

import (
	"fmt"
	"strings"

	"github.com/Kargones/logwriter/pkg/textdecode"
)

// ControlPrefix — префикс имён управляющих аргументов.
const ControlPrefix = "_"

// Field — именованный аргумент.
type Field struct {
	Key   string
	Value any
}

// KV создаёт именованный аргумент.
func KV(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// IsControl сообщает, что аргумент управляющий.
func (f Field) IsControl() bool {
	return strings.HasPrefix(f.Key, ControlPrefix)
}

// Split разделяет аргументы на позиционные и именованные, сохраняя порядок.
func Split(args []any) (positional []any, fields []Field) {
	for _, a := range args {
		switch f := a.(type) {
		case Field:
			fields = append(fields, f)
		case *Field:
			if f != nil {
				fields = append(fields, *f)
			}
		default:
			positional = append(positional, a)
		}
	}
	return positional, fields
}

// Lookup ищет именованный аргумент по ключу. Побеждает первый найденный.
func Lookup(args []any, key string) (any, bool) {
	_, fields := Split(args)
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Format рендерит сначала позиционные аргументы через Repr, затем именованные
// как key=value. Записи разделяются ", ".
func Format(args ...any) string {
	positional, fields := Split(args)
	parts := make([]string, 0, len(positional)+len(fields))
	for _, v := range positional {
		parts = append(parts, Repr(v))
	}
	for _, f := range fields {
		if f.IsControl() {
			continue
		}
		parts = append(parts, textdecode.DecodeValue(f.Key).Text+"="+Text(f.Value))
	}
	return strings.Join(parts, ", ")
}

// Text возвращает текстовое представление значения, декодируя байты.
func Text(v any) string {
	res := textdecode.DecodeValue(v)
	if !res.Valid {
		return fmt.Sprintf("%q", v)
	}
	return res.Text
}

// Repr возвращает отладочное представление значения в синтаксисе Go.
func Repr(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", t)
	case []byte:
		return fmt.Sprintf("%q", t)
	case error:
		return fmt.Sprintf("error(%q)", t.Error())
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%#v", t)
	}
}

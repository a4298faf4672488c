package argfmt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestFormat_Empty проверяет что пустой ввод даёт пустую строку.
func TestFormat_Empty(t *testing.T) {
	assert.Equal(t, "", Format())
}

// TestFormat_PositionalAndFields проверяет порядок: позиционные, затем именованные.
func TestFormat_PositionalAndFields(t *testing.T) {
	got := Format(KV("x", 1), "test", 2, KV("name", []byte("bob")))

	assert.Equal(t, `"test", 2, x=1, name=bob`, got)
}

// TestFormat_SkipsControlFields проверяет что поля с префиксом "_" не выводятся
// ни при каком сочетании аргументов.
func TestFormat_SkipsControlFields(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"only_control", []any{KV("_func_name", "f")}, ""},
		{"mixed", []any{1, KV("_frame", "x"), KV("a", 2)}, "1, a=2"},
		{"control_positional_string", []any{"_not_a_key", KV("_time_elapsed", 1.5)}, `"_not_a_key"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.args...)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "_func_name")
			assert.NotContains(t, got, "_frame=")
			assert.NotContains(t, got, "_time_elapsed")
		})
	}
}

// TestFormat_PointerField проверяет поддержку *Field.
func TestFormat_PointerField(t *testing.T) {
	f := KV("k", "v")
	var nilField *Field

	assert.Equal(t, "k=v", Format(&f, nilField))
}

// TestRepr проверяет отладочное представление значений.
func TestRepr(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "nil"},
		{"string", "a\tb", `"a\tb"`},
		{"bytes", []byte("xy"), `"xy"`},
		{"int", 7, "7"},
		{"bool", true, "true"},
		{"error", errors.New("boom"), `error("boom")`},
		{"duration", 2 * time.Second, "2s"},
		{"slice", []int{1, 2}, "[]int{1, 2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Repr(tt.value))
		})
	}
}

// TestLookup проверяет поиск управляющего аргумента.
func TestLookup(t *testing.T) {
	args := []any{1, KV("_func_name", "first"), KV("_func_name", "second")}

	v, ok := Lookup(args, "_func_name")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	_, ok = Lookup(args, "_missing")
	assert.False(t, ok)
}

// TestFormatElapsed проверяет формат HH:MM:SS.mmm.
func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "00:00:00.000"},
		{3661.5, "01:01:01.500"},
		{59.9994, "00:00:59.999"},
		{90000, "25:00:00.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.sec))
	}
}

// TestElapsedText проверяет разные типы значений времени.
func TestElapsedText(t *testing.T) {
	assert.Equal(t, "01:01:01.500", ElapsedText(3661.5))
	assert.Equal(t, "00:01:00.000", ElapsedText(60))
	assert.Equal(t, "01:01:01.500", ElapsedText("3661.5"))
	assert.Equal(t, "00:00:02.000", ElapsedText(2*time.Second))
	assert.Equal(t, "soon", ElapsedText("soon"))
	assert.True(t, strings.HasPrefix(ElapsedText(true), "true"))
}

// TestParseSeconds проверяет разложение секунд.
func TestParseSeconds(t *testing.T) {
	span := ParseSeconds(90061.25)

	assert.Equal(t, 1, span.Days)
	assert.Equal(t, 1, span.Hours)
	assert.Equal(t, 1, span.Minutes)
	assert.InDelta(t, 1.25, span.Seconds, 1e-9)
}

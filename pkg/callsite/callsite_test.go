package callsite

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureFromHelper(skip int) (Record, bool) {
	return Capture(skip)
}

// TestCapture_Self проверяет что skip=0 указывает на вызывающую функцию.
func TestCapture_Self(t *testing.T) {
	_, _, wantLine, _ := runtime.Caller(0)
	rec, ok := Capture(0)

	require.True(t, ok)
	assert.Equal(t, wantLine+1, rec.Line)
	assert.Equal(t, "callsite_test", rec.Stem())
	assert.Equal(t, "TestCapture_Self", rec.Function)
}

// TestCapture_SkipHelper проверяет пропуск промежуточного кадра.
func TestCapture_SkipHelper(t *testing.T) {
	rec, ok := captureFromHelper(1)

	require.True(t, ok)
	assert.Equal(t, "TestCapture_SkipHelper", rec.Function)

	rec, ok = captureFromHelper(0)
	require.True(t, ok)
	assert.Equal(t, "captureFromHelper", rec.Function)
}

// TestCapture_TooDeep проверяет что слишком большая глубина возвращает ok=false.
func TestCapture_TooDeep(t *testing.T) {
	rec, ok := Capture(10000)

	assert.False(t, ok)
	assert.True(t, rec.IsZero())
}

// TestShortFuncName проверяет отрезание пути пакета.
func TestShortFuncName(t *testing.T) {
	tests := []struct {
		full string
		want string
	}{
		{"github.com/Kargones/logwriter/pkg/logwriter.(*Logger).Debug", "(*Logger).Debug"},
		{"main.main", "main"},
		{"github.com/x/y.TestA.func1", "TestA.func1"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			assert.Equal(t, tt.want, shortFuncName(tt.full))
		})
	}
}

// TestAt проверяет явное задание места вызова.
func TestAt(t *testing.T) {
	rec := At("/src/app/main.go", 42, "run")

	assert.Equal(t, "main", rec.Stem())
	assert.Equal(t, 42, rec.Line)
	assert.False(t, rec.IsZero())
}

// TestBasename проверяет разбиение пути.
func TestBasename(t *testing.T) {
	path := filepath.Join("var", "log", "app.tar.gz")
	f := Basename(path)

	assert.Equal(t, filepath.Join("var", "log"), f.Dir)
	assert.Equal(t, "app.tar.gz", f.Filename)
	assert.Equal(t, "app.tar", f.Basename)
	assert.Equal(t, ".gz", f.Extension)

	empty := Basename("")
	assert.Equal(t, "", empty.Filename)
	assert.Equal(t, "", empty.Extension)
}

func TestFromPC(t *testing.T) {
	_, ok := FromPC(0)
	assert.False(t, ok)

	pcs := make([]uintptr, 1)
	require.Equal(t, 1, runtime.Callers(1, pcs))
	rec, ok := FromPC(pcs[0])
	require.True(t, ok)
	assert.Equal(t, "callsite_test", rec.Stem())
	assert.Equal(t, "TestFromPC", rec.Function)
}

// Package testutil содержит общие утилиты для тестов, которым нужны
// стандартные потоки процесса: приёмники и реестр логгеров по умолчанию
// пишут в os.Stdout и os.Stderr.
package testutil

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// CaptureStdout выполняет fn, перехватывая os.Stdout, и возвращает вывод.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stdout, fn)
}

// CaptureStderr выполняет fn, перехватывая os.Stderr, и возвращает вывод.
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stderr, fn)
}

// capture подменяет *stream на pipe на время fn.
// Вывод читается в отдельной горутине, чтобы fn не блокировался на
// заполненном буфере pipe.
func capture(t *testing.T, stream **os.File, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err, "не удалось создать pipe")

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r) //nolint:errcheck // чтение до закрытия w
		done <- buf.String()
	}()

	old := *stream
	*stream = w
	defer func() { *stream = old }()

	fn()

	_ = w.Close() //nolint:errcheck // test helper pipe close
	out := <-done
	_ = r.Close()
	return out
}

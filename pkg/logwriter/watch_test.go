package logwriter

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/logwriter/pkg/apperrors"
)

// TestWatchConfig_AppliesLevel проверяет применение уровня из изменённого файла.
func TestWatchConfig_AppliesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: INFO\n"), 0600))

	l, _ := newConsoleLogger(t, LevelInfo)
	sink := l.Sinks()[0]

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchConfig(ctx, path, l, nil) }()

	// Перезаписываем файл, пока наблюдатель не увидит изменение.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("level: DEBUG\nfilename: ignored.log\n"), 0600)
		return l.Level() == LevelDebug
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, LevelDebug, sink.Level())
	assert.Len(t, l.Sinks(), 1)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("WatchConfig не завершился после отмены контекста")
	}
}

// TestWatchConfig_ReportsErrors проверяет передачу ошибок разбора в onError.
func TestWatchConfig_ReportsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: INFO\n"), 0600))

	l, _ := newConsoleLogger(t, LevelInfo)

	var (
		mu   sync.Mutex
		errs []error
	)
	onError := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = WatchConfig(ctx, path, l, onError) }()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("level: loud\n"), 0600)
		mu.Lock()
		defer mu.Unlock()
		return len(errs) > 0
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	assert.True(t, apperrors.HasCode(errs[0], apperrors.ErrConfigValidate) ||
		apperrors.HasCode(errs[0], apperrors.ErrConfigParse))
	mu.Unlock()
	assert.Equal(t, LevelInfo, l.Level())
}

// TestWatchConfig_MissingDir проверяет ошибку для несуществующего каталога.
func TestWatchConfig_MissingDir(t *testing.T) {
	l, _ := newConsoleLogger(t, LevelInfo)
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "no", "log.yaml"), l, nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrWatch))
}

package logwriter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Kargones/logwriter/pkg/apperrors"
)

// WatchConfig следит за YAML файлом настроек и при каждом изменении
// применяет уровень из него через SetLevel. Остальные ключи игнорируются:
// приёмники после создания не пересоздаются.
//
// Наблюдение ведётся за каталогом, чтобы переживать атомарную замену файла
// редакторами. Ошибки чтения и разбора передаются в onError (может быть nil),
// наблюдение продолжается. Блокирует вызывающего до отмены ctx.
func WatchConfig(ctx context.Context, path string, l *Logger, onError func(error)) error {
	if onError == nil {
		onError = func(error) {}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrWatch, fmt.Sprintf("некорректный путь %s", path), err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrWatch, "не удалось создать наблюдатель", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return apperrors.NewAppError(apperrors.ErrWatch,
			fmt.Sprintf("не удалось наблюдать за %s", filepath.Dir(abs)), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := applyLevelFromFile(abs, l); err != nil {
				onError(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(apperrors.NewAppError(apperrors.ErrWatch, "ошибка наблюдателя", err))
		}
	}
}

func applyLevelFromFile(path string, l *Logger) error {
	options, err := LoadOptionsFile(path)
	if err != nil {
		return err
	}
	if _, ok := options[OptLevel]; !ok {
		return nil
	}
	cfg, err := ParseOptions(l.Config(), map[string]any{OptLevel: options[OptLevel]})
	if err != nil {
		return err
	}
	if cfg.Level != l.Level() {
		l.SetLevel(cfg.Level)
	}
	return nil
}

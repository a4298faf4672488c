// Package logwriter — именованный логгер поверх log/slog с нормализованной
// конфигурацией, приёмниками (консоль, файл с ротацией, syslog) и
// отладочными помощниками, которые добавляют место вызова.
//
// Создание логгера:
//
//	reg := logwriter.NewRegistry()
//	l, err := logwriter.NewFromOptions("app", logwriter.LevelDebug,
//	    map[string]any{"filename": "logs/app.log", "maxBytes": "1048576"},
//	    logwriter.WithRegistry(reg))
//	if err != nil {
//	    return err
//	}
//	defer l.Close()
//
// Отладочные якоря:
//
//	l.DebugAnchorBegin(argfmt.KV("x", 1))
//	defer func(start time.Time) {
//	    l.DebugAnchorEnd(result, logwriter.Elapsed(time.Since(start)))
//	}(time.Now())
//
// Поиск логгера в реестре:
//
//	l := reg.Lookup("app")
package logwriter

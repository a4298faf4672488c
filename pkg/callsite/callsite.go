// Package callsite определяет место вызова (файл, строку и функцию) для
// аннотации отладочных сообщений.
package callsite

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Record описывает место вызова.
type Record struct {
	File     string
	Line     int
	Function string
}

// Capture возвращает место вызова на глубине skip.
// skip=0 — функция, вызвавшая Capture; skip=1 — её вызывающая сторона и т.д.
// Возвращает ok=false, если глубина превышает размер стека.
func Capture(skip int) (Record, bool) {
	if skip < 0 {
		skip = 0
	}
	pcs := make([]uintptr, 1)
	// +2: runtime.Callers и сама Capture
	if runtime.Callers(skip+2, pcs) == 0 {
		return Record{}, false
	}
	return FromPC(pcs[0])
}

// FromPC разворачивает счётчик команд в Record.
// Используется для slog.Record.PC.
func FromPC(pc uintptr) (Record, bool) {
	if pc == 0 {
		return Record{}, false
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.PC == 0 && frame.File == "" {
		return Record{}, false
	}
	return Record{
		File:     frame.File,
		Line:     frame.Line,
		Function: shortFuncName(frame.Function),
	}, true
}

// At создаёт Record явно, когда стек недоступен или место вызова известно заранее.
func At(file string, line int, function string) Record {
	return Record{File: file, Line: line, Function: function}
}

// IsZero сообщает, что запись не заполнена.
func (r Record) IsZero() bool {
	return r.File == "" && r.Line == 0 && r.Function == ""
}

// Stem возвращает имя файла без каталога и расширения.
func (r Record) Stem() string {
	return Basename(r.File).Basename
}

// shortFuncName отрезает путь импорта пакета:
// "github.com/x/y/pkg.(*T).Method" -> "(*T).Method".
func shortFuncName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.Index(full, "."); i >= 0 && i+1 < len(full) {
		return full[i+1:]
	}
	return full
}

// File — составные части пути к файлу.
type File struct {
	Dir       string
	Filename  string
	Basename  string
	Extension string
}

// Basename разбивает path на каталог, имя файла, имя без расширения и расширение.
func Basename(path string) File {
	filename := filepath.Base(path)
	if path == "" {
		filename = ""
	}
	ext := filepath.Ext(filename)
	return File{
		Dir:       filepath.Dir(path),
		Filename:  filename,
		Basename:  strings.TrimSuffix(filename, ext),
		Extension: ext,
	}
}

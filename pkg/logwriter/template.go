package logwriter

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/Kargones/logwriter/pkg/argfmt"
	"github.com/Kargones/logwriter/pkg/callsite"
)

// recordData — поля, доступные в шаблоне формата.
type recordData struct {
	Time    string
	Name    string
	Level   string
	LevelNo int
	// Message — текст записи вместе с атрибутами " key=value".
	Message string
	// Msg — текст записи без атрибутов.
	Msg   string
	Attrs map[string]any
	File  string
	Line  int
	Func  string
	PID   int
}

// legacyFields — соответствие старых плейсхолдеров %(field)s полям шаблона.
var legacyFields = map[string]string{
	"asctime":   ".Time",
	"name":      ".Name",
	"levelname": ".Level",
	"levelno":   ".LevelNo",
	"message":   ".Message",
	"filename":  ".File",
	"lineno":    ".Line",
	"funcName":  ".Func",
	"process":   ".PID",
}

var legacyPattern = regexp.MustCompile(`%\((\w+)\)[-#0 +]*\d*(?:\.\d+)?[sdifr]`)

// translateLegacy переводит плейсхолдеры вида %(asctime)s в синтаксис text/template.
// Неизвестные плейсхолдеры остаются как есть.
func translateLegacy(format string) string {
	if !strings.Contains(format, "%(") {
		return format
	}
	return legacyPattern.ReplaceAllStringFunc(format, func(m string) string {
		name := legacyPattern.FindStringSubmatch(m)[1]
		if field, ok := legacyFields[name]; ok {
			return "{{" + field + "}}"
		}
		return m
	})
}

// formatter рендерит slog.Record по шаблону. Общий для всех приёмников логгера.
type formatter struct {
	tmpl    *template.Template
	datefmt string
	// paintLevel раскрашивает имя уровня, nil — без раскраски.
	paintLevel func(Level) string
}

// newFormatter компилирует шаблон с функциями sprig.
func newFormatter(format, datefmt string) (*formatter, error) {
	if datefmt == "" {
		datefmt = DefaultDateFormat
	}
	tmpl, err := template.New("record").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=zero").
		Parse(translateLegacy(format))
	if err != nil {
		return nil, fmt.Errorf("некорректный шаблон формата %q: %w", format, err)
	}
	return &formatter{tmpl: tmpl, datefmt: datefmt}, nil
}

// formatTime рендерит время записи.
func (f *formatter) formatTime(t time.Time) string {
	return t.Format(f.datefmt)
}

// format возвращает строку записи без завершающего перевода строки.
// attrs — атрибуты, накопленные через WithAttrs, они идут перед атрибутами записи.
func (f *formatter) format(name string, r slog.Record, attrs []slog.Attr, group string) (string, error) {
	data := recordData{
		Time:    f.formatTime(r.Time),
		Name:    name,
		Level:   Level(r.Level).String(),
		LevelNo: int(r.Level),
		Msg:     r.Message,
		Attrs:   make(map[string]any),
		PID:     os.Getpid(),
	}
	if f.paintLevel != nil {
		data.Level = f.paintLevel(Level(r.Level))
	}
	if rec, ok := callsite.FromPC(r.PC); ok {
		data.File = rec.File
		data.Line = rec.Line
		data.Func = rec.Function
	}

	var msg strings.Builder
	msg.WriteString(r.Message)
	appendAttr := func(prefix string, a slog.Attr) {
		flattenAttr(prefix, a, func(key string, v any) {
			data.Attrs[key] = v
			msg.WriteString(" ")
			msg.WriteString(key)
			msg.WriteString("=")
			msg.WriteString(argfmt.Text(v))
		})
	}
	for _, a := range attrs {
		appendAttr("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(group, a)
		return true
	})
	data.Message = msg.String()

	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// flattenAttr раскрывает группы в ключи вида "group.key".
func flattenAttr(prefix string, a slog.Attr, emit func(key string, v any)) {
	v := a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			flattenAttr(key, ga, emit)
		}
		return
	}
	emit(key, v.Any())
}

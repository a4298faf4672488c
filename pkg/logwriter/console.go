package logwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// streamWriter пишет записи в произвольный поток построчно.
type streamWriter struct {
	w io.Writer
}

func (s streamWriter) writeRecord(_ Level, line string) error {
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// Close не закрывает поток: им владеет вызывающая сторона.
func (s streamWriter) Close() error { return nil }

// streamName возвращает человекочитаемое имя потока для Sink.Target.
func streamName(w io.Writer) string {
	switch w {
	case os.Stdout:
		return "stdout"
	case os.Stderr:
		return "stderr"
	}
	if f, ok := w.(interface{ Name() string }); ok {
		return f.Name()
	}
	return fmt.Sprintf("%T", w)
}

// levelColors — цвета имён уровней в консоли (ANSI 256).
var levelColors = map[Level]lipgloss.Color{
	LevelDebug:    lipgloss.Color("8"),
	LevelInfo:     lipgloss.Color("12"),
	LevelWarning:  lipgloss.Color("11"),
	LevelError:    lipgloss.Color("9"),
	LevelCritical: lipgloss.Color("13"),
}

// levelPainter возвращает функцию раскраски имени уровня для потока w.
// Профиль цвета определяется по самому потоку, поэтому в файл или буфер
// escape-последовательности не попадают.
func levelPainter(w io.Writer) func(Level) string {
	renderer := lipgloss.NewRenderer(w)
	styles := make(map[Level]lipgloss.Style, len(levelColors))
	for lvl, color := range levelColors {
		styles[lvl] = renderer.NewStyle().Foreground(color).Bold(lvl >= LevelError)
	}
	return func(level Level) string {
		style, ok := styles[level]
		if !ok {
			return level.String()
		}
		return style.Render(level.String())
	}
}

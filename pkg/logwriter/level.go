package logwriter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cast"
)

// Level — уровень важности записи. Значения совпадают с общепринятой
// шкалой: чем больше число, тем важнее запись.
type Level int

// Фиксированные уровни.
const (
	LevelNotSet   Level = 0
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50
)

// String возвращает имя уровня. Для нестандартных значений — "Level N".
func (l Level) String() string {
	switch l {
	case LevelNotSet:
		return "NOTSET"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("Level %d", int(l))
	}
}

// Slog возвращает значение для slog. Число переносится без изменений,
// поэтому фильтрация по нестандартным уровням остаётся точной.
func (l Level) Slog() slog.Level {
	return slog.Level(l)
}

// FromSlog переводит уровень шкалы slog (DEBUG=-4, INFO=0, WARN=4, ERROR=8)
// в Level. Промежуточные значения переводятся пропорционально.
func FromSlog(l slog.Level) Level {
	return Level(int(LevelInfo) + int(l)*5/2)
}

// levelNames — допустимые имена уровней (регистр не важен).
var levelNames = map[string]Level{
	"NOTSET":   LevelNotSet,
	"DEBUG":    LevelDebug,
	"INFO":     LevelInfo,
	"WARN":     LevelWarning,
	"WARNING":  LevelWarning,
	"ERROR":    LevelError,
	"CRITICAL": LevelCritical,
	"FATAL":    LevelCritical,
}

// ParseLevel приводит значение из внешнего источника к Level.
// Принимает Level, целые числа, числовые строки и имена уровней.
func ParseLevel(v any) (Level, error) {
	switch t := v.(type) {
	case Level:
		return t, nil
	case slog.Level:
		return FromSlog(t), nil
	case string:
		if lvl, ok := levelNames[strings.ToUpper(strings.TrimSpace(t))]; ok {
			return lvl, nil
		}
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("неизвестный уровень %v: %w", v, err)
	}
	return Level(n), nil
}

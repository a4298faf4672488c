package argfmt

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"
)

// Span — интервал, разложенный на дни, часы, минуты и секунды.
type Span struct {
	Days    int
	Hours   int
	Minutes int
	Seconds float64
}

// ParseSeconds раскладывает количество секунд на дни, часы, минуты и остаток секунд.
func ParseSeconds(sec float64) Span {
	days := math.Floor(sec / 86400)
	rest := sec - days*86400
	hours := math.Floor(rest / 3600)
	rest -= hours * 3600
	minutes := math.Floor(rest / 60)
	rest -= minutes * 60
	return Span{
		Days:    int(days),
		Hours:   int(hours),
		Minutes: int(minutes),
		Seconds: rest,
	}
}

// FormatElapsed форматирует секунды как HH:MM:SS.mmm.
// Часы не ограничены сверху: 90000 секунд дают "25:00:00.000".
func FormatElapsed(sec float64) string {
	hours := math.Floor(sec / 3600)
	rest := sec - hours*3600
	minutes := math.Floor(rest / 60)
	rest -= minutes * 60
	return fmt.Sprintf("%02d:%02d:%06.3f", int(hours), int(minutes), rest)
}

// ElapsedText форматирует значение затраченного времени.
// Числа, числовые строки и time.Duration переводятся в HH:MM:SS.mmm,
// остальные значения выводятся как есть.
func ElapsedText(v any) string {
	switch t := v.(type) {
	case time.Duration:
		return FormatElapsed(t.Seconds())
	case string:
		sec, err := cast.ToFloat64E(t)
		if err != nil {
			return t
		}
		return FormatElapsed(sec)
	case float64, float32, int, int64, int32, uint, uint64, uint32:
		return FormatElapsed(cast.ToFloat64(t))
	default:
		return Text(v)
	}
}

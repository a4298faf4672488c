// Package textdecode определяет кодировку текста перебором фиксированного
// списка кандидатов.
//
// Порядок кандидатов неизменен: более ранние кодировки могут «успешно»
// декодировать байты, предназначенные для более поздних (например, utf_8
// принимает любые ASCII байты), поэтому результат детерминирован только при
// фиксированном порядке.
//
// Пример использования:
//
//	res := textdecode.Decode(raw)
//	if !res.Valid {
//	    // ни одна кодировка не подошла
//	}
//	fmt.Println(res.Text, res.Encoding)
package textdecode

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// Имена кодировок в порядке перебора.
const (
	UTF8      = "utf_8"
	EUCJP     = "euc_jp"
	ShiftJIS  = "shift_jis"
	ISO2022JP = "iso2022jp"
	Latin1    = "latin_1"
	CP1252    = "cp1252"
	CP437     = "cp437"
	ASCII     = "ascii"
)

// Result — результат определения кодировки.
// Valid=false означает, что ни один кандидат не подошёл и Text пуст.
// Encoding пуст, если значение уже было текстом.
type Result struct {
	Text     string
	Encoding string
	Valid    bool
}

// Candidate — кодировка-кандидат.
type Candidate struct {
	Name   string
	decode func([]byte) (string, bool)
}

// Decode пытается декодировать raw этим кандидатом.
func (c Candidate) Decode(raw []byte) (string, bool) {
	return c.decode(raw)
}

// NewCandidate создаёт кандидата на основе x/text encoding.Encoding.
// Декодирование считается неудачным, если декодер вставил U+FFFD.
func NewCandidate(name string, enc encoding.Encoding) Candidate {
	return Candidate{Name: name, decode: func(raw []byte) (string, bool) {
		out, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return "", false
		}
		if strings.ContainsRune(string(out), utf8.RuneError) {
			return "", false
		}
		return string(out), true
	}}
}

var defaultCandidates = []Candidate{
	{Name: UTF8, decode: decodeUTF8},
	NewCandidate(EUCJP, japanese.EUCJP),
	NewCandidate(ShiftJIS, japanese.ShiftJIS),
	NewCandidate(ISO2022JP, japanese.ISO2022JP),
	NewCandidate(Latin1, charmap.ISO8859_1),
	NewCandidate(CP1252, charmap.Windows1252),
	NewCandidate(CP437, charmap.CodePage437),
	{Name: ASCII, decode: decodeASCII},
}

// Candidates возвращает имена кандидатов в порядке перебора.
func Candidates() []string {
	names := make([]string, len(defaultCandidates))
	for i, c := range defaultCandidates {
		names[i] = c.Name
	}
	return names
}

// Decode перебирает кандидатов и возвращает первое успешное декодирование.
func Decode(raw []byte) Result {
	return DecodeWith(raw, defaultCandidates)
}

// DecodeWith перебирает указанный список кандидатов по порядку.
// Если все кандидаты не подошли, возвращает Valid=false и имя последнего.
func DecodeWith(raw []byte, candidates []Candidate) Result {
	last := ""
	for _, c := range candidates {
		last = c.Name
		if text, ok := c.decode(raw); ok {
			return Result{Text: text, Encoding: c.Name, Valid: true}
		}
	}
	return Result{Encoding: last}
}

// DecodeValue декодирует произвольное значение.
// Строки уже являются текстом и возвращаются без изменений.
func DecodeValue(v any) Result {
	switch t := v.(type) {
	case string:
		return Result{Text: t, Valid: true}
	case []byte:
		return Decode(t)
	case nil:
		return Result{Text: "<nil>", Valid: true}
	default:
		return Result{Text: fmt.Sprint(t), Valid: true}
	}
}

func decodeUTF8(raw []byte) (string, bool) {
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

func decodeASCII(raw []byte) (string, bool) {
	for _, b := range raw {
		if b >= utf8.RuneSelf {
			return "", false
		}
	}
	return string(raw), true
}

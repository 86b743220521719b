package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Kind tells how a cell value should be copied.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDate:
		return "date"
	default:
		return "empty"
	}
}

// Value is a typed cell value.
type Value struct {
	Kind Kind
	Text string
	Time time.Time
}

// Built-in number formats that render a calendar date. Time-only formats
// (18-21, 45-47) are not listed: those cells are copied as text.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// ISO 8601 layouts excelize stores in t="d" cells.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// dateValue decides whether the raw value of a cell is a date.
func (w *Workbook) dateValue(sheet, cell, raw string) (time.Time, bool, error) {
	typ, err := w.file.GetCellType(sheet, cell)
	if err != nil {
		return time.Time{}, false, err
	}

	switch typ {
	case excelize.CellTypeDate:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, true, nil
			}
		}
		return time.Time{}, false, nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
	default:
		return time.Time{}, false, nil
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	isDate, err := w.hasDateFormat(sheet, cell)
	if err != nil || !isDate {
		return time.Time{}, false, err
	}
	t, err := excelize.ExcelDateToTime(serial, w.date1904)
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (w *Workbook) hasDateFormat(sheet, cell string) (bool, error) {
	id, err := w.file.GetCellStyle(sheet, cell)
	if err != nil || id == 0 {
		return false, err
	}
	style, err := w.file.GetStyle(id)
	if err != nil {
		return false, err
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt), nil
	}
	return builtinDateFormats[style.NumFmt], nil
}

// isDateFormatCode reports whether a custom number format renders a calendar
// date. Quoted literals, escaped characters and bracketed sections such as
// colors or locales are ignored. A format made only of hour, minute and
// second tokens is a time of day, not a date.
func isDateFormatCode(code string) bool {
	if strings.EqualFold(code, "general") {
		return false
	}

	var tokens []rune
	runes := []rune(code)
	inQuote, inBracket, escaped := false, false, false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			if r == ']' {
				inBracket = false
			}
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case hasFoldPrefix(runes[i:], "am/pm"):
			i += len("am/pm") - 1
		case hasFoldPrefix(runes[i:], "a/p"):
			i += len("a/p") - 1
		default:
			switch r {
			case 'y', 'Y', 'd', 'D', 'm', 'M', 'h', 'H', 's', 'S':
				r |= 0x20 // lower case
				if n := len(tokens); n == 0 || tokens[n-1] != r {
					tokens = append(tokens, r)
				}
			}
		}
	}

	for i, r := range tokens {
		switch r {
		case 'y', 'd':
			return true
		case 'm':
			// "m" next to an hour or second token is minutes.
			afterHour := i > 0 && tokens[i-1] == 'h'
			beforeSecond := i+1 < len(tokens) && tokens[i+1] == 's'
			if !afterHour && !beforeSecond {
				return true
			}
		}
	}
	return false
}

func hasFoldPrefix(runes []rune, prefix string) bool {
	return len(runes) >= len(prefix) && strings.EqualFold(string(runes[:len(prefix)]), prefix)
}

// Package dateparse resolves free-text Brazilian Portuguese period
// expressions ("julho 2025", "07/2025", "2025-07") into calendar dates.
package dateparse

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Parser resolves a free-text date expression. The boolean is false when
// the text does not describe a date.
type Parser interface {
	Parse(text string) (time.Time, bool)
}

// PTBR is a Parser for pt-BR month-name and day-first numeric expressions.
type PTBR struct {
	// Now supplies the reference date for year-less expressions such as
	// "julho". Defaults to time.Now.
	Now func() time.Time
}

var monthNames = map[string]time.Month{
	"janeiro": time.January, "jan": time.January,
	"fevereiro": time.February, "fev": time.February,
	"marco": time.March, "mar": time.March,
	"abril": time.April, "abr": time.April,
	"maio": time.May, "mai": time.May,
	"junho": time.June, "jun": time.June,
	"julho": time.July, "jul": time.July,
	"agosto": time.August, "ago": time.August,
	"setembro": time.September, "set": time.September,
	"outubro": time.October, "out": time.October,
	"novembro": time.November, "nov": time.November,
	"dezembro": time.December, "dez": time.December,
}

// Parse accepts "julho 2025", "julho de 2025", "julho", "7 2025",
// "07/2025", "2025-07" and day-first full dates like "01/07/2025".
func (p PTBR) Parse(text string) (time.Time, bool) {
	tokens := splitTokens(Fold(text))
	if len(tokens) == 0 {
		return time.Time{}, false
	}

	switch len(tokens) {
	case 1:
		month, ok := monthNames[tokens[0]]
		if !ok {
			return time.Time{}, false
		}
		return time.Date(p.year(), month, 1, 0, 0, 0, 0, time.UTC), true
	case 2:
		return parseMonthYear(tokens[0], tokens[1])
	case 3:
		return parseFullDate(tokens[0], tokens[1], tokens[2])
	default:
		return time.Time{}, false
	}
}

func (p PTBR) year() int {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return now().Year()
}

func parseMonthYear(first, second string) (time.Time, bool) {
	// "julho 2025"
	if month, ok := monthNames[first]; ok {
		if year, ok := parseYear(second); ok {
			return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
		}
		return time.Time{}, false
	}

	// "07 2025" or "2025 07" (from "2025-07")
	a, errA := strconv.Atoi(first)
	b, errB := strconv.Atoi(second)
	if errA != nil || errB != nil {
		return time.Time{}, false
	}
	switch {
	case validMonth(a) && validYear(b):
		return time.Date(b, time.Month(a), 1, 0, 0, 0, 0, time.UTC), true
	case validYear(a) && validMonth(b):
		return time.Date(a, time.Month(b), 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func parseFullDate(first, second, third string) (time.Time, bool) {
	day, err := strconv.Atoi(first)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year, ok := parseYear(third)
	if !ok {
		return time.Time{}, false
	}

	month, ok := monthNames[second]
	if !ok {
		m, err := strconv.Atoi(second)
		if err != nil || !validMonth(m) {
			return time.Time{}, false
		}
		month = time.Month(m)
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Month() != month {
		// Day overflowed the month, e.g. 31/02.
		return time.Time{}, false
	}
	return date, true
}

func parseYear(token string) (int, bool) {
	year, err := strconv.Atoi(token)
	if err != nil || !validYear(year) {
		return 0, false
	}
	return year, true
}

func validMonth(m int) bool { return m >= 1 && m <= 12 }
func validYear(y int) bool  { return y >= 1000 && y <= 9999 }

// Fold lowercases the text and strips diacritics so "Março" and "marco"
// compare equal.
func Fold(text string) string {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripper, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return folded
}

func splitTokens(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '/' || r == '-' || r == '.'
	})
	tokens := fields[:0]
	for _, field := range fields {
		if field == "de" || field == "do" {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

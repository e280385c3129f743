package iso19139

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// CleanText prepares raw database text for inclusion in a text node:
// control characters are stripped (newlines and tabs survive as ordinary
// whitespace), the result is NFC-normalised, and leading/trailing
// whitespace is trimmed. Markup escaping is the serializer's job.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(norm.NFC.String(b.String()))
}

// Accepted layouts for stored date values, tried in order. The stored
// column type is TEXT, so both bare dates and timestamps occur.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatDate normalises a stored date value. Date-only values render as
// YYYY-MM-DD; values carrying a time component render as
// YYYY-MM-DDTHH:MM:SS. The bool is false when the value cannot be parsed;
// the caller renders the nil-reason marker instead of failing.
func FormatDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02T15:04:05"), true
		}
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Format("2006-01-02"), true
	}
	return "", false
}

// FormatDateOnly is FormatDate with any time component dropped, for
// elements whose schema type is gco:Date.
func FormatDateOnly(value string) (string, bool) {
	formatted, ok := FormatDate(value)
	if !ok {
		return "", false
	}
	if len(formatted) > 10 {
		return formatted[:10], true
	}
	return formatted, true
}

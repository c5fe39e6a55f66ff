package codes

import "strings"

// Widths configures the digit width of each catalog level of the
// account-code hierarchy. Detail codes have no fixed width.
type Widths struct {
	Group    int
	General  int
	Specific int
}

// DefaultWidths returns the conventional 2/4/6 level widths.
func DefaultWidths() Widths {
	return Widths{Group: 2, General: 4, Specific: 6}
}

// foldDigit maps Persian and Arabic-Indic digit glyphs onto ASCII digits.
// Every other rune passes through unchanged.
func foldDigit(r rune) rune {
	switch {
	case r >= '۰' && r <= '۹': // U+06F0..U+06F9
		return '0' + (r - '۰')
	case r >= '٠' && r <= '٩': // U+0660..U+0669
		return '0' + (r - '٠')
	}
	return r
}

// FoldDigits normalizes localized digit glyphs in s to ASCII digits.
func FoldDigits(s string) string {
	return strings.Map(foldDigit, s)
}

// Normalize returns the first width normalized digits of raw. An input
// shorter than width yields whatever prefix exists; callers treat a short
// prefix as "no match at this level". The function is pure, total and
// idempotent.
func Normalize(raw string, width int) string {
	if raw == "" || width <= 0 {
		return ""
	}
	folded := FoldDigits(raw)
	runes := []rune(folded)
	if len(runes) <= width {
		return string(runes)
	}
	return string(runes[:width])
}

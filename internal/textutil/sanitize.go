package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// invisibleRunes are bidi controls and zero-width characters that backend
// text may carry. They reorder or hide what the terminal shows, so they are
// dropped before drawing.
var invisibleRunes = map[rune]struct{}{
	0x00AD: {}, 0x061C: {}, 0x180E: {},
	0x200B: {}, 0x200C: {}, 0x200D: {}, 0x200E: {}, 0x200F: {},
	0x2028: {}, 0x2029: {},
	0x202A: {}, 0x202B: {}, 0x202C: {}, 0x202D: {}, 0x202E: {},
	0x2060: {}, 0x2066: {}, 0x2067: {}, 0x2068: {}, 0x2069: {},
	0x206A: {}, 0x206B: {}, 0x206C: {}, 0x206D: {}, 0x206E: {}, 0x206F: {},
	0xFEFF: {},
}

const tabWidth = 4

// SanitizeTerminalText makes single-line catalog text safe to draw: control
// characters cannot start escape sequences, line breaks and tabs become
// spaces and invisible formatting runes are removed. Output is NFC so
// combining accents occupy one cell with their base letter.
func SanitizeTerminalText(text string) string {
	if !needsSanitizing(text) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFC.String(text) {
		switch {
		case isInvisible(r):
		case r == '\t':
			b.WriteString(strings.Repeat(" ", tabWidth))
		case r == '\n', r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitizing(text string) bool {
	for _, r := range text {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) || isInvisible(r) {
			return true
		}
	}
	return !norm.NFC.IsNormalString(text)
}

func isInvisible(r rune) bool {
	_, ok := invisibleRunes[r]
	return ok
}

package json

import (
	"fmt"
	"strings"
)

// Quote renders s as a double-quoted JSON string literal. The common case of
// no characters needing escapes is detected in a single scan and returned
// without rebuilding the string.
func Quote(s string) string {
	if !needsEscape(s) {
		return `"` + s + `"`
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
			i++
		case c == '\\':
			b.WriteString(`\\`)
			i++
		case c < 0x20:
			writeControlEscape(&b, c)
			i++
		case c == 0xED && i+2 < len(s) && s[i+1] >= 0xA0 && s[i+1] <= 0xBF:
			// A 0xED lead byte with a second byte in 0xA0..0xBF is a lone
			// surrogate in WTF-8; paired surrogates were combined into a
			// single code point upstream. Escape the code unit.
			r := rune(c&0x0F)<<12 | rune(s[i+1]&0x3F)<<6 | rune(s[i+2]&0x3F)
			fmt.Fprintf(&b, `\u%04x`, r)
			i += 3
		default:
			b.WriteByte(c)
			i++
		}
	}
	b.WriteByte('"')
	return b.String()
}

// needsEscape reports whether s contains any byte the escape loop has to
// rewrite. 0xED is included so WTF-8 surrogate sequences reach the slow path.
func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == '"' || c == '\\' || c == 0xED {
			return true
		}
	}
	return false
}

func writeControlEscape(b *strings.Builder, c byte) {
	switch c {
	case '\b':
		b.WriteString(`\b`)
	case '\f':
		b.WriteString(`\f`)
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\t':
		b.WriteString(`\t`)
	default:
		fmt.Fprintf(b, `\u%04x`, c)
	}
}

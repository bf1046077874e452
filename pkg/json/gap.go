package json

import (
	"strings"
	"unicode/utf16"

	"github.com/jsonkit/ecmason/pkg/hostval"
)

// maxGapLength is the ECMA-262 limit on the indentation unit length.
const maxGapLength = 10

// resolveGap derives the indentation string from the raw space argument:
// numbers (primitive or boxed) clamp to at most ten space characters, strings
// truncate to their first ten UTF-16 code units, and every other kind
// disables pretty printing. Resolution happens once per stringify call.
func resolveGap(space *hostval.Value) string {
	if space == nil {
		return ""
	}
	switch space.Kind() {
	case hostval.KindNumber, hostval.KindBoxedNumber:
		n := hostval.ToInteger(space)
		if n > maxGapLength {
			n = maxGapLength
		}
		if n <= 0 {
			return ""
		}
		return strings.Repeat(" ", int(n))
	case hostval.KindString, hostval.KindBoxedString:
		return truncateGap(hostval.ToString(space))
	default:
		return ""
	}
}

// truncateGap keeps the first maxGapLength UTF-16 code units of s, the
// substring a host string of the gap would yield. A character above the basic
// plane counts as two units; when the limit lands inside one, only its high
// surrogate survives, WTF-8 encoded the way the scanner preserves lone
// surrogates.
func truncateGap(s string) string {
	if len(s) <= maxGapLength {
		return s
	}
	units := 0
	for i, r := range s {
		w := 1
		if r > 0xFFFF {
			w = 2
		}
		if units+w > maxGapLength {
			if units < maxGapLength {
				hi, _ := utf16.EncodeRune(r)
				var b strings.Builder
				b.WriteString(s[:i])
				b.WriteByte(0xE0 | byte(hi>>12))
				b.WriteByte(0x80 | byte(hi>>6)&0x3F)
				b.WriteByte(0x80 | byte(hi)&0x3F)
				return b.String()
			}
			return s[:i]
		}
		units += w
	}
	return s
}

package json

import (
	"math"
	"testing"

	"github.com/jsonkit/ecmason/pkg/hostval"
)

func TestResolveGap(t *testing.T) {
	tests := []struct {
		name string
		in   *hostval.Value
		want string
	}{
		{"nil", nil, ""},
		{"zero", hostval.Number(0), ""},
		{"negative", hostval.Number(-4), ""},
		{"two spaces", hostval.Number(2), "  "},
		{"fraction truncates", hostval.Number(3.9), "   "},
		{"clamped to ten", hostval.Number(100), "          "},
		{"nan", hostval.Number(math.NaN()), ""},
		{"positive infinity clamps", hostval.Number(math.Inf(1)), "          "},
		{"negative infinity", hostval.Number(math.Inf(-1)), ""},
		{"string", hostval.String("\t"), "\t"},
		{"long string truncates", hostval.String("abcdefghijKLMNOP"), "abcdefghij"},
		{"boxed number", hostval.BoxNumber(3), "   "},
		{"boxed string", hostval.BoxString("--"), "--"},
		{"boolean ignored", hostval.Boolean(true), ""},
		{"object ignored", hostval.NewObject(), ""},
		{"null ignored", hostval.Null(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveGap(tt.in); got != tt.want {
				t.Errorf("resolveGap = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateGapCodeUnits(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		// BMP runes count one code unit each regardless of byte width.
		{"eleven bmp runes", "ééééééééééé", "éééééééééé"},
		// Astral runes count two code units, so six 😀 truncate to five.
		{"six astral runes", "😀😀😀😀😀😀", "😀😀😀😀😀"},
		{"five astral runes pass", "😀😀😀😀😀", "😀😀😀😀😀"},
		// A cut inside a surrogate pair keeps the high half, WTF-8 encoded.
		{"split pair keeps high surrogate", "123456789😀x", "123456789\xed\xa0\xbd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateGap(tt.in); got != tt.want {
				t.Errorf("truncateGap = %q, want %q", got, tt.want)
			}
		})
	}
}

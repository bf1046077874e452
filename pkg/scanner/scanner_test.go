package scanner

import (
	"strings"
	"testing"

	"github.com/jsonkit/ecmason/pkg/hostval"
)

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind hostval.Kind
	}{
		{"true", "true", hostval.KindBoolean},
		{"false", "false", hostval.KindBoolean},
		{"null", "null", hostval.KindNull},
		{"integer", "42", hostval.KindNumber},
		{"negative", "-3.5", hostval.KindNumber},
		{"exponent", "1e10", hostval.KindNumber},
		{"string", `"hi"`, hostval.KindString},
		{"padded", "  true  ", hostval.KindBoolean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("kind = %v, want %v", v.Kind(), tt.kind)
			}
		})
	}
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"-0", 0},
		{"123", 123},
		{"0.25", 0.25},
		{"-1.5e2", -150},
		{"1E+3", 1000},
		{"2e-2", 0.02},
	}
	for _, tt := range tests {
		v, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.in, err)
		}
		if v.Num() != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, v.Num(), tt.want)
		}
	}
}

func TestParseStructures(t *testing.T) {
	v, err := Parse(`{"a": [1, {"b": null}], "c": "x"}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	a, _ := v.Get("a")
	if !a.IsArray() || a.Length() != 2 {
		t.Fatalf("a should be a 2-element array")
	}
	inner, _ := a.Elem(1).Get("b")
	if inner.Kind() != hostval.KindNull {
		t.Errorf("a[1].b kind = %v, want null", inner.Kind())
	}
	c, _ := v.Get("c")
	if c.Str() != "x" {
		t.Errorf("c = %q, want %q", c.Str(), "x")
	}
}

func TestParseKeyOrderPreserved(t *testing.T) {
	v, err := Parse(`{"z": 1, "a": 2, "m": 3}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	keys := v.OwnEnumerableKeys()
	want := []string{"z", "a", "m"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestParseDuplicateKeysLastWins(t *testing.T) {
	v, err := Parse(`{"a": 1, "b": 2, "a": 3}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	a, _ := v.Get("a")
	if a.Num() != 3 {
		t.Errorf("a = %v, want 3 (last value wins)", a.Num())
	}
	keys := v.OwnEnumerableKeys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("keys = %v, want [a b] (first position kept)", keys)
	}
}

func TestParseStringEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short escapes", `"\b\f\n\r\t\"\\\/"`, "\b\f\n\r\t\"\\/"},
		{"unicode", `"A"`, "A"},
		{"bmp", `"é"`, "é"},
		{"surrogate pair", `"😀"`, "😀"},
		{"raw utf8", `"héllo"`, "héllo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if v.Str() != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, v.Str(), tt.want)
			}
		})
	}
}

func TestParseLoneSurrogateRoundTrips(t *testing.T) {
	v, err := Parse(`"\ud800"`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	// Lone surrogates stay as WTF-8 three-byte sequences.
	got := v.Str()
	if got != "\xed\xa0\x80" {
		t.Errorf("lone surrogate bytes = %x, want eda080", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"trailing content", "1 2"},
		{"bare word", "truth"},
		{"leading zero", "01"},
		{"plus sign", "+1"},
		{"bare dot", "1."},
		{"dangling exponent", "1e"},
		{"unterminated string", `"abc`},
		{"control char in string", "\"a\nb\""},
		{"invalid escape", `"\x"`},
		{"short unicode escape", `"\u12"`},
		{"missing colon", `{"a" 1}`},
		{"missing key quotes", `{a: 1}`},
		{"trailing comma object", `{"a": 1,}`},
		{"trailing comma array", `[1,]`},
		{"unclosed object", `{"a": 1`},
		{"unclosed array", `[1, 2`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.in); err == nil {
				t.Errorf("Parse(%q) should fail", tt.in)
			}
		})
	}
}

func TestParseErrorOffset(t *testing.T) {
	_, err := Parse(`{"a": !}`)
	if err == nil {
		t.Fatal("expected error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if pe.Offset != 6 {
		t.Errorf("Offset = %d, want 6", pe.Offset)
	}
	if !strings.Contains(pe.Error(), "at offset 6") {
		t.Errorf("Error() = %q, should mention the offset", pe.Error())
	}
}

func TestParseDeepNesting(t *testing.T) {
	depth := 200
	in := strings.Repeat("[", depth) + "1" + strings.Repeat("]", depth)
	v, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	for i := 0; i < depth; i++ {
		v = v.Elem(0)
	}
	if v.Num() != 1 {
		t.Errorf("innermost = %v, want 1", v.Num())
	}
}

func TestParseNestingDepthLimit(t *testing.T) {
	nest := func(depth int) string {
		return strings.Repeat("[", depth) + "1" + strings.Repeat("]", depth)
	}

	if _, err := Parse(nest(maxDepth)); err != nil {
		t.Fatalf("Parse at depth %d: %v", maxDepth, err)
	}

	for _, depth := range []int{maxDepth + 1, 1 << 20} {
		_, err := Parse(nest(depth))
		if err == nil {
			t.Fatalf("Parse at depth %d should fail", depth)
		}
		pe, ok := err.(*ParseError)
		if !ok {
			t.Fatalf("error type = %T, want *ParseError", err)
		}
		if !strings.Contains(pe.Message, "nesting depth") {
			t.Errorf("Message = %q, should mention nesting depth", pe.Message)
		}
	}

	// Objects hit the same bound as arrays.
	in := strings.Repeat(`{"k":`, maxDepth+1) + "1" + strings.Repeat("}", maxDepth+1)
	if _, err := Parse(in); err == nil {
		t.Error("Parse of over-nested objects should fail")
	}
}

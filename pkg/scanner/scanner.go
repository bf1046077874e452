// Package scanner turns JSON text (RFC 8259) into hostval value trees.
//
// The scanner is the tokenizer collaborator consumed by the pkg/json parse
// engine. It reports failures as *ParseError carrying a message and the byte
// offset where scanning stopped, which the engine surfaces as a SyntaxError.
//
// Behavior notes:
//   - Object member order is preserved; a duplicate key overwrites the value
//     of the earlier member but keeps its original position.
//   - Escaped surrogate pairs combine into a single code point. A lone
//     surrogate is kept as-is (WTF-8 encoded) so it survives a round trip
//     through the stringify engine's \uXXXX escaping.
//   - Numbers follow the strict JSON grammar: no leading zeros, no leading
//     '+', no bare '.' or trailing '.'.
package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/jsonkit/ecmason/pkg/hostval"
)

// maxDepth bounds container nesting. Scanning recurses per container, so
// without a cap a deeply nested text overflows the goroutine stack, which is
// fatal rather than recoverable. The limit matches the serialization and
// revival engines.
const maxDepth = 2048

// ParseError is a scanning failure with the byte offset where it occurred.
type ParseError struct {
	Message string
	Offset  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
}

// Parse scans a complete JSON text and returns its value tree. Any content
// other than whitespace after the top-level value is an error.
func Parse(text string) (*hostval.Value, error) {
	s := &scanner{src: text}
	s.skipSpace()
	v, err := s.parseValue()
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if s.pos < len(s.src) {
		return nil, s.errorf("unexpected token after JSON value")
	}
	return v, nil
}

type scanner struct {
	src   string
	pos   int
	depth int
}

// push records entry into a container and enforces the nesting bound.
func (s *scanner) push() error {
	if s.depth >= maxDepth {
		return s.errorf("maximum nesting depth of %d exceeded", maxDepth)
	}
	s.depth++
	return nil
}

func (s *scanner) errorf(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Offset: s.pos}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) parseValue() (*hostval.Value, error) {
	if s.pos >= len(s.src) {
		return nil, s.errorf("unexpected end of JSON input")
	}
	switch c := s.src[s.pos]; {
	case c == '{':
		return s.parseObject()
	case c == '[':
		return s.parseArray()
	case c == '"':
		str, err := s.parseString()
		if err != nil {
			return nil, err
		}
		return hostval.String(str), nil
	case c == '-' || (c >= '0' && c <= '9'):
		return s.parseNumber()
	case c == 't':
		if err := s.expect("true"); err != nil {
			return nil, err
		}
		return hostval.Boolean(true), nil
	case c == 'f':
		if err := s.expect("false"); err != nil {
			return nil, err
		}
		return hostval.Boolean(false), nil
	case c == 'n':
		if err := s.expect("null"); err != nil {
			return nil, err
		}
		return hostval.Null(), nil
	default:
		return nil, s.errorf("unexpected character %q", c)
	}
}

func (s *scanner) expect(lit string) error {
	if !strings.HasPrefix(s.src[s.pos:], lit) {
		return s.errorf("invalid literal, expected %q", lit)
	}
	s.pos += len(lit)
	return nil
}

func (s *scanner) parseObject() (*hostval.Value, error) {
	if err := s.push(); err != nil {
		return nil, err
	}
	defer func() { s.depth-- }()

	obj := hostval.NewObject()
	s.pos++ // consume '{'
	s.skipSpace()
	if s.pos < len(s.src) && s.src[s.pos] == '}' {
		s.pos++
		return obj, nil
	}
	for {
		s.skipSpace()
		if s.pos >= len(s.src) || s.src[s.pos] != '"' {
			return nil, s.errorf("expected object key")
		}
		key, err := s.parseString()
		if err != nil {
			return nil, err
		}
		s.skipSpace()
		if s.pos >= len(s.src) || s.src[s.pos] != ':' {
			return nil, s.errorf("expected ':' after object key")
		}
		s.pos++
		s.skipSpace()
		val, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)

		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, s.errorf("unexpected end of JSON input")
		}
		switch s.src[s.pos] {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return obj, nil
		default:
			return nil, s.errorf("expected ',' or '}' in object")
		}
	}
}

func (s *scanner) parseArray() (*hostval.Value, error) {
	if err := s.push(); err != nil {
		return nil, err
	}
	defer func() { s.depth-- }()

	arr := hostval.NewArray()
	s.pos++ // consume '['
	s.skipSpace()
	if s.pos < len(s.src) && s.src[s.pos] == ']' {
		s.pos++
		return arr, nil
	}
	for {
		s.skipSpace()
		elem, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Append(elem)

		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, s.errorf("unexpected end of JSON input")
		}
		switch s.src[s.pos] {
		case ',':
			s.pos++
		case ']':
			s.pos++
			return arr, nil
		default:
			return nil, s.errorf("expected ',' or ']' in array")
		}
	}
}

func (s *scanner) parseString() (string, error) {
	s.pos++ // consume opening quote
	var b strings.Builder
	for {
		if s.pos >= len(s.src) {
			return "", s.errorf("unterminated string")
		}
		c := s.src[s.pos]
		switch {
		case c == '"':
			s.pos++
			return b.String(), nil
		case c == '\\':
			s.pos++
			if err := s.parseEscape(&b); err != nil {
				return "", err
			}
		case c < 0x20:
			return "", s.errorf("invalid control character in string")
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
}

func (s *scanner) parseEscape(b *strings.Builder) error {
	if s.pos >= len(s.src) {
		return s.errorf("unterminated string")
	}
	c := s.src[s.pos]
	s.pos++
	switch c {
	case '"', '\\', '/':
		b.WriteByte(c)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := s.parseHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			// High surrogate followed by \uXXXX low surrogate forms a pair.
			if r >= 0xD800 && r <= 0xDBFF && strings.HasPrefix(s.src[s.pos:], `\u`) {
				save := s.pos
				s.pos += 2
				lo, err := s.parseHex4()
				if err != nil {
					return err
				}
				if combined := utf16.DecodeRune(r, lo); combined != utf8.RuneError {
					b.WriteRune(combined)
					return nil
				}
				s.pos = save
			}
			writeWTF8(b, r)
			return nil
		}
		b.WriteRune(r)
	default:
		s.pos--
		return s.errorf("invalid escape character %q", c)
	}
	return nil
}

func (s *scanner) parseHex4() (rune, error) {
	if s.pos+4 > len(s.src) {
		return 0, s.errorf("invalid unicode escape")
	}
	n, err := strconv.ParseUint(s.src[s.pos:s.pos+4], 16, 32)
	if err != nil {
		return 0, s.errorf("invalid unicode escape")
	}
	s.pos += 4
	return rune(n), nil
}

// writeWTF8 encodes a lone surrogate as a raw three-byte sequence so the code
// unit is preserved; utf8.EncodeRune would replace it with U+FFFD.
func writeWTF8(b *strings.Builder, r rune) {
	b.WriteByte(0xE0 | byte(r>>12))
	b.WriteByte(0x80 | byte(r>>6)&0x3F)
	b.WriteByte(0x80 | byte(r)&0x3F)
}

func (s *scanner) parseNumber() (*hostval.Value, error) {
	start := s.pos
	if s.src[s.pos] == '-' {
		s.pos++
	}
	// Integer part: zero stands alone, other digits may not lead with zero.
	switch {
	case s.pos < len(s.src) && s.src[s.pos] == '0':
		s.pos++
	case s.pos < len(s.src) && s.src[s.pos] >= '1' && s.src[s.pos] <= '9':
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	default:
		return nil, s.errorf("invalid number")
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		if s.pos >= len(s.src) || !isDigit(s.src[s.pos]) {
			return nil, s.errorf("invalid number")
		}
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		s.pos++
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		if s.pos >= len(s.src) || !isDigit(s.src[s.pos]) {
			return nil, s.errorf("invalid number")
		}
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	n, err := strconv.ParseFloat(s.src[start:s.pos], 64)
	if err != nil {
		return nil, s.errorf("invalid number")
	}
	return hostval.Number(n), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

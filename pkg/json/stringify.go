package json

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jsonkit/ecmason/pkg/errors"
	"github.com/jsonkit/ecmason/pkg/hostval"
	"github.com/jsonkit/ecmason/pkg/observability"
)

const (
	// maxOutputLength mirrors the engine's maximum string length in code
	// units. An array whose reported length reaches it cannot produce valid
	// output, so serialization fails before materializing anything.
	maxOutputLength = 1<<31 - 1

	// maxDepth bounds recursion so adversarial nesting (or a reviver/replacer
	// feeding freshly built deep structures back in) fails with a range error
	// instead of exhausting the goroutine stack.
	maxDepth = 2048
)

// Stringify serializes value to JSON text per the ECMA-262 algorithm.
//
// replacer may be nil, an array-like allow-list of property names, or a
// callable transform invoked as fn(holder, key, value). space may be nil, a
// number (0-10 spaces of indentation), or a string used verbatim as the
// indentation unit (truncated to 10 characters).
//
// The second return value is false when the input is not serializable at the
// top level (undefined, a callable, or a replacer that suppressed the root),
// matching JSON.stringify returning undefined.
func Stringify(value, replacer, space *hostval.Value) (string, bool, error) {
	start := time.Now()
	observability.Engine().OnStringifyStart()

	if value == nil {
		value = hostval.Undefined()
	}
	s := &session{
		replacer: resolveReplacer(replacer),
		gap:      resolveGap(space),
	}
	s.onStack = make(map[*hostval.Value]struct{})

	// The root value travels through the same toJSON/replacer/unboxing
	// pipeline as any member: it becomes the sole property of a synthetic
	// holder under the empty-string key.
	wrapper := hostval.NewObject()
	wrapper.Set("", value)
	out, ok, err := s.str("", wrapper, value)

	observability.Engine().OnStringifyComplete(len(out), time.Since(start), err)
	if err != nil {
		return "", false, err
	}
	return out, ok, nil
}

// session is the per-call mutable state of one stringify invocation: resolved
// replacer and gap, current indent depth, and the ancestor stack used for
// cycle detection. Sessions are confined to a single call and a single
// goroutine; callbacks invoked during the call may reenter str on the same
// session.
type session struct {
	replacer replacerConfig
	gap      string
	indent   int
	depth    int
	stack    []*hostval.Value
	onStack  map[*hostval.Value]struct{}
}

// str implements the ECMA-262 Str(key, holder) routine. A nil value
// means the property has not been read yet and is fetched from the holder.
// The boolean result is false for the "not serializable" sentinel.
func (s *session) str(key string, holder, value *hostval.Value) (string, bool, error) {
	if s.depth >= maxDepth {
		return "", false, errors.New(errors.ErrCodeDepth, "maximum nesting depth of %d exceeded", maxDepth)
	}
	s.depth++
	defer func() { s.depth-- }()

	var err error
	if value == nil {
		if value, err = holder.Get(key); err != nil {
			return "", false, err
		}
	}

	// toJSON runs before the replacer and before unboxing.
	if value.IsObjectLike() {
		if m := value.Method("toJSON"); m != nil {
			if value, err = m.Invoke(value, []*hostval.Value{hostval.String(key)}); err != nil {
				return "", false, err
			}
		}
	}

	if s.replacer.kind == replacerFunc {
		args := []*hostval.Value{hostval.String(key), value}
		if value, err = s.replacer.fn.Invoke(holder, args); err != nil {
			return "", false, err
		}
	}

	value = value.Unboxed()

	switch value.Kind() {
	case hostval.KindUndefined, hostval.KindCallable:
		return "", false, nil
	case hostval.KindNull:
		return "null", true, nil
	case hostval.KindBoolean:
		if value.Bool() {
			return "true", true, nil
		}
		return "false", true, nil
	case hostval.KindNumber:
		n := value.Num()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "null", true, nil
		}
		return hostval.FormatNumber(n), true, nil
	case hostval.KindString:
		return Quote(value.Str()), true, nil
	default:
		out, err := s.container(value)
		if err != nil {
			return "", false, err
		}
		return out, true, nil
	}
}

// container serializes an object or array, guarding against cycles. The
// ancestor-stack entry is released on every exit path, so a failure below
// never leaves a sibling falsely marked as cyclic.
func (s *session) container(value *hostval.Value) (string, error) {
	if _, ok := s.onStack[value]; ok {
		return "", errors.New(errors.ErrCodeCircular, "converting circular structure to JSON")
	}
	s.stack = append(s.stack, value)
	s.onStack[value] = struct{}{}
	defer func() {
		last := len(s.stack) - 1
		delete(s.onStack, s.stack[last])
		s.stack = s.stack[:last]
	}()

	if value.IsArray() {
		return s.stringifyArray(value)
	}
	return s.stringifyObject(value)
}

// stringifyObject visits either the replacer allow-list or the value's own
// enumerable keys, omitting members whose result is the sentinel.
func (s *session) stringifyObject(value *hostval.Value) (string, error) {
	stepBack := s.indent
	s.indent++
	defer func() { s.indent = stepBack }()

	var keys []string
	if s.replacer.kind == replacerKeyList {
		keys = s.replacer.keys
	} else {
		keys = value.OwnEnumerableKeys()
	}

	sep := s.propertySeparator()
	members := make([]string, 0, len(keys))
	for _, k := range keys {
		out, ok, err := s.str(k, value, nil)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		members = append(members, Quote(k)+sep+out)
	}

	if len(members) == 0 {
		return "{}", nil
	}
	return s.wrap('{', '}', members, stepBack), nil
}

// stringifyArray visits indices 0..length-1. Unlike objects, sentinel results
// are not omitted: they serialize as the literal null.
func (s *session) stringifyArray(value *hostval.Value) (string, error) {
	stepBack := s.indent
	s.indent++
	defer func() { s.indent = stepBack }()

	var length int
	if value.Kind() == hostval.KindArray {
		length = value.Length()
	} else {
		lv, err := value.Get("length")
		if err != nil {
			return "", err
		}
		n := hostval.ToLength(lv)
		if n >= maxOutputLength {
			return "", errors.New(errors.ErrCodeLength, "array length %d exceeds maximum string length", n)
		}
		length = int(n)
	}

	if length == 0 {
		return "[]", nil
	}

	members := make([]string, 0, length)
	for i := 0; i < length; i++ {
		out, err := s.arrayElement(value, i)
		if err != nil {
			return "", err
		}
		members = append(members, out)
	}
	return s.wrap('[', ']', members, stepBack), nil
}

// arrayElement serializes a single index. Undefined elements (holes included)
// short-circuit to null without running the toJSON/replacer pipeline, which
// is the observable behavior of the reference algorithm's array fast path.
func (s *session) arrayElement(arr *hostval.Value, i int) (string, error) {
	key := strconv.Itoa(i)
	var elem *hostval.Value
	if arr.Kind() == hostval.KindArray {
		elem = arr.Elem(i)
	} else {
		var err error
		if elem, err = arr.Get(key); err != nil {
			return "", err
		}
	}
	if elem.Kind() == hostval.KindUndefined {
		return "null", nil
	}
	out, ok, err := s.str(key, arr, elem)
	if err != nil {
		return "", err
	}
	if !ok {
		return "null", nil
	}
	return out, nil
}

// wrap joins members and encloses them in the given brackets, compact when no
// gap is configured, otherwise one member per line at the current indent with
// the closing bracket stepped back.
func (s *session) wrap(open, closing byte, members []string, stepBack int) string {
	var b strings.Builder
	if s.gap == "" {
		b.WriteByte(open)
		b.WriteString(strings.Join(members, ","))
		b.WriteByte(closing)
		return b.String()
	}
	indent := strings.Repeat(s.gap, s.indent)
	b.WriteByte(open)
	b.WriteByte('\n')
	b.WriteString(indent)
	b.WriteString(strings.Join(members, ",\n"+indent))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(s.gap, stepBack))
	b.WriteByte(closing)
	return b.String()
}

func (s *session) propertySeparator() string {
	if s.gap == "" {
		return ":"
	}
	return ": "
}

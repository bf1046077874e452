package hostval

import (
	"math"
	"strconv"
	"strings"
)

// MaxSafeLength is the upper bound ToLength clamps to (2^53 - 1).
const MaxSafeLength = 1<<53 - 1

// ToString implements the ECMAScript ToString coercion for the kinds the
// engine needs: primitives convert directly, boxed wrappers unbox first,
// arrays join their elements, and plain objects render as "[object Object]".
func ToString(v *Value) string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindNumber:
		return FormatNumber(v.numVal)
	case KindString:
		return v.strVal
	case KindBoxedNumber, KindBoxedString, KindBoxedBoolean:
		return ToString(v.Unboxed())
	case KindArray:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			if e == nil || e.kind == KindUndefined || e.kind == KindNull {
				continue
			}
			parts[i] = ToString(e)
		}
		return strings.Join(parts, ",")
	case KindCallable:
		return "function () { [native code] }"
	default:
		return "[object Object]"
	}
}

// ToNumber implements the ECMAScript ToNumber coercion.
func ToNumber(v *Value) float64 {
	switch v.kind {
	case KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindBoolean:
		if v.boolVal {
			return 1
		}
		return 0
	case KindNumber:
		return v.numVal
	case KindString:
		s := strings.TrimSpace(v.strVal)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case KindBoxedNumber, KindBoxedString, KindBoxedBoolean:
		return ToNumber(v.Unboxed())
	default:
		return math.NaN()
	}
}

// ToInteger implements ECMAScript ToInteger: NaN maps to 0, infinities are
// preserved, anything else truncates toward zero.
func ToInteger(v *Value) float64 {
	n := ToNumber(v)
	if math.IsNaN(n) {
		return 0
	}
	if math.IsInf(n, 0) {
		return n
	}
	return math.Trunc(n)
}

// ToLength clamps ToInteger(v) into the valid length range [0, 2^53-1].
func ToLength(v *Value) int64 {
	n := ToInteger(v)
	if n <= 0 {
		return 0
	}
	if n >= MaxSafeLength {
		return MaxSafeLength
	}
	return int64(n)
}

// FormatNumber renders a float64 in the canonical ECMAScript Number::toString
// form: fixed notation in [1e-6, 1e21), exponent notation outside that range,
// with the exponent written unpadded and signed ("1e+21", "1.5e-7").
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 {
		return "0" // negative zero also prints as "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		return trimExponent(s)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent strips leading zeros from the exponent digits of a Go
// 'e'-formatted float, converting "1.5e-07" to "1.5e-7".
func trimExponent(s string) string {
	e := strings.IndexByte(s, 'e')
	if e < 0 || e+2 >= len(s) {
		return s
	}
	mant, sign, digits := s[:e], s[e+1], s[e+2:]
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + string(sign) + digits
}

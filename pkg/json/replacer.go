package json

import (
	"strconv"

	"github.com/jsonkit/ecmason/pkg/hostval"
)

type replacerKind uint8

const (
	replacerNone replacerKind = iota
	replacerKeyList
	replacerFunc
)

// replacerConfig is the resolved form of the raw replacer argument: either
// nothing, an ordered allow-list of property names, or a transform function.
type replacerConfig struct {
	kind replacerKind
	keys []string
	fn   *hostval.Value
}

// resolveReplacer classifies the raw replacer argument. Array-likes become a
// deduplicated allow-list; callables are stored as-is; anything else is
// ignored. Invalid array elements are silently skipped, never an error.
func resolveReplacer(replacer *hostval.Value) replacerConfig {
	if replacer == nil {
		return replacerConfig{kind: replacerNone}
	}
	if replacer.IsCallable() {
		return replacerConfig{kind: replacerFunc, fn: replacer}
	}
	if !replacer.IsArray() {
		return replacerConfig{kind: replacerNone}
	}
	return replacerConfig{kind: replacerKeyList, keys: allowList(replacer)}
}

// allowList builds the ordered key list from an array-like replacer. Only
// strings, numbers, and boxed string/number wrappers contribute entries;
// numbers convert through their canonical string form. Duplicates are removed
// keeping the first occurrence, compacting the list in place.
func allowList(arr *hostval.Value) []string {
	length := arrayLength(arr)
	keys := make([]string, 0, length)
	for i := 0; i < length; i++ {
		elem := elementAt(arr, i)
		switch elem.Kind() {
		case hostval.KindString:
			keys = append(keys, elem.Str())
		case hostval.KindNumber, hostval.KindBoxedNumber, hostval.KindBoxedString:
			keys = append(keys, hostval.ToString(elem))
		}
	}

	seen := make(map[string]struct{}, len(keys))
	j := 0
	for i := 0; i < len(keys); i++ {
		if _, dup := seen[keys[i]]; dup {
			continue
		}
		seen[keys[i]] = struct{}{}
		if j != i {
			keys[j] = keys[i]
		}
		j++
	}
	return keys[:j]
}

// arrayLength reads the iteration bound: native storage for real arrays,
// ToLength(Get("length")) for array facades.
func arrayLength(arr *hostval.Value) int {
	if arr.Kind() == hostval.KindArray {
		return arr.Length()
	}
	lv, err := arr.Get("length")
	if err != nil {
		return 0
	}
	return int(hostval.ToLength(lv))
}

// elementAt reads element i, tolerating getter failures as undefined since
// replacer resolution never raises.
func elementAt(arr *hostval.Value, i int) *hostval.Value {
	if arr.Kind() == hostval.KindArray {
		return arr.Elem(i)
	}
	v, err := arr.Get(strconv.Itoa(i))
	if err != nil {
		return hostval.Undefined()
	}
	return v
}

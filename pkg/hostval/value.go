// Package hostval implements the dynamic host value model consumed by the
// ecmason serialization engine.
//
// Values form a tagged union over the ECMAScript-visible kinds: undefined,
// null, booleans, IEEE-754 numbers, strings, insertion-ordered objects,
// arrays, callables, and the boxed wrapper objects (new Number/String/Boolean)
// that the engine must unbox before serializing.
//
// # Capability surface
//
// The serialization engine only relies on a small capability set: Kind,
// IsArray, IsCallable, Get, Set, Delete, OwnEnumerableKeys, Invoke, Length,
// and pointer identity of *Value for cycle detection. Everything else in this
// package (constructors, getters, prototype links) exists so hosts and tests
// can build realistic value graphs.
//
// # Key ordering
//
// Objects enumerate own keys the way ECMAScript engines do: integer-like keys
// first in ascending numeric order, then the remaining string keys in
// insertion order. OwnEnumerableKeys returns a snapshot, so callbacks that
// mutate the object mid-traversal cannot perturb an enumeration already in
// flight.
package hostval

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies the variant stored in a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
	KindCallable
	KindBoxedNumber
	KindBoxedString
	KindBoxedBoolean
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindCallable:
		return "callable"
	case KindBoxedNumber:
		return "boxed-number"
	case KindBoxedString:
		return "boxed-string"
	case KindBoxedBoolean:
		return "boxed-boolean"
	default:
		return "unknown"
	}
}

// CallFunc is the signature of host callables: toJSON methods, replacer and
// reviver functions, and property getters. Errors returned by a CallFunc
// abort the surrounding stringify/parse call unmodified.
type CallFunc func(this *Value, args []*Value) (*Value, error)

// Property is a single own property of an object-like value. When Getter is
// non-nil the property is an accessor: Get invokes it with the holder as
// `this` instead of returning Value.
type Property struct {
	Key    string
	Value  *Value
	Getter CallFunc
}

// Value is a dynamic host value. The zero value is not meaningful; use the
// package constructors. Identity (for the engine's ancestor stack) is the
// *Value pointer itself.
type Value struct {
	kind Kind

	boolVal bool
	numVal  float64
	strVal  string

	elems []*Value   // arrays
	props []Property // object-like kinds, insertion ordered

	proto *Value   // optional prototype link, used for method lookup
	fn    CallFunc // callables

	arrayLike bool // object that reports itself as an array (host facade)
}

var (
	undefinedValue = &Value{kind: KindUndefined}
	nullValue      = &Value{kind: KindNull}
)

// Undefined returns the shared undefined value.
func Undefined() *Value { return undefinedValue }

// Null returns the shared null value.
func Null() *Value { return nullValue }

// Boolean creates a boolean primitive.
func Boolean(v bool) *Value { return &Value{kind: KindBoolean, boolVal: v} }

// Number creates a number primitive.
func Number(v float64) *Value { return &Value{kind: KindNumber, numVal: v} }

// String creates a string primitive.
func String(v string) *Value { return &Value{kind: KindString, strVal: v} }

// NewArray creates an array holding the given elements.
func NewArray(elems ...*Value) *Value {
	return &Value{kind: KindArray, elems: elems}
}

// NewObject creates an empty object with insertion-ordered properties.
func NewObject() *Value { return &Value{kind: KindObject} }

// NewArrayLike creates an object that reports itself as an array but stores
// elements as ordinary properties. It models host array facades whose length
// is read through the "length" property rather than native storage.
func NewArrayLike() *Value { return &Value{kind: KindObject, arrayLike: true} }

// NewCallable creates a callable value backed by fn.
func NewCallable(fn CallFunc) *Value { return &Value{kind: KindCallable, fn: fn} }

// BoxNumber creates a Number wrapper object around v.
func BoxNumber(v float64) *Value { return &Value{kind: KindBoxedNumber, numVal: v} }

// BoxString creates a String wrapper object around v.
func BoxString(v string) *Value { return &Value{kind: KindBoxedString, strVal: v} }

// BoxBoolean creates a Boolean wrapper object around v.
func BoxBoolean(v bool) *Value { return &Value{kind: KindBoxedBoolean, boolVal: v} }

// Kind returns the variant tag.
func (v *Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload. Valid for KindBoolean and KindBoxedBoolean.
func (v *Value) Bool() bool { return v.boolVal }

// Num returns the numeric payload. Valid for KindNumber and KindBoxedNumber.
func (v *Value) Num() float64 { return v.numVal }

// Str returns the string payload. Valid for KindString and KindBoxedString.
func (v *Value) Str() string { return v.strVal }

// IsArray reports whether the value is a native array or a host array facade.
func (v *Value) IsArray() bool { return v.kind == KindArray || v.arrayLike }

// IsCallable reports whether the value can be invoked.
func (v *Value) IsCallable() bool { return v.kind == KindCallable }

// IsObjectLike reports whether the value participates in object protocols
// (property access, toJSON lookup, cycle detection).
func (v *Value) IsObjectLike() bool {
	switch v.kind {
	case KindArray, KindObject, KindCallable, KindBoxedNumber, KindBoxedString, KindBoxedBoolean:
		return true
	}
	return false
}

// Unboxed returns the primitive payload of a wrapper object, or v itself for
// non-boxed values.
func (v *Value) Unboxed() *Value {
	switch v.kind {
	case KindBoxedNumber:
		return Number(v.numVal)
	case KindBoxedString:
		return String(v.strVal)
	case KindBoxedBoolean:
		return Boolean(v.boolVal)
	}
	return v
}

// Length returns the element count of a native array, or 0 for other kinds.
func (v *Value) Length() int {
	if v.kind != KindArray {
		return 0
	}
	return len(v.elems)
}

// Elem returns the i-th element of a native array. Holes (nil slots) read as
// undefined. Out-of-range reads return undefined.
func (v *Value) Elem(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return undefinedValue
	}
	if v.elems[i] == nil {
		return undefinedValue
	}
	return v.elems[i]
}

// Append adds elements to the end of a native array.
func (v *Value) Append(elems ...*Value) {
	if v.kind == KindArray {
		v.elems = append(v.elems, elems...)
	}
}

// SetElem stores e at index i, growing the array with holes as needed.
func (v *Value) SetElem(i int, e *Value) {
	if v.kind != KindArray || i < 0 {
		return
	}
	for len(v.elems) <= i {
		v.elems = append(v.elems, nil)
	}
	v.elems[i] = e
}

// ReplaceElements swaps the array's backing storage. The revive walk uses it
// to compact arrays after elements are deleted.
func (v *Value) ReplaceElements(elems []*Value) {
	if v.kind == KindArray {
		v.elems = elems
	}
}

// SetProto links a prototype object used by Method lookup.
func (v *Value) SetProto(p *Value) { v.proto = p }

// Proto returns the prototype link, or nil.
func (v *Value) Proto() *Value { return v.proto }

// Invoke calls a callable value with the given receiver and arguments.
func (v *Value) Invoke(this *Value, args []*Value) (*Value, error) {
	if v.kind != KindCallable || v.fn == nil {
		return nil, fmt.Errorf("hostval: %s value is not callable", v.kind)
	}
	res, err := v.fn(this, args)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = undefinedValue
	}
	return res, nil
}

// Set defines or overwrites an own property. An existing property keeps its
// insertion position, matching ECMAScript property redefinition. On native
// arrays an integer-like key addresses element storage instead.
func (v *Value) Set(key string, val *Value) {
	if v.kind == KindArray {
		if idx, ok := arrayIndex(key); ok {
			v.SetElem(idx, val)
			return
		}
	}
	if !v.IsObjectLike() {
		return
	}
	for i := range v.props {
		if v.props[i].Key == key {
			v.props[i].Value = val
			v.props[i].Getter = nil
			return
		}
	}
	v.props = append(v.props, Property{Key: key, Value: val})
}

// DefineGetter defines an accessor property whose value is produced by fn at
// each read, with the holder passed as the receiver.
func (v *Value) DefineGetter(key string, fn CallFunc) {
	if !v.IsObjectLike() {
		return
	}
	for i := range v.props {
		if v.props[i].Key == key {
			v.props[i].Value = nil
			v.props[i].Getter = fn
			return
		}
	}
	v.props = append(v.props, Property{Key: key, Getter: fn})
}

// Delete removes an own property. It reports whether a property was removed.
func (v *Value) Delete(key string) bool {
	if v.kind == KindArray {
		if idx, ok := arrayIndex(key); ok && idx < len(v.elems) {
			v.elems[idx] = nil
			return true
		}
	}
	for i := range v.props {
		if v.props[i].Key == key {
			v.props = append(v.props[:i], v.props[i+1:]...)
			return true
		}
	}
	return false
}

// Get reads a property. Native array element storage is consulted first for
// integer-like keys and "length"; own properties follow, then the prototype
// chain. Accessor properties invoke their getter, which may fail. Missing
// properties read as undefined.
func (v *Value) Get(key string) (*Value, error) {
	if v.kind == KindArray {
		if key == "length" {
			return Number(float64(len(v.elems))), nil
		}
		if idx, ok := arrayIndex(key); ok {
			return v.Elem(idx), nil
		}
	}
	for cur := v; cur != nil; cur = cur.proto {
		for i := range cur.props {
			if cur.props[i].Key != key {
				continue
			}
			if g := cur.props[i].Getter; g != nil {
				res, err := g(v, nil)
				if err != nil {
					return nil, err
				}
				if res == nil {
					res = undefinedValue
				}
				return res, nil
			}
			return cur.props[i].Value, nil
		}
	}
	return undefinedValue, nil
}

// Method looks up a callable property by name along the prototype chain.
// Accessor properties are not consulted. Returns nil when the name is absent
// or not callable.
func (v *Value) Method(name string) *Value {
	for cur := v; cur != nil; cur = cur.proto {
		for i := range cur.props {
			if cur.props[i].Key == name {
				if m := cur.props[i].Value; m != nil && m.IsCallable() {
					return m
				}
				return nil
			}
		}
	}
	return nil
}

// OwnEnumerableKeys returns a snapshot of the object's own property names:
// integer-like keys first in ascending numeric order, then the remaining
// keys in insertion order.
func (v *Value) OwnEnumerableKeys() []string {
	if !v.IsObjectLike() {
		return nil
	}
	var indexed []string
	named := make([]string, 0, len(v.props))
	for i := range v.props {
		if _, ok := arrayIndex(v.props[i].Key); ok {
			indexed = append(indexed, v.props[i].Key)
		} else {
			named = append(named, v.props[i].Key)
		}
	}
	sort.Slice(indexed, func(a, b int) bool {
		ai, _ := arrayIndex(indexed[a])
		bi, _ := arrayIndex(indexed[b])
		return ai < bi
	})
	return append(indexed, named...)
}

// arrayIndex reports whether key is a canonical array index ("0", "42", no
// leading zeros) and returns its numeric value.
func arrayIndex(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

package hostval

import (
	"fmt"
	"testing"
)

func TestOwnEnumerableKeysOrdering(t *testing.T) {
	obj := NewObject()
	obj.Set("b", Number(1))
	obj.Set("10", Number(2))
	obj.Set("a", Number(3))
	obj.Set("2", Number(4))

	got := obj.OwnEnumerableKeys()
	want := []string{"2", "10", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetKeepsInsertionPosition(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Number(1))
	obj.Set("b", Number(2))
	obj.Set("a", Number(3)) // redefine, position stays

	got := obj.OwnEnumerableKeys()
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("keys = %v, want [a b]", got)
	}
	v, err := obj.Get("a")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v.Num() != 3 {
		t.Errorf("a = %v, want 3", v.Num())
	}
}

func TestGetWalksProtoChain(t *testing.T) {
	proto := NewObject()
	proto.Set("inherited", String("yes"))

	obj := NewObject()
	obj.SetProto(proto)

	v, err := obj.Get("inherited")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v.Str() != "yes" {
		t.Errorf("inherited = %q, want %q", v.Str(), "yes")
	}

	// Inherited keys must not appear in own enumeration.
	if keys := obj.OwnEnumerableKeys(); len(keys) != 0 {
		t.Errorf("own keys = %v, want none", keys)
	}
}

func TestGetterInvocation(t *testing.T) {
	obj := NewObject()
	calls := 0
	obj.DefineGetter("dyn", func(this *Value, args []*Value) (*Value, error) {
		calls++
		return Number(float64(calls)), nil
	})

	v1, _ := obj.Get("dyn")
	v2, _ := obj.Get("dyn")
	if v1.Num() != 1 || v2.Num() != 2 {
		t.Errorf("getter results = %v, %v; want 1, 2", v1.Num(), v2.Num())
	}
}

func TestGetterError(t *testing.T) {
	obj := NewObject()
	obj.DefineGetter("boom", func(this *Value, args []*Value) (*Value, error) {
		return nil, fmt.Errorf("getter failed")
	})

	if _, err := obj.Get("boom"); err == nil {
		t.Error("expected getter error to propagate")
	}
}

func TestMethodLookup(t *testing.T) {
	proto := NewObject()
	proto.Set("toJSON", NewCallable(func(this *Value, args []*Value) (*Value, error) {
		return String("proto"), nil
	}))

	obj := NewObject()
	obj.SetProto(proto)

	m := obj.Method("toJSON")
	if m == nil {
		t.Fatal("Method should find callable on prototype")
	}
	res, err := m.Invoke(obj, nil)
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if res.Str() != "proto" {
		t.Errorf("result = %q, want %q", res.Str(), "proto")
	}

	// Non-callable own property shadows a callable prototype property.
	obj.Set("toJSON", Number(1))
	if obj.Method("toJSON") != nil {
		t.Error("non-callable own property should end the lookup")
	}
}

func TestArrayElementAccess(t *testing.T) {
	arr := NewArray(Number(10), Number(20))

	v, err := arr.Get("1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v.Num() != 20 {
		t.Errorf("arr[1] = %v, want 20", v.Num())
	}

	length, _ := arr.Get("length")
	if length.Num() != 2 {
		t.Errorf("length = %v, want 2", length.Num())
	}

	// Holes and out-of-range reads are undefined.
	arr.SetElem(4, Number(50))
	if arr.Elem(3).Kind() != KindUndefined {
		t.Error("hole should read as undefined")
	}
	if arr.Elem(9).Kind() != KindUndefined {
		t.Error("out-of-range should read as undefined")
	}
	if arr.Length() != 5 {
		t.Errorf("Length = %d, want 5", arr.Length())
	}
}

func TestDeleteArrayIndexLeavesHole(t *testing.T) {
	arr := NewArray(Number(1), Number(2), Number(3))
	if !arr.Delete("1") {
		t.Fatal("Delete should report removal")
	}
	if arr.Length() != 3 {
		t.Errorf("Length = %d, want 3 (delete leaves a hole)", arr.Length())
	}
	if arr.Elem(1).Kind() != KindUndefined {
		t.Error("deleted slot should read as undefined")
	}
}

func TestUnboxed(t *testing.T) {
	if v := BoxNumber(42).Unboxed(); v.Kind() != KindNumber || v.Num() != 42 {
		t.Errorf("BoxNumber unboxed to %v %v", v.Kind(), v.Num())
	}
	if v := BoxString("hi").Unboxed(); v.Kind() != KindString || v.Str() != "hi" {
		t.Errorf("BoxString unboxed to %v %q", v.Kind(), v.Str())
	}
	if v := BoxBoolean(true).Unboxed(); v.Kind() != KindBoolean || !v.Bool() {
		t.Errorf("BoxBoolean unboxed to %v %v", v.Kind(), v.Bool())
	}
	n := Number(1)
	if n.Unboxed() != n {
		t.Error("Unboxed should return non-boxed values unchanged")
	}
}

func TestSharedSingletons(t *testing.T) {
	if Undefined() != Undefined() {
		t.Error("Undefined should return the shared instance")
	}
	if Null() != Null() {
		t.Error("Null should return the shared instance")
	}
}

func TestArrayLikeFacade(t *testing.T) {
	fac := NewArrayLike()
	fac.Set("length", Number(2))
	fac.Set("0", String("a"))
	fac.Set("1", String("b"))

	if !fac.IsArray() {
		t.Error("array facade should report IsArray")
	}
	if fac.Length() != 0 {
		t.Error("facade has no native element storage")
	}
	l, _ := fac.Get("length")
	if l.Num() != 2 {
		t.Errorf("facade length property = %v, want 2", l.Num())
	}
}

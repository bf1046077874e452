package json

import (
	"testing"

	"github.com/jsonkit/ecmason/pkg/hostval"
)

func TestAllowListElementKinds(t *testing.T) {
	arr := hostval.NewArray(
		hostval.String("name"),
		hostval.Number(3),
		hostval.BoxNumber(7),
		hostval.BoxString("boxed"),
		hostval.Boolean(true), // skipped
		hostval.Null(),        // skipped
		hostval.Undefined(),   // skipped
		hostval.NewObject(),   // skipped
		hostval.Number(1.5),   // canonical number form
	)

	got := allowList(arr)
	want := []string{"name", "3", "7", "boxed", "1.5"}
	if len(got) != len(want) {
		t.Fatalf("allowList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("allowList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAllowListDeduplicatesKeepingFirst(t *testing.T) {
	arr := hostval.NewArray(
		hostval.String("a"),
		hostval.String("b"),
		hostval.String("a"),
		hostval.Number(1),
		hostval.String("1"),
	)

	got := allowList(arr)
	want := []string{"a", "b", "1"}
	if len(got) != len(want) {
		t.Fatalf("allowList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("allowList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveReplacerClassification(t *testing.T) {
	if cfg := resolveReplacer(nil); cfg.kind != replacerNone {
		t.Error("nil should resolve to no replacer")
	}
	if cfg := resolveReplacer(hostval.String("x")); cfg.kind != replacerNone {
		t.Error("non-array non-callable should resolve to no replacer")
	}
	fn := hostval.NewCallable(func(this *hostval.Value, args []*hostval.Value) (*hostval.Value, error) {
		return args[1], nil
	})
	if cfg := resolveReplacer(fn); cfg.kind != replacerFunc {
		t.Error("callable should resolve to a function replacer")
	}
	arr := hostval.NewArray(hostval.String("k"))
	if cfg := resolveReplacer(arr); cfg.kind != replacerKeyList || len(cfg.keys) != 1 {
		t.Error("array should resolve to a key list")
	}
}

func TestAllowListFromArrayFacade(t *testing.T) {
	fac := hostval.NewArrayLike()
	fac.Set("length", hostval.Number(2))
	fac.Set("0", hostval.String("x"))
	fac.Set("1", hostval.Number(9))

	got := allowList(fac)
	if len(got) != 2 || got[0] != "x" || got[1] != "9" {
		t.Errorf("allowList = %v, want [x 9]", got)
	}
}

func TestAllowListGetterFailureSkipsElement(t *testing.T) {
	fac := hostval.NewArrayLike()
	fac.Set("length", hostval.Number(2))
	fac.DefineGetter("0", func(this *hostval.Value, args []*hostval.Value) (*hostval.Value, error) {
		return nil, errTest
	})
	fac.Set("1", hostval.String("ok"))

	got := allowList(fac)
	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("allowList = %v, want [ok]", got)
	}
}

var errTest = errFixed("test failure")

type errFixed string

func (e errFixed) Error() string { return string(e) }

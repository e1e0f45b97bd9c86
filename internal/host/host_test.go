package host

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/value"
)

type fakeGlobals struct {
	set map[string]value.Value
}

func (f *fakeGlobals) SetGlobal(name string, v value.Value) {
	if f.set == nil {
		f.set = map[string]value.Value{}
	}
	f.set[name] = v
}

func TestInstallRegistersEveryBuiltin(t *testing.T) {
	var buf bytes.Buffer
	r := Core(bufio.NewWriter(&buf))
	fg := &fakeGlobals{}
	r.Install(fg)

	for _, name := range []string{"ioo.print", "ioo.println", "str.upper", "alg.map"} {
		if _, ok := fg.set[name]; !ok {
			t.Fatalf("expected %s to be installed", name)
		}
	}
}

func TestIoPrintln(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	r := Core(w)
	fg := &fakeGlobals{}
	r.Install(fg)

	println := fg.set["ioo.println"].AsCallable().(*value.Builtin)
	in := value.NewInterner()
	_, d := println.Fn([]value.Value{value.Str(in.Intern("hi")), value.Int(1)}, nil)
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if buf.String() != "hi 1\n" {
		t.Fatalf("got %q, want %q", buf.String(), "hi 1\n")
	}
}

func TestStrUpperRejectsNonString(t *testing.T) {
	var buf bytes.Buffer
	r := Core(bufio.NewWriter(&buf))
	fg := &fakeGlobals{}
	r.Install(fg)

	upper := fg.set["str.upper"].AsCallable().(*value.Builtin)
	_, d := upper.Fn([]value.Value{value.Int(1)}, nil)
	if d == nil {
		t.Fatal("expected a diagnostic for a non-string argument")
	}
}

func TestAlgMapAppliesCallback(t *testing.T) {
	var buf bytes.Buffer
	r := Core(bufio.NewWriter(&buf))
	fg := &fakeGlobals{}
	r.Install(fg)

	mapFn := fg.set["alg.map"].AsCallable().(*value.Builtin)
	list := value.FromList(value.NewList([]value.Value{value.Int(1), value.Int(2), value.Int(3)}))

	double := value.FromBuiltin(value.NewBuiltin("double", 1, false,
		func(args []value.Value, _ value.CallFunc) (value.Value, *diag.Diagnostic) {
			return value.Int(args[0].AsInt() * 2), nil
		}))

	result, d := mapFn.Fn([]value.Value{list, double}, func(callee value.Value, args []value.Value) (value.Value, *diag.Diagnostic) {
		return callee.AsCallable().(*value.Builtin).Fn(args, nil)
	})
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	out := result.AsList()
	if out.Len() != 3 {
		t.Fatalf("expected 3 results, got %d", out.Len())
	}
	got, _ := out.Get(1)
	if got.AsInt() != 4 {
		t.Fatalf("alg.map([1,2,3], double)[1] = %d, want 4", got.AsInt())
	}
}

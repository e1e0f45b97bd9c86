package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/axiom-lang/axiom/internal/diag"
)

// ints extracts plain int64s from a list of KindInt values so list contents
// can be compared with cmp.Diff instead of by hand, element by element.
func ints(l *List) []int64 {
	out := make([]int64, l.Len())
	for i := range out {
		v, _ := l.Get(i)
		out[i] = v.AsInt()
	}
	return out
}

func TestInternerReturnsCanonicalPointer(t *testing.T) {
	in := NewInterner()
	a := in.Intern("hello")
	b := in.Intern("hello")
	if a != b {
		t.Fatal("expected the same *InternedString for equal contents")
	}
	if in.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", in.Len())
	}
	in.Intern("world")
	if in.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", in.Len())
	}
}

func TestAddIntStaysInt(t *testing.T) {
	v, d := Add(Int(2), Int(3), diag.Span{})
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if v.Kind() != KindInt || v.AsInt() != 5 {
		t.Fatalf("got %v", v)
	}
}

func TestAddPromotesToFloat(t *testing.T) {
	v, d := Add(Int(2), Float(0.5), diag.Span{})
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if v.Kind() != KindFloat || v.AsFloat() != 2.5 {
		t.Fatalf("got %v", v)
	}
}

func TestAddConcatenatesStrings(t *testing.T) {
	in := NewInterner()
	v, d := Add(Str(in.Intern("foo")), Str(in.Intern("bar")), diag.Span{})
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if v.AsString().Bytes != "foobar" {
		t.Fatalf("got %q, want foobar", v.AsString().Bytes)
	}
}

func TestDivAlwaysFloat(t *testing.T) {
	v, d := Div(Int(4), Int(2), diag.Span{})
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if v.Kind() != KindFloat || v.AsFloat() != 2 {
		t.Fatalf("got %v, want float 2", v)
	}
}

func TestDivByZeroIsADiagnosticNotAPanic(t *testing.T) {
	_, d := Div(Int(1), Int(0), diag.Span{})
	if d == nil {
		t.Fatal("expected a DivisionByZero diagnostic")
	}
}

func TestAddTypeMismatch(t *testing.T) {
	_, d := Add(Int(1), Bool(true), diag.Span{})
	if d == nil {
		t.Fatal("expected a TypeMismatch diagnostic")
	}
}

func TestShapeTransitionsAreSharedAcrossInstances(t *testing.T) {
	root := RootShape()
	a := root.Transition("x").Transition("y")
	b := root.Transition("x").Transition("y")
	if a != b {
		t.Fatal("two instances adding the same fields in the same order must converge on one Shape")
	}
	if slot, ok := a.Lookup("x"); !ok || slot != 0 {
		t.Fatalf("x slot = %d, ok=%v, want 0, true", slot, ok)
	}
	if slot, ok := a.Lookup("y"); !ok || slot != 1 {
		t.Fatalf("y slot = %d, ok=%v, want 1, true", slot, ok)
	}
}

func TestShapeTransitionDivergesOnDifferentFieldOrder(t *testing.T) {
	root := RootShape()
	xy := root.Transition("x").Transition("y")
	yx := root.Transition("y").Transition("x")
	if xy == yx {
		t.Fatal("adding fields in a different order must not converge on the same Shape")
	}
}

func TestEqComparesListsStructurally(t *testing.T) {
	a := FromList(NewList([]Value{Int(1), Int(2)}))
	b := FromList(NewList([]Value{Int(1), Int(2)}))
	if !Eq(a, b) {
		t.Fatal("expected structurally equal lists to compare equal")
	}
	if diff := cmp.Diff(ints(a.AsList()), ints(b.AsList())); diff != "" {
		t.Fatalf("list contents diverged (-a +b):\n%s", diff)
	}
}

package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axiom-lang/axiom/internal/lexer"
	"github.com/axiom-lang/axiom/internal/parser"
	"github.com/axiom-lang/axiom/internal/value"
	"github.com/axiom-lang/axiom/internal/vm"
)

// run lexes, parses and compiles src, then executes the resulting program
// on a fresh VM, failing the test on any stage's diagnostics.
func run(t *testing.T, src string) value.Value {
	t.Helper()

	lx := lexer.New("test.axm", []byte(src))
	tokens := lx.Tokenize()
	require.Empty(t, lx.Errors(), "lex errors")

	ps := parser.New("test.axm", tokens)
	file := ps.ParseFile()
	require.Empty(t, ps.Errors(), "parse errors")

	in := value.NewInterner()
	program, errs := Compile("test.axm", file, in)
	require.Empty(t, errs, "compile errors")

	m := vm.New(in, nil)
	result, d := m.Run(program)
	require.Nil(t, d, "runtime diagnostic")
	return result
}

func TestArithmeticPrecedence(t *testing.T) {
	result := run(t, `ret 2 + 3 * 4;`)
	require.Equal(t, value.KindInt, result.Kind())
	require.Equal(t, int64(14), result.AsInt())
}

func TestIfElse(t *testing.T) {
	result := run(t, `
		let x = 10;
		if x > 5 {
			ret 1;
		} else {
			ret 0;
		}
	`)
	if result.AsInt() != 1 {
		t.Fatalf("got %v, want 1", result)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	result := run(t, `
		let i = 0;
		let sum = 0;
		while i < 5 {
			sum = sum + i;
			i = i + 1;
		}
		ret sum;
	`)
	if result.AsInt() != 10 {
		t.Fatalf("got %v, want 10", result)
	}
}

// TestClosureCapturesByReference is the closure-capture correctness
// scenario: the closure captures `count` by reference, so each call's
// increment is seen by the next call instead of starting again from a
// copy taken at capture time.
func TestClosureCapturesByReference(t *testing.T) {
	result := run(t, `
		fn makeCounter() {
			let count = 0;
			fn incr() {
				count = count + 1;
				ret count;
			}
			ret incr;
		}
		let counter = makeCounter();
		counter();
		counter();
		ret counter();
	`)
	if result.AsInt() != 3 {
		t.Fatalf("got %v, want 3", result)
	}
}

func TestRecursiveFunctionCall(t *testing.T) {
	result := run(t, `
		fn fact(n) {
			if n <= 1 {
				ret 1;
			}
			ret n * fact(n - 1);
		}
		ret fact(5);
	`)
	if result.AsInt() != 120 {
		t.Fatalf("got %v, want 120", result)
	}
}

func TestForInOverListAccumulates(t *testing.T) {
	result := run(t, `
		let xs = [1, 2, 3, 4];
		let total = 0;
		for x in xs {
			total = total + x;
		}
		ret total;
	`)
	if result.AsInt() != 10 {
		t.Fatalf("got %v, want 10", result)
	}
}

func TestClassInstantiationAndMethodCall(t *testing.T) {
	result := run(t, `
		class Counter {
			n;
			fn init(start) {
				self.n = start;
			}
			fn bump() {
				self.n = self.n + 1;
				ret self.n;
			}
		}
		let c = Counter(0);
		c.bump();
		ret c.bump();
	`)
	if result.AsInt() != 2 {
		t.Fatalf("got %v, want 2", result)
	}
}

func TestMatchOverEnum(t *testing.T) {
	result := run(t, `
		enum Shape {
			Circle(r),
			Square(side),
		}
		let s = .Circle(2);
		let out = 0;
		match s {
			Circle(r) => out = r * r,
			Square(side) => out = side * side,
		}
		ret out;
	`)
	if result.AsInt() != 4 {
		t.Fatalf("got %v, want 4", result)
	}
}

package vm

import (
	"testing"

	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/value"
)

// buildArithProgram builds `ret 2 + 3` by hand: r0=2, r1=3, r0=r0+r1, return r0.
func buildArithProgram() *bytecode.Program {
	proto := &bytecode.Prototype{
		Name:          "main",
		RegisterCount: 2,
		Constants:     []interface{}{int64(2), int64(3)},
		Code: []bytecode.Instruction{
			{Op: bytecode.LoadConst, A: 0, B: 0},
			{Op: bytecode.LoadConst, A: 1, B: 1},
			{Op: bytecode.Add, A: 0, B: 0, C: 1},
			{Op: bytecode.Return, A: 0},
		},
	}
	return &bytecode.Program{Root: proto}
}

func TestRunArithmetic(t *testing.T) {
	m := New(value.NewInterner(), nil)
	result, d := m.Run(buildArithProgram())
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if result.Kind() != value.KindInt || result.AsInt() != 5 {
		t.Fatalf("got %v, want 5", result)
	}
}

func TestTailCallConstantFrames(t *testing.T) {
	// countdown(n) { if n <= 0 { ret n } ret countdown(n-1) }, called as a
	// tail call (§8.2): frame count must never grow with n.
	proto := &bytecode.Prototype{
		Name:          "countdown",
		Arity:         1,
		RegisterCount: 3,
		Constants:     []interface{}{int64(0), int64(1)},
	}
	selfReg := int32(2)
	proto.Code = []bytecode.Instruction{
		{Op: bytecode.LoadConst, A: 1, B: 0},       // r1 = 0
		{Op: bytecode.Le, A: 1, B: 0, C: 1},         // r1 = (n <= 0)
		{Op: bytecode.JumpIfFalse, A: 1, B: 1},      // false -> skip the return
		{Op: bytecode.Return, A: 0},
		{Op: bytecode.LoadConst, A: 1, B: 1},        // r1 = 1
		{Op: bytecode.Sub, A: 0, B: 0, C: 1},         // r0 = n - 1
		{Op: bytecode.GetUpvalue, A: selfReg, B: 0},
		{Op: bytecode.TailCall, A: 0, B: selfReg, C: 0, D: 1},
	}
	closure := value.NewClosure(proto, nil)
	selfVal := value.FromClosure(closure)
	closure.Upvalues = []*value.Upvalue{value.NewOpenUpvalue(&selfVal)}

	m := New(value.NewInterner(), nil)
	m.MaxCallDepth = 64 // small on purpose: a non-tail recursion of this depth would overflow
	result, d := m.Call(value.FromClosure(closure), []value.Value{value.Int(100000)})
	if d != nil {
		t.Fatalf("unexpected diagnostic (stack should stay flat): %v", d)
	}
	if result.AsInt() != 0 {
		t.Fatalf("countdown(100000) = %d, want 0", result.AsInt())
	}
}

func TestStackOverflow(t *testing.T) {
	// A non-tail-recursive call (Call, not TailCall) grows the frame stack
	// every iteration, so it must raise AXM_408 rather than exhausting the
	// Go stack (§8.8).
	proto := &bytecode.Prototype{
		Name:          "grow",
		Arity:         1,
		RegisterCount: 3,
	}
	selfReg := int32(2)
	proto.Code = []bytecode.Instruction{
		{Op: bytecode.GetUpvalue, A: selfReg, B: 0},
		{Op: bytecode.Call, A: 1, B: selfReg, C: 0, D: 1},
		{Op: bytecode.Return, A: 1},
	}
	closure := value.NewClosure(proto, nil)
	selfVal := value.FromClosure(closure)
	closure.Upvalues = []*value.Upvalue{value.NewOpenUpvalue(&selfVal)}

	m := New(value.NewInterner(), nil)
	m.MaxCallDepth = 50
	_, d := m.Call(value.FromClosure(closure), []value.Value{value.Int(0)})
	if d == nil {
		t.Fatal("expected a StackOverflow diagnostic")
	}
}

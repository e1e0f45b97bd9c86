package opt

import (
	"testing"

	"github.com/axiom-lang/axiom/internal/bytecode"
)

func TestConstantFolding(t *testing.T) {
	proto := &bytecode.Prototype{
		Name:      "f",
		Constants: []interface{}{int64(2), int64(3)},
		Code: []bytecode.Instruction{
			{Op: bytecode.LoadConst, A: 0, B: 0},
			{Op: bytecode.LoadConst, A: 1, B: 1},
			{Op: bytecode.Add, A: 2, B: 0, C: 1},
			{Op: bytecode.Return, A: 2},
		},
	}
	pass := ConstantFolding{}
	if !pass.Apply(proto) {
		t.Fatal("expected a change")
	}
	folded := proto.Code[2]
	if folded.Op != bytecode.LoadConst {
		t.Fatalf("expected the Add to become a LoadConst, got %s", folded.Op)
	}
	if got := proto.Constants[folded.B].(int64); got != 5 {
		t.Fatalf("folded constant = %d, want 5", got)
	}
}

func TestQuickeningRewritesArithmetic(t *testing.T) {
	proto := &bytecode.Prototype{
		Code: []bytecode.Instruction{
			{Op: bytecode.Add, A: 0, B: 1, C: 2},
			{Op: bytecode.Lt, A: 3, B: 1, C: 2},
		},
	}
	pass := Quickening{}
	if !pass.Apply(proto) {
		t.Fatal("expected a change")
	}
	if proto.Code[0].Op != bytecode.AddInt {
		t.Fatalf("Add not quickened, got %s", proto.Code[0].Op)
	}
	if proto.Code[1].Op != bytecode.LtInt {
		t.Fatalf("Lt not quickened, got %s", proto.Code[1].Op)
	}
}

func TestQuickeningIncrLocal(t *testing.T) {
	proto := &bytecode.Prototype{
		Constants: []interface{}{int64(1)},
		Code: []bytecode.Instruction{
			{Op: bytecode.LoadConst, A: 1, B: 0},
			{Op: bytecode.AddInt, A: 0, B: 0, C: 1},
		},
	}
	pass := Quickening{}
	if !pass.Apply(proto) {
		t.Fatal("expected a change")
	}
	if proto.Code[1].Op != bytecode.IncrLocal || proto.Code[1].A != 0 {
		t.Fatalf("expected IncrLocal on r0, got %+v", proto.Code[1])
	}
}

func TestPeepholeMoveRemovesSelfMoveAndFixesJumps(t *testing.T) {
	proto := &bytecode.Prototype{
		Code: []bytecode.Instruction{
			{Op: bytecode.Move, A: 0, B: 0}, // dead self-move at pc 0
			{Op: bytecode.Jump, B: 1},       // pc 1: jump to pc 1+1+1=3
			{Op: bytecode.LoadNil, A: 0},    // pc 2
			{Op: bytecode.Return, A: 0},     // pc 3
		},
	}
	pass := PeepholeMove{}
	if !pass.Apply(proto) {
		t.Fatal("expected a change")
	}
	if len(proto.Code) != 3 {
		t.Fatalf("expected 3 remaining instructions, got %d", len(proto.Code))
	}
	// The jump (now at pc 0) must still land on Return (now at pc 2).
	jump := proto.Code[0]
	target := 0 + 1 + int(jump.B)
	if proto.Code[target].Op != bytecode.Return {
		t.Fatalf("jump target after removal = %s, want Return", proto.Code[target].Op)
	}
}

func TestJumpThreading(t *testing.T) {
	proto := &bytecode.Prototype{
		Code: []bytecode.Instruction{
			{Op: bytecode.Jump, B: 0}, // pc0 -> pc1
			{Op: bytecode.Jump, B: 0}, // pc1 -> pc2
			{Op: bytecode.Return, A: 0},
		},
	}
	pass := JumpThreading{}
	if !pass.Apply(proto) {
		t.Fatal("expected a change")
	}
	target := 0 + 1 + int(proto.Code[0].B)
	if target != 2 {
		t.Fatalf("threaded jump target = %d, want 2", target)
	}
}

func TestDeadCodeEliminationDropsUnreachableTail(t *testing.T) {
	proto := &bytecode.Prototype{
		Code: []bytecode.Instruction{
			{Op: bytecode.Return, A: 0},  // pc0: terminator
			{Op: bytecode.LoadNil, A: 1}, // pc1: unreachable
			{Op: bytecode.LoadNil, A: 2}, // pc2: unreachable
		},
	}
	pass := DeadCodeElimination{}
	if !pass.Apply(proto) {
		t.Fatal("expected a change")
	}
	if len(proto.Code) != 1 {
		t.Fatalf("expected only the terminator to survive, got %d instructions", len(proto.Code))
	}
}

func TestDeadCodeEliminationKeepsJumpTargets(t *testing.T) {
	proto := &bytecode.Prototype{
		Code: []bytecode.Instruction{
			{Op: bytecode.Jump, B: 1},    // pc0 -> pc2
			{Op: bytecode.Return, A: 0},  // pc1: terminator, nothing after it is dead since pc2 is a target
			{Op: bytecode.LoadNil, A: 0}, // pc2: reachable via the jump
			{Op: bytecode.Return, A: 0},  // pc3
		},
	}
	pass := DeadCodeElimination{}
	pass.Apply(proto)
	for _, instr := range proto.Code {
		if instr.Op == bytecode.LoadNil {
			return
		}
	}
	t.Fatal("jump target must survive dead-code elimination")
}

func TestPipelineRunIsIdempotentAtFixedPoint(t *testing.T) {
	proto := &bytecode.Prototype{
		Name:      "f",
		Constants: []interface{}{int64(2), int64(3)},
		Code: []bytecode.Instruction{
			{Op: bytecode.LoadConst, A: 0, B: 0},
			{Op: bytecode.LoadConst, A: 1, B: 1},
			{Op: bytecode.Add, A: 2, B: 0, C: 1},
			{Op: bytecode.Return, A: 2},
		},
	}
	Default().Run(proto)
	before := len(proto.Code)
	Default().Run(proto)
	if len(proto.Code) != before {
		t.Fatalf("pipeline not at a fixed point: %d instructions before second run, %d after", before, len(proto.Code))
	}
}

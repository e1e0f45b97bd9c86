package opt

import "github.com/axiom-lang/axiom/internal/bytecode"

// ConstantFolding recognizes LoadConst, LoadConst, <arith> triples over
// int64 constants with no intervening write to either source register,
// and replaces the arithmetic instruction with a LoadConst of the folded
// result. The two LoadConst instructions are left in place — ordinary
// dead-code elimination removes them later if nothing else reads those
// registers — so this pass never has to reason about other uses.
type ConstantFolding struct{}

func (ConstantFolding) Name() string { return "constant_folding" }
func (ConstantFolding) Description() string {
	return "fold arithmetic over two immediately-preceding integer constants"
}

func (p ConstantFolding) Apply(proto *bytecode.Prototype) bool {
	code := proto.Code
	changed := false
	for i := 2; i < len(code); i++ {
		instr := code[i]
		var fold func(a, b int64) (int64, bool)
		switch instr.Op {
		case bytecode.Add:
			fold = func(a, b int64) (int64, bool) { return a + b, true }
		case bytecode.Sub:
			fold = func(a, b int64) (int64, bool) { return a - b, true }
		case bytecode.Mul:
			fold = func(a, b int64) (int64, bool) { return a * b, true }
		default:
			continue
		}
		load1, load2 := code[i-2], code[i-1]
		if load1.Op != bytecode.LoadConst || load2.Op != bytecode.LoadConst {
			continue
		}
		if load1.A != instr.B || load2.A != instr.C {
			continue
		}
		c1, ok1 := proto.Constants[load1.B].(int64)
		c2, ok2 := proto.Constants[load2.B].(int64)
		if !ok1 || !ok2 {
			continue
		}
		result, ok := fold(c1, c2)
		if !ok {
			continue
		}
		idx := int32(len(proto.Constants))
		proto.Constants = append(proto.Constants, result)
		code[i] = bytecode.Instruction{Op: bytecode.LoadConst, A: instr.A, B: idx}
		changed = true
	}
	return changed
}

// Quickening rewrites Add/Sub/Mul/Lt to their Int fast-path siblings, and
// IncrLocal/DecrLocal for the self-increment/decrement shape those
// siblings produce when fed a constant +1/-1. This is always safe: every
// fast-path opcode's VM handler falls back to the generic arithmetic path
// the moment an operand isn't a KindInt (deopt_on_type_change, §4.F), so
// the rewrite can never change a program's observable result — it only
// changes which opcode reaches that same result.
type Quickening struct{}

func (Quickening) Name() string        { return "quickening" }
func (Quickening) Description() string { return "rewrite generic arithmetic to int fast paths" }

func (p Quickening) Apply(proto *bytecode.Prototype) bool {
	changed := false
	for i, instr := range proto.Code {
		switch instr.Op {
		case bytecode.Add:
			proto.Code[i].Op = bytecode.AddInt
			changed = true
		case bytecode.Sub:
			proto.Code[i].Op = bytecode.SubInt
			changed = true
		case bytecode.Mul:
			proto.Code[i].Op = bytecode.MulInt
			changed = true
		case bytecode.Lt:
			proto.Code[i].Op = bytecode.LtInt
			changed = true
		}
	}
	// Second sweep: AddInt/SubInt of a self-referencing register by a
	// literal +1/-1 becomes IncrLocal/DecrLocal. Looked for after the
	// first sweep so a triple that was just folded by ConstantFolding or
	// quickened above is still recognized on the next pipeline round.
	for i := 1; i < len(proto.Code); i++ {
		instr := proto.Code[i]
		if instr.Op != bytecode.AddInt && instr.Op != bytecode.SubInt {
			continue
		}
		if instr.A != instr.B {
			continue
		}
		load := proto.Code[i-1]
		if load.Op != bytecode.LoadConst || load.A != instr.C {
			continue
		}
		n, ok := proto.Constants[load.B].(int64)
		if !ok || n != 1 {
			continue
		}
		if instr.Op == bytecode.AddInt {
			proto.Code[i] = bytecode.Instruction{Op: bytecode.IncrLocal, A: instr.A}
		} else {
			proto.Code[i] = bytecode.Instruction{Op: bytecode.DecrLocal, A: instr.A}
		}
		changed = true
	}
	return changed
}

// PeepholeMove removes `Move d, d` (a register copy onto itself),
// produced occasionally by the compiler's expression lowering when a
// value is already sitting in its target register.
type PeepholeMove struct{}

func (PeepholeMove) Name() string        { return "peephole_move" }
func (PeepholeMove) Description() string { return "drop self-moves (Move d, d)" }

func (p PeepholeMove) Apply(proto *bytecode.Prototype) bool {
	changed := false
	out := proto.Code[:0]
	removed := make([]int, 0)
	for i, instr := range proto.Code {
		if instr.Op == bytecode.Move && instr.A == instr.B {
			removed = append(removed, i)
			changed = true
			continue
		}
		out = append(out, instr)
	}
	if !changed {
		return false
	}
	proto.Code = out
	rewriteJumps(proto, removed)
	return true
}

// JumpThreading chases a Jump whose target is itself an unconditional
// Jump and rewrites the first jump's offset to land directly on the
// chain's final target, so the VM never executes a jump purely to
// execute another jump. Bounded by the code length so a (malformed,
// hand-built) jump cycle can't loop forever.
type JumpThreading struct{}

func (JumpThreading) Name() string        { return "jump_threading" }
func (JumpThreading) Description() string { return "collapse chains of unconditional jumps" }

func (p JumpThreading) Apply(proto *bytecode.Prototype) bool {
	code := proto.Code
	changed := false
	for i, instr := range code {
		if instr.Op != bytecode.Jump {
			continue
		}
		target := i + 1 + int(instr.B)
		final := target
		for steps := 0; steps < len(code); steps++ {
			if final < 0 || final >= len(code) || code[final].Op != bytecode.Jump {
				break
			}
			next := final + 1 + int(code[final].B)
			if next == final {
				break
			}
			final = next
		}
		if final != target {
			code[i].B = int32(final - (i + 1))
			changed = true
		}
	}
	return changed
}

// DeadCodeElimination drops instructions that can provably never
// execute: anything between an unconditional Jump or Return and the next
// instruction that some jump in the prototype actually targets. Removing
// instructions shifts every later PC, so every jump's offset (and
// MatchTag's mismatch offset) is recomputed against the new layout rather
// than left to drift.
type DeadCodeElimination struct{}

func (DeadCodeElimination) Name() string        { return "dead_code_elimination" }
func (DeadCodeElimination) Description() string { return "remove unreachable instructions after a terminator" }

func (p DeadCodeElimination) Apply(proto *bytecode.Prototype) bool {
	code := proto.Code
	targets := jumpTargets(code)

	dead := make([]bool, len(code))
	unreachable := false
	for i, instr := range code {
		if targets[i] {
			unreachable = false
		}
		if unreachable {
			dead[i] = true
			continue
		}
		if instr.Op == bytecode.Jump || instr.Op == bytecode.Return {
			unreachable = true
		}
	}

	removed := make([]int, 0)
	for i, d := range dead {
		if d {
			removed = append(removed, i)
		}
	}
	if len(removed) == 0 {
		return false
	}

	kept := make([]bytecode.Instruction, 0, len(code)-len(removed))
	for i, instr := range code {
		if !dead[i] {
			kept = append(kept, instr)
		}
	}
	proto.Code = kept
	rewriteJumpsFiltered(proto, dead)
	return true
}

// jumpTargets returns, for each PC, whether some jump-like instruction in
// code can land there.
func jumpTargets(code []bytecode.Instruction) []bool {
	targets := make([]bool, len(code)+1)
	for i, instr := range code {
		switch instr.Op {
		case bytecode.Jump, bytecode.JumpIfTrue, bytecode.JumpIfFalse:
			t := i + 1 + int(instr.B)
			if t >= 0 && t < len(targets) {
				targets[t] = true
			}
		case bytecode.MatchTag:
			t := i + 1 + int(instr.C)
			if t >= 0 && t < len(targets) {
				targets[t] = true
			}
		}
	}
	return targets
}

// rewriteJumps recomputes every jump offset in proto.Code after the PCs
// listed in removed (already deleted from proto.Code by the caller) have
// been dropped, using a simple old-index -> new-index map built from the
// sorted removed list. Used by passes (like PeepholeMove) that remove
// instructions without touching control flow targets themselves.
func rewriteJumps(proto *bytecode.Prototype, removed []int) {
	if len(removed) == 0 {
		return
	}
	removedSet := make(map[int]bool, len(removed))
	for _, i := range removed {
		removedSet[i] = true
	}
	total := len(proto.Code) + len(removed)
	dead := make([]bool, total)
	for i := range dead {
		dead[i] = removedSet[i]
	}
	rewriteJumpsFiltered(proto, dead)
}

// rewriteJumpsFiltered maps every jump/MatchTag offset in proto.Code (the
// already-filtered instruction slice) from the old PC space to the new
// one, given dead[oldPC] marking which original instructions were
// dropped. proto.Code at call time must already be the filtered slice,
// walked in lockstep with dead to recover each surviving instruction's
// old PC.
func rewriteJumpsFiltered(proto *bytecode.Prototype, dead []bool) {
	oldToNew := make([]int, len(dead)+1)
	newIdx := 0
	for old := 0; old < len(dead); old++ {
		oldToNew[old] = newIdx
		if !dead[old] {
			newIdx++
		}
	}
	oldToNew[len(dead)] = newIdx

	code := proto.Code
	oldPC := 0
	for newPC := range code {
		for oldPC < len(dead) && dead[oldPC] {
			oldPC++
		}
		instr := &code[newPC]
		switch instr.Op {
		case bytecode.Jump, bytecode.JumpIfTrue, bytecode.JumpIfFalse:
			oldTarget := oldPC + 1 + int(instr.B)
			newTarget := oldToNew[clamp(oldTarget, len(oldToNew)-1)]
			instr.B = int32(newTarget - (newPC + 1))
		case bytecode.MatchTag:
			oldTarget := oldPC + 1 + int(instr.C)
			newTarget := oldToNew[clamp(oldTarget, len(oldToNew)-1)]
			instr.C = int32(newTarget - (newPC + 1))
		}
		oldPC++
	}
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

package vm

import (
	"go.uber.org/zap"

	"github.com/axiom-lang/axiom/internal/bytecode"
)

// trace logs one instruction before it executes, gated on AXIOM_DEBUG=1
// (wired by cmd/axiom into VM.Debug/VM.Logger per §4.G.1). Kept cheap when
// disabled: callers only reach this from the hot loop when vm.Debug is
// already true.
func (vm *VM) trace(frame *Frame, pc int, instr bytecode.Instruction) {
	vm.Logger.Info("op",
		zap.String("proto", frame.Proto.Name),
		zap.Int("pc", pc),
		zap.String("op", instr.Op.String()),
		zap.Int32("a", instr.A),
		zap.Int32("b", instr.B),
		zap.Int32("c", instr.C),
		zap.Int32("d", instr.D),
		zap.Int("depth", len(vm.frames)),
	)
}

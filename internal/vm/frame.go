package vm

import (
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/value"
)

// Frame is one call's register file and execution cursor (§3.3): a
// prototype, its register file, a program counter, and where the frame's
// eventual return value should land in the caller.
type Frame struct {
	Closure *value.Closure
	Proto   *bytecode.Prototype
	Regs    []value.Value
	PC      int

	// ReturnDest is the caller's register to receive this frame's return
	// value. -1 marks a frame pushed by Go-level re-entry (Run's root
	// frame, or a builtin calling back into user code via VM.Call) where
	// there is no bytecode caller register to write into.
	ReturnDest int32

	// open holds upvalues captured from this frame's still-live registers,
	// keyed by register index, so two closures capturing the same local
	// share one Upvalue (§3.2).
	open map[int32]*value.Upvalue

	// isInit marks a frame running a class's `init`: Return stores
	// pendingInstance into the caller's destination instead of its own
	// return value (§4.G: "construct an instance ... run init method if
	// present").
	isInit          bool
	pendingInstance value.Value
}

// openUpvalue returns the upvalue aliasing register reg, creating it on
// first capture and reusing it on every later one.
func (f *Frame) openUpvalue(reg int32) *value.Upvalue {
	if f.open == nil {
		f.open = map[int32]*value.Upvalue{}
	}
	if uv, ok := f.open[reg]; ok {
		return uv
	}
	uv := value.NewOpenUpvalue(&f.Regs[reg])
	f.open[reg] = uv
	return uv
}

// closeUpvalues snapshots every upvalue this frame opened before its
// register file is discarded or reused by a tail call.
func (f *Frame) closeUpvalues() {
	for _, uv := range f.open {
		uv.Close()
	}
	f.open = nil
}

// bindArgs allocates a fresh, zero-valued register file sized to proto and
// copies args into registers 0..arity-1 (§4.G: "copy args into registers
// 0…n-1"). A variadic prototype's trailing parameter instead receives a
// List of every argument from its position onward.
func bindArgs(proto *bytecode.Prototype, args []value.Value) []value.Value {
	regs := make([]value.Value, proto.RegisterCount)
	if proto.IsVariadic {
		fixed := proto.Arity - 1
		for i := 0; i < fixed && i < len(args); i++ {
			regs[i] = args[i]
		}
		var rest []value.Value
		if len(args) > fixed {
			rest = append(rest, args[fixed:]...)
		}
		regs[fixed] = value.FromList(value.NewList(rest))
		return regs
	}
	for i := 0; i < len(args) && i < proto.Arity; i++ {
		regs[i] = args[i]
	}
	return regs
}

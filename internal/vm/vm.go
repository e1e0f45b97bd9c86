// Package vm implements Axiom's register-based bytecode interpreter
// (§4.G): a flat, non-recursive execution loop over a stack of Frames,
// recursing through the Go call stack only at the one spec-sanctioned
// re-entry boundary (VM.Call, used by builtins calling back into user
// closures).
package vm

import (
	"github.com/dolthub/swiss"
	"go.uber.org/zap"

	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/profile"
	"github.com/axiom-lang/axiom/internal/value"
)

// sampleInterval is how many executed instructions pass between profiler
// stack samples, a GC-safepoint-like tick that never falls mid-instruction.
const sampleInterval = 1000

// defaultMaxCallDepth bounds the frame stack before a StackOverflow
// diagnostic is raised rather than exhausting the Go stack (§4.G).
const defaultMaxCallDepth = 500

// VM is one interpreter instance: global bindings, the string interner
// shared with the compiler that produced the program it runs, and the
// live frame stack.
type VM struct {
	Globals      *swiss.Map[string, value.Value]
	Interner     *value.Interner
	MaxCallDepth int
	Debug        bool
	Logger       *zap.Logger
	Profiler     *profile.Profiler

	frames     []*Frame
	caches     map[*bytecode.Prototype]*protoCache
	lastReturn value.Value
	steps      int64
}

// New creates a VM sharing in (the compiler's interner, so interned
// strings compare by identity across compile and run) and logging opcode
// traces to logger when Debug is enabled (AXIOM_DEBUG=1, wired in cmd/axiom).
func New(in *value.Interner, logger *zap.Logger) *VM {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VM{
		Globals:      swiss.NewMap[string, value.Value](64),
		Interner:     in,
		MaxCallDepth: defaultMaxCallDepth,
		Logger:       logger,
		caches:       map[*bytecode.Prototype]*protoCache{},
	}
}

// SetGlobal/GetGlobal let host setup (internal/host) and cmd/axiom seed
// builtins before Run starts.
func (vm *VM) SetGlobal(name string, v value.Value) { vm.Globals.Put(name, v) }

func (vm *VM) GetGlobal(name string) (value.Value, bool) { return vm.Globals.Get(name) }

// Run executes program's root prototype to completion and returns its
// final value, or the diagnostic that aborted execution.
func (vm *VM) Run(program *bytecode.Program) (value.Value, *diag.Diagnostic) {
	root := &Frame{Proto: program.Root, Regs: make([]value.Value, program.Root.RegisterCount), ReturnDest: -1}
	vm.frames = append(vm.frames, root)
	return vm.run(0)
}

// run drives every frame at index >= floor to completion, returning once
// the frame stack has unwound back down to floor. floor > 0 only for a
// builtin's re-entrant VM.Call, where run must not touch frames the outer
// call owns.
func (vm *VM) run(floor int) (value.Value, *diag.Diagnostic) {
	for len(vm.frames) > floor {
		frame := vm.frames[len(vm.frames)-1]
		if frame.PC >= len(frame.Proto.Code) {
			// Prototypes compiled by this package always end in an
			// explicit Return; falling off the end only happens against
			// hand-built bytecode (tests, tooling).
			vm.popFrame(frame, value.Nil)
			continue
		}
		instr := frame.Proto.Code[frame.PC]
		frame.PC++

		if vm.Debug {
			vm.trace(frame, frame.PC-1, instr)
		}
		if vm.Profiler != nil {
			vm.Profiler.CountOp(instr.Op)
			vm.steps++
			if vm.steps%sampleInterval == 0 {
				vm.Profiler.Sample(vm.stackNames())
			}
		}

		if d := vm.step(frame, instr); d != nil {
			return value.Nil, vm.attachTrace(d)
		}
	}
	return vm.lastReturn, nil
}

// popFrame removes the top frame, closes its upvalues, and writes its
// result into the caller's destination register, or into vm.lastReturn
// when ReturnDest == -1 (the Go-level re-entry marker used by Run/Call's
// root frames).
func (vm *VM) popFrame(frame *Frame, result value.Value) {
	if frame.isInit {
		result = frame.pendingInstance
	}
	frame.closeUpvalues()
	vm.frames = vm.frames[:len(vm.frames)-1]
	if frame.ReturnDest == -1 {
		vm.lastReturn = result
		return
	}
	caller := vm.frames[len(vm.frames)-1]
	caller.Regs[frame.ReturnDest] = result
}

// stackNames returns the current frame chain's prototype names, oldest
// first, for a profiler sample.
func (vm *VM) stackNames() profile.Sample {
	names := make(profile.Sample, len(vm.frames))
	for i, f := range vm.frames {
		names[i] = f.Proto.Name
	}
	return names
}

// attachTrace adds the aborting instruction's source span as the
// diagnostic's primary span when the diagnostic was raised without one
// (a zero Span), so every runtime error points at real source text.
func (vm *VM) attachTrace(d *diag.Diagnostic) *diag.Diagnostic {
	if d.Primary != (diag.Span{}) || len(vm.frames) == 0 {
		return d
	}
	top := vm.frames[len(vm.frames)-1]
	pc := top.PC - 1
	if pc < 0 {
		pc = 0
	}
	d.Primary = top.Proto.SpanFor(pc)
	return d
}

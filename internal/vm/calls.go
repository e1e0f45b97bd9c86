package vm

import (
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/value"
)

func checkArity(proto *bytecode.Prototype, argc int, span diag.Span) *diag.Diagnostic {
	if proto.IsVariadic {
		if argc < proto.Arity-1 {
			return diag.Newf(diag.ArityMismatch, span, "'%s' expects at least %d argument(s), got %d", proto.Name, proto.Arity-1, argc)
		}
		return nil
	}
	if argc != proto.Arity {
		return diag.Newf(diag.ArityMismatch, span, "'%s' expects %d argument(s), got %d", proto.Name, proto.Arity, argc)
	}
	return nil
}

// opCall/opMethodCall (exec.go) and the Go-level Call re-entry point both
// route through dispatch so "what does calling this value mean" (§4.G) has
// one definition regardless of whether the call originated from bytecode
// or from a builtin calling back in.

// dispatch performs a bytecode-originated call: dst is the calling frame's
// destination register, tail requests the current-frame-reuse behavior for
// a closure callee (TailCall). Builtins and class construction never reuse
// the frame since they never grow the call stack the way a closure call
// does.
func (vm *VM) dispatch(frame *Frame, dst int32, callee value.Value, args []value.Value, span diag.Span, tail bool) *diag.Diagnostic {
	switch callee.Kind() {
	case value.KindFunc:
		switch fn := callee.AsCallable().(type) {
		case *value.Closure:
			if d := checkArity(fn.Proto, len(args), span); d != nil {
				return d
			}
			if tail {
				frame.closeUpvalues()
				frame.Closure = fn
				frame.Proto = fn.Proto
				frame.Regs = bindArgs(fn.Proto, args)
				frame.PC = 0
				return nil
			}
			if len(vm.frames) >= vm.MaxCallDepth {
				return diag.New(diag.StackOverflow, span)
			}
			vm.frames = append(vm.frames, &Frame{
				Closure: fn, Proto: fn.Proto, Regs: bindArgs(fn.Proto, args), ReturnDest: dst,
			})
			return nil
		case *value.Builtin:
			if d := checkBuiltinArity(fn, len(args), span); d != nil {
				return d
			}
			v, d := fn.Fn(args, vm.Call)
			if d != nil {
				return d
			}
			frame.Regs[dst] = v
			return nil
		}
		return diag.New(diag.NotCallable, span)
	case value.KindClass:
		inst, d := vm.construct(callee.AsClass(), args, span)
		if d != nil {
			return d
		}
		if inst.pushed {
			inst.frame.ReturnDest = dst
			vm.frames = append(vm.frames, inst.frame)
			return nil
		}
		frame.Regs[dst] = inst.value
		return nil
	case value.KindNil:
		return diag.New(diag.NilCall, span)
	default:
		return diag.New(diag.NotCallable, span).WithHelp("value of type '%s' is not callable", callee.TypeName())
	}
}

func checkBuiltinArity(b *value.Builtin, argc int, span diag.Span) *diag.Diagnostic {
	if b.Variadic {
		if argc < b.Arity {
			return diag.Newf(diag.ArityMismatch, span, "'%s' expects at least %d argument(s), got %d", b.Name, b.Arity, argc)
		}
		return nil
	}
	if argc != b.Arity {
		return diag.Newf(diag.ArityMismatch, span, "'%s' expects %d argument(s), got %d", b.Name, b.Arity, argc)
	}
	return nil
}

// constructResult distinguishes a class with no `init` (the instance is
// immediately ready) from one with an `init` (a frame must run first).
type constructResult struct {
	pushed bool
	value  value.Value
	frame  *Frame
}

func (vm *VM) construct(cls *value.Class, args []value.Value, span diag.Span) (constructResult, *diag.Diagnostic) {
	inst := value.NewInstance(cls)
	instVal := value.FromInstance(inst)
	initClosure, ok := cls.Lookup("init")
	if !ok {
		return constructResult{value: instVal}, nil
	}
	full := append([]value.Value{instVal}, args...)
	if d := checkArity(initClosure.Proto, len(full), span); d != nil {
		return constructResult{}, d
	}
	if len(vm.frames) >= vm.MaxCallDepth {
		return constructResult{}, diag.New(diag.StackOverflow, span)
	}
	frame := &Frame{
		Closure: initClosure, Proto: initClosure.Proto, Regs: bindArgs(initClosure.Proto, full),
		isInit: true, pendingInstance: instVal,
	}
	return constructResult{pushed: true, value: instVal, frame: frame}, nil
}

// Call satisfies value.CallFunc (§4.H.2): a builtin re-entering the
// interpreter to invoke a user closure consumes stack depth like any other
// call, and may itself recurse through the Go stack — the one exception to
// the VM's otherwise-flat dispatch loop.
func (vm *VM) Call(callee value.Value, args []value.Value) (value.Value, *diag.Diagnostic) {
	span := vm.currentSpan()
	switch callee.Kind() {
	case value.KindFunc:
		switch fn := callee.AsCallable().(type) {
		case *value.Closure:
			if d := checkArity(fn.Proto, len(args), span); d != nil {
				return value.Nil, d
			}
			if len(vm.frames) >= vm.MaxCallDepth {
				return value.Nil, diag.New(diag.StackOverflow, span)
			}
			base := len(vm.frames)
			vm.frames = append(vm.frames, &Frame{
				Closure: fn, Proto: fn.Proto, Regs: bindArgs(fn.Proto, args), ReturnDest: -1,
			})
			return vm.run(base)
		case *value.Builtin:
			if d := checkBuiltinArity(fn, len(args), span); d != nil {
				return value.Nil, d
			}
			return fn.Fn(args, vm.Call)
		}
		return value.Nil, diag.New(diag.NotCallable, span)
	case value.KindClass:
		result, d := vm.construct(callee.AsClass(), args, span)
		if d != nil {
			return value.Nil, d
		}
		if !result.pushed {
			return result.value, nil
		}
		result.frame.ReturnDest = -1
		base := len(vm.frames)
		vm.frames = append(vm.frames, result.frame)
		if _, d := vm.run(base); d != nil {
			return value.Nil, d
		}
		return result.value, nil
	case value.KindNil:
		return value.Nil, diag.New(diag.NilCall, span)
	default:
		return value.Nil, diag.New(diag.NotCallable, span)
	}
}

// dispatchMethod implements MethodCall: resolve name against the
// receiver's class method table (instances only — §4.C gives methods to
// classes, not arbitrary values) and call it with the receiver already in
// args[0], matching a method's synthetic leading `self` parameter.
func (vm *VM) dispatchMethod(frame *Frame, dst int32, args []value.Value, name string, span diag.Span) *diag.Diagnostic {
	receiver := args[0]
	if receiver.Kind() != value.KindInstance {
		return diag.New(diag.TypeMismatch, span).WithHelp("'.%s(...)' requires an instance, got %s", name, receiver.TypeName())
	}
	method, ok := receiver.AsInstance().Class.Lookup(name)
	if !ok {
		return diag.Newf(diag.UndefinedIdentifier, span, "undefined method '%s' on '%s'", name, receiver.AsInstance().Class.Name)
	}
	if d := checkArity(method.Proto, len(args), span); d != nil {
		return d
	}
	if len(vm.frames) >= vm.MaxCallDepth {
		return diag.New(diag.StackOverflow, span)
	}
	vm.frames = append(vm.frames, &Frame{
		Closure: method, Proto: method.Proto, Regs: bindArgs(method.Proto, args), ReturnDest: dst,
	})
	return nil
}

func (vm *VM) currentSpan() diag.Span {
	if len(vm.frames) == 0 {
		return diag.Span{}
	}
	top := vm.frames[len(vm.frames)-1]
	pc := top.PC - 1
	if pc < 0 {
		pc = 0
	}
	return top.Proto.SpanFor(pc)
}

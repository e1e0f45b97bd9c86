package vm

import (
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/value"
)

// step executes one already-fetched instruction against frame. Most
// opcodes return nil and fall through to the next PC; Call/TailCall/Return
// may instead grow or shrink the frame stack, which run's loop picks up
// by re-reading vm.frames on its next iteration.
func (vm *VM) step(frame *Frame, instr bytecode.Instruction) *diag.Diagnostic {
	regs := frame.Regs
	span := frame.Proto.SpanFor(frame.PC - 1)

	switch instr.Op {
	case bytecode.LoadConst:
		regs[instr.A] = constToValue(frame.Proto.Constants[instr.B], vm.Interner)
	case bytecode.LoadNil:
		regs[instr.A] = value.Nil
	case bytecode.LoadTrue:
		regs[instr.A] = value.Bool(true)
	case bytecode.LoadFalse:
		regs[instr.A] = value.Bool(false)
	case bytecode.Move:
		regs[instr.A] = regs[instr.B]

	case bytecode.GetGlobal:
		name := frame.Proto.Constants[instr.B].(string)
		v, ok := vm.Globals.Get(name)
		if !ok {
			return diag.Newf(diag.UndefinedVariable, span, "undefined variable '%s'", name)
		}
		regs[instr.A] = v
	case bytecode.SetGlobal:
		name := frame.Proto.Constants[instr.A].(string)
		vm.Globals.Put(name, regs[instr.B])

	case bytecode.GetUpvalue:
		regs[instr.A] = frame.Closure.Upvalues[instr.B].Get()
	case bytecode.SetUpvalue:
		frame.Closure.Upvalues[instr.A].Set(regs[instr.B])

	case bytecode.Add:
		v, d := value.Add(regs[instr.B], regs[instr.C], span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.Sub:
		v, d := value.Sub(regs[instr.B], regs[instr.C], span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.Mul:
		v, d := value.Mul(regs[instr.B], regs[instr.C], span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.Div:
		v, d := value.Div(regs[instr.B], regs[instr.C], span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.Mod:
		v, d := value.Mod(regs[instr.B], regs[instr.C], span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.Pow:
		v, d := value.Pow(regs[instr.B], regs[instr.C], span)
		if d != nil {
			return d
		}
		regs[instr.A] = v

	// Quickened fast paths (§4.F): the compiler never emits these, but the
	// optimizer's quickening pass rewrites every generic Add/Sub/Mul/Lt
	// site into one of these without knowing the operand types, so the VM
	// must still execute them correctly, falling back to the generic
	// numeric path if a later operand turns out not to be an Int
	// (deopt_on_type_change).
	case bytecode.AddInt:
		a, b := regs[instr.B], regs[instr.C]
		if a.Kind() == value.KindInt && b.Kind() == value.KindInt {
			regs[instr.A] = value.Int(a.AsInt() + b.AsInt())
			break
		}
		v, d := value.Add(a, b, span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.AddIntImm:
		a := regs[instr.B]
		if a.Kind() == value.KindInt {
			regs[instr.A] = value.Int(a.AsInt() + int64(instr.C))
			break
		}
		v, d := value.Add(a, value.Int(int64(instr.C)), span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.SubInt:
		a, b := regs[instr.B], regs[instr.C]
		if a.Kind() == value.KindInt && b.Kind() == value.KindInt {
			regs[instr.A] = value.Int(a.AsInt() - b.AsInt())
			break
		}
		v, d := value.Sub(a, b, span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.MulInt:
		a, b := regs[instr.B], regs[instr.C]
		if a.Kind() == value.KindInt && b.Kind() == value.KindInt {
			regs[instr.A] = value.Int(a.AsInt() * b.AsInt())
			break
		}
		v, d := value.Mul(a, b, span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.LtInt:
		a, b := regs[instr.B], regs[instr.C]
		if a.Kind() == value.KindInt && b.Kind() == value.KindInt {
			regs[instr.A] = value.Bool(a.AsInt() < b.AsInt())
			break
		}
		cmp, d := value.Compare(a, b, span)
		if d != nil {
			return d
		}
		regs[instr.A] = value.Bool(cmp < 0)
	case bytecode.IncrLocal:
		a := regs[instr.A]
		if a.Kind() == value.KindInt {
			regs[instr.A] = value.Int(a.AsInt() + 1)
			break
		}
		v, d := value.Add(a, value.Int(1), span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.DecrLocal:
		a := regs[instr.A]
		if a.Kind() == value.KindInt {
			regs[instr.A] = value.Int(a.AsInt() - 1)
			break
		}
		v, d := value.Sub(a, value.Int(1), span)
		if d != nil {
			return d
		}
		regs[instr.A] = v

	case bytecode.Eq:
		regs[instr.A] = value.Bool(value.Eq(regs[instr.B], regs[instr.C]))
	case bytecode.Ne:
		regs[instr.A] = value.Bool(!value.Eq(regs[instr.B], regs[instr.C]))
	case bytecode.Lt:
		cmp, d := value.Compare(regs[instr.B], regs[instr.C], span)
		if d != nil {
			return d
		}
		regs[instr.A] = value.Bool(cmp < 0)
	case bytecode.Le:
		cmp, d := value.Compare(regs[instr.B], regs[instr.C], span)
		if d != nil {
			return d
		}
		regs[instr.A] = value.Bool(cmp <= 0)

	case bytecode.Not:
		regs[instr.A] = value.Bool(!regs[instr.B].Truthy())
	case bytecode.And:
		regs[instr.A] = value.Bool(regs[instr.B].Truthy() && regs[instr.C].Truthy())
	case bytecode.Or:
		regs[instr.A] = value.Bool(regs[instr.B].Truthy() || regs[instr.C].Truthy())

	case bytecode.Jump:
		frame.PC += int(instr.B)
	case bytecode.JumpIfTrue:
		if regs[instr.A].Truthy() {
			frame.PC += int(instr.B)
		}
	case bytecode.JumpIfFalse:
		if !regs[instr.A].Truthy() {
			frame.PC += int(instr.B)
		}

	case bytecode.Call:
		args := regs[instr.C : instr.C+instr.D]
		return vm.dispatch(frame, instr.A, regs[instr.B], args, span, false)
	case bytecode.TailCall:
		args := append([]value.Value(nil), regs[instr.C:instr.C+instr.D]...)
		return vm.dispatch(frame, instr.A, regs[instr.B], args, span, true)
	case bytecode.Return:
		vm.popFrame(frame, regs[instr.A])
	case bytecode.MakeClosure:
		proto := frame.Proto.Nested[instr.B]
		regs[instr.A] = value.FromClosure(vm.makeClosure(frame, proto))

	case bytecode.MakeList:
		items := append([]value.Value(nil), regs[instr.C:instr.C+instr.B]...)
		regs[instr.A] = value.FromList(value.NewList(items))
	case bytecode.MakeMap:
		m := value.NewMap()
		base := instr.C
		for i := int32(0); i < instr.B; i++ {
			k := regs[base+2*i]
			v := regs[base+2*i+1]
			if k.Kind() != value.KindStr {
				return diag.New(diag.TypeMismatch, span).WithHelp("map keys must be strings")
			}
			m.Set(k.AsString(), v)
		}
		regs[instr.A] = value.FromMap(m)
	case bytecode.MakeSet:
		s := value.NewSet()
		items := regs[instr.C : instr.C+instr.B]
		for _, it := range items {
			if it.Kind() != value.KindStr {
				return diag.New(diag.TypeMismatch, span).WithHelp("set members must be strings")
			}
			s.Add(it.AsString())
		}
		regs[instr.A] = value.FromSet(s)

	case bytecode.GetIndex:
		v, d := vm.getIndex(regs[instr.B], regs[instr.C], span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.SetIndex:
		if d := vm.setIndex(regs[instr.A], regs[instr.B], regs[instr.C], span); d != nil {
			return d
		}

	case bytecode.GetField, bytecode.GetFieldIC:
		name := frame.Proto.Constants[instr.C].(string)
		v, d := vm.getField(frame, instr.Op == bytecode.GetFieldIC, frame.PC-1, regs[instr.B], name, span)
		if d != nil {
			return d
		}
		regs[instr.A] = v
	case bytecode.SetField, bytecode.SetFieldIC:
		name := frame.Proto.Constants[instr.B].(string)
		if d := vm.setField(frame, instr.Op == bytecode.SetFieldIC, frame.PC-1, regs[instr.A], name, regs[instr.C], span); d != nil {
			return d
		}

	case bytecode.New:
		tag := frame.Proto.Constants[instr.B].(string)
		payload := append([]value.Value(nil), regs[instr.C:instr.C+instr.D]...)
		regs[instr.A] = vm.makeVariant(tag, payload)

	case bytecode.MethodCall:
		args := regs[instr.B : instr.B+1+instr.D] // receiver is args[0]
		name := frame.Proto.Constants[instr.C].(string)
		return vm.dispatchMethod(frame, instr.A, args, name, span)

	case bytecode.Len:
		n, d := vm.length(regs[instr.B], span)
		if d != nil {
			return d
		}
		regs[instr.A] = value.Int(int64(n))

	case bytecode.ToStr:
		regs[instr.A] = value.Str(vm.Interner.Intern(value.Display(regs[instr.B])))

	case bytecode.MatchTag:
		ok := vm.matchesTag(regs[instr.A], frame.Proto.Constants[instr.B].(string))
		if !ok {
			frame.PC += int(instr.C)
		}
	case bytecode.BindPayload:
		ev := regs[instr.B].AsEnumVariant()
		if int(instr.C) < len(ev.Payload) {
			regs[instr.A] = ev.Payload[instr.C]
		} else {
			regs[instr.A] = value.Nil
		}

	case bytecode.CallIC:
		args := regs[instr.C : instr.C+instr.D]
		return vm.dispatch(frame, instr.A, regs[instr.B], args, span, false)

	default:
		return diag.New(diag.UnexpectedToken, span).WithHelp("internal: unimplemented opcode %s", instr.Op)
	}
	return nil
}

func constToValue(c interface{}, in *value.Interner) value.Value {
	switch v := c.(type) {
	case int64:
		return value.Int(v)
	case float64:
		return value.Float(v)
	case string:
		return value.Str(in.Intern(v))
	case *value.InternedString:
		return value.Str(v)
	case *value.Class:
		return value.FromClass(v)
	default:
		return value.Nil
	}
}

// makeClosure binds proto's upvalue descriptors against the enclosing
// frame at MakeClosure time (§3.2): a FromParentLocal descriptor opens an
// upvalue aliasing the parent's live register (shared across every
// closure capturing that same local); FromParentUpvalue passes an
// already-captured upvalue one level further out.
func (vm *VM) makeClosure(frame *Frame, proto *bytecode.Prototype) *value.Closure {
	if len(proto.Upvalues) == 0 {
		return value.NewClosure(proto, nil)
	}
	ups := make([]*value.Upvalue, len(proto.Upvalues))
	for i, desc := range proto.Upvalues {
		switch desc.Source {
		case bytecode.FromParentLocal:
			ups[i] = frame.openUpvalue(int32(desc.Index))
		case bytecode.FromParentUpvalue:
			ups[i] = frame.Closure.Upvalues[desc.Index]
		}
	}
	return value.NewClosure(proto, ups)
}

package vm

import (
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/value"
)

// getIndex implements GetIndex (§4.E) across every collection kind, plus
// the positional-by-integer reading `for x in iter {}` (internal/compiler's
// compileForIn) needs against a Set or Map: a Set's items and a Map's keys
// are both insertion-ordered slices, so an integer index walks them the
// same way it walks a List. A Map additionally accepts a string key for
// ordinary keyed access (`m["key"]`).
func (vm *VM) getIndex(container, idx value.Value, span diag.Span) (value.Value, *diag.Diagnostic) {
	switch container.Kind() {
	case value.KindList:
		if idx.Kind() != value.KindInt {
			return value.Nil, diag.New(diag.TypeMismatch, span).WithHelp("list index must be an integer")
		}
		v, ok := container.AsList().Get(int(idx.AsInt()))
		if !ok {
			return value.Nil, diag.New(diag.IndexOutOfBounds, span)
		}
		return v, nil
	case value.KindMap:
		m := container.AsMap()
		if idx.Kind() == value.KindStr {
			v, ok := m.Get(idx.AsString())
			if !ok {
				return value.Nil, diag.New(diag.IndexOutOfBounds, span).WithHelp("no such key")
			}
			return v, nil
		}
		if idx.Kind() == value.KindInt {
			keys := m.Keys()
			i := int(idx.AsInt())
			if i < 0 || i >= len(keys) {
				return value.Nil, diag.New(diag.IndexOutOfBounds, span)
			}
			return value.Str(keys[i]), nil
		}
		return value.Nil, diag.New(diag.TypeMismatch, span).WithHelp("map index must be a string key or integer position")
	case value.KindSet:
		if idx.Kind() != value.KindInt {
			return value.Nil, diag.New(diag.TypeMismatch, span).WithHelp("set index must be an integer")
		}
		items := container.AsSet().Items()
		i := int(idx.AsInt())
		if i < 0 || i >= len(items) {
			return value.Nil, diag.New(diag.IndexOutOfBounds, span)
		}
		return value.Str(items[i]), nil
	default:
		return value.Nil, diag.New(diag.TypeMismatch, span).WithHelp("value of type '%s' is not indexable", container.TypeName())
	}
}

// setIndex implements SetIndex; only List (by position) and Map (by
// string key) are mutable through an index assignment — a Set's members
// are added/removed through host builtins, not index assignment (§4.A's
// Set has no ordinal slot to assign into).
func (vm *VM) setIndex(container, idx, val value.Value, span diag.Span) *diag.Diagnostic {
	switch container.Kind() {
	case value.KindList:
		if idx.Kind() != value.KindInt {
			return diag.New(diag.TypeMismatch, span).WithHelp("list index must be an integer")
		}
		if !container.AsList().Set(int(idx.AsInt()), val) {
			return diag.New(diag.IndexOutOfBounds, span)
		}
		return nil
	case value.KindMap:
		if idx.Kind() != value.KindStr {
			return diag.New(diag.TypeMismatch, span).WithHelp("map key must be a string")
		}
		container.AsMap().Set(idx.AsString(), val)
		return nil
	default:
		return diag.New(diag.TypeMismatch, span).WithHelp("value of type '%s' does not support index assignment", container.TypeName())
	}
}

// length implements Len (§4.C's `for x in iter` lowering): the number of
// elements a List/Set/Map(-keys) or String has.
func (vm *VM) length(v value.Value, span diag.Span) (int, *diag.Diagnostic) {
	switch v.Kind() {
	case value.KindList:
		return v.AsList().Len(), nil
	case value.KindMap:
		return v.AsMap().Len(), nil
	case value.KindSet:
		return v.AsSet().Len(), nil
	case value.KindStr:
		return len(v.AsString().Bytes), nil
	default:
		return 0, diag.New(diag.TypeMismatch, span).WithHelp("value of type '%s' has no length", v.TypeName())
	}
}

// getField reads an instance field through the inline cache when useIC is
// set (GetFieldIC), falling back to Shape.Lookup directly for the
// non-cached GetField form kept for hand-built bytecode and tests.
func (vm *VM) getField(frame *Frame, useIC bool, pc int, recv value.Value, name string, span diag.Span) (value.Value, *diag.Diagnostic) {
	if recv.Kind() != value.KindInstance {
		return value.Nil, diag.New(diag.TypeMismatch, span).WithHelp("'.%s' requires an instance, got %s", name, recv.TypeName())
	}
	inst := recv.AsInstance()
	var slot int
	var ok bool
	if useIC {
		slot, ok = vm.fieldCache(frame.Proto, pc, false).lookup(inst.Shape, name)
	} else {
		slot, ok = inst.Shape.Lookup(name)
	}
	if !ok {
		return value.Nil, nil
	}
	return inst.Slots[slot], nil
}

func (vm *VM) setField(frame *Frame, useIC bool, pc int, recv value.Value, name string, val value.Value, span diag.Span) *diag.Diagnostic {
	if recv.Kind() != value.KindInstance {
		return diag.New(diag.TypeMismatch, span).WithHelp("'.%s =' requires an instance, got %s", name, recv.TypeName())
	}
	inst := recv.AsInstance()
	inst.SetField(name, val)
	if useIC {
		vm.fieldCache(frame.Proto, pc, true).lookup(inst.Shape, name)
	}
	return nil
}

// makeVariant implements New's enum-variant construction path (§4.G, §9):
// tag is the dotted "EnumName.Tag" constant compileImplicitVariant built.
func (vm *VM) makeVariant(tag string, payload []value.Value) value.Value {
	enumName, tagName := splitDotted(tag)
	return value.FromEnumVariant(&value.EnumVariant{EnumName: enumName, Tag: tagName, Payload: payload})
}

func splitDotted(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i], s[i+1:]
		}
	}
	return "", s
}

// matchesTag implements MatchTag: a VariantPattern matches when the
// subject is an EnumVariant whose dotted "EnumName.Tag" identity equals
// the pattern's constant.
func (vm *VM) matchesTag(subject value.Value, tag string) bool {
	if subject.Kind() != value.KindEnumVariant {
		return false
	}
	ev := subject.AsEnumVariant()
	return ev.EnumName+"."+ev.Tag == tag
}

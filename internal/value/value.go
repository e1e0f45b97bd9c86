// Package value implements Axiom's value model (§3.1, §4.A): the tagged
// value union, the string interner, heap-allocated collections, classes,
// instances, shapes, and closures.
//
// §9's design note picks the tagged union as the safe default over
// NaN-boxing ("select NaN-boxing only when 64-bit word-sized storage
// measurably improves throughput... a tagged union is the safe default");
// DESIGN.md records that choice. Both representations must satisfy the
// same observable semantics, so the `nan_boxing` configuration toggle
// (internal/config) is accepted but has no effect on this representation.
package value

import (
	"fmt"
	"math"
)

// Kind is the runtime type tag of a Value, matching §4.A's type_name set.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindMap
	KindSet
	KindFunc
	KindClass
	KindInstance
	KindEnumVariant
)

var kindNames = [...]string{
	"Nil", "Bol", "Num", "Num", "Str", "Lst", "Map", "Set", "Fun", "Class", "Instance", "EnumVariant",
}

// Value is Axiom's tagged 64-bit-ish value: a scalar payload (bits) plus a
// heap reference (obj) whose meaning depends on kind.
type Value struct {
	kind Kind
	bits uint64      // bool(0/1), int64 bits, or float64 bits
	obj  interface{} // *InternedString, *List, *Map, *Set, *Closure, *Builtin, *Class, *Instance, *EnumVariant
}

// Nil is the singular nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, bits: 1}
	}
	return Value{kind: KindBool, bits: 0}
}

// Int constructs an integer value.
func Int(i int64) Value { return Value{kind: KindInt, bits: uint64(i)} }

// Float constructs a float value.
func Float(f float64) Value { return Value{kind: KindFloat, bits: math.Float64bits(f)} }

// Str constructs a string value from an interned handle.
func Str(s *InternedString) Value { return Value{kind: KindStr, obj: s} }

func fromObj(kind Kind, obj interface{}) Value { return Value{kind: kind, obj: obj} }

func (v Value) Kind() Kind  { return v.kind }
func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) AsBool() bool    { return v.bits != 0 }
func (v Value) AsInt() int64    { return int64(v.bits) }
func (v Value) AsFloat() float64 { return math.Float64frombits(v.bits) }
func (v Value) AsString() *InternedString { return v.obj.(*InternedString) }
func (v Value) AsList() *List     { return v.obj.(*List) }
func (v Value) AsMap() *Map       { return v.obj.(*Map) }
func (v Value) AsSet() *Set       { return v.obj.(*Set) }
func (v Value) AsClass() *Class   { return v.obj.(*Class) }
func (v Value) AsInstance() *Instance { return v.obj.(*Instance) }
func (v Value) AsEnumVariant() *EnumVariant { return v.obj.(*EnumVariant) }

// AsCallable returns the obj payload for a KindFunc value: either a
// *Closure or a *Builtin. Callers type-switch on the result.
func (v Value) AsCallable() interface{} { return v.obj }

// FromClosure, FromBuiltin, FromClass, FromInstance, FromEnumVariant, List/Map/Set
// wrap the corresponding heap object in a Value.
func FromClosure(c *Closure) Value         { return fromObj(KindFunc, c) }
func FromBuiltin(b *Builtin) Value         { return fromObj(KindFunc, b) }
func FromClass(c *Class) Value             { return fromObj(KindClass, c) }
func FromInstance(i *Instance) Value       { return fromObj(KindInstance, i) }
func FromEnumVariant(e *EnumVariant) Value { return fromObj(KindEnumVariant, e) }
func FromList(l *List) Value               { return fromObj(KindList, l) }
func FromMap(m *Map) Value                 { return fromObj(KindMap, m) }
func FromSet(s *Set) Value                 { return fromObj(KindSet, s) }

// TypeName returns the §4.A type_name of v.
func (v Value) TypeName() string { return kindNames[v.kind] }

// Truthy implements §3.1's falsy/truthy rule: nil, false, zero numbers,
// empty string, empty list, empty map are falsy; everything else truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.AsBool()
	case KindInt:
		return v.AsInt() != 0
	case KindFloat:
		return v.AsFloat() != 0
	case KindStr:
		return v.AsString().Bytes != ""
	case KindList:
		return len(v.AsList().Items) != 0
	case KindMap:
		return v.AsMap().Len() != 0
	case KindSet:
		return v.AsSet().Len() != 0
	default:
		return true
	}
}

// Eq implements §4.A's eq: structural for collections, identity for
// closures/classes/instances, pointer-identity for interned strings.
func Eq(a, b Value) bool {
	if a.kind != b.kind {
		// Int/Float cross-kind equality is numeric, matching arithmetic's
		// own int/float promotion rule (§4.A).
		if a.kind == KindInt && b.kind == KindFloat {
			return float64(a.AsInt()) == b.AsFloat()
		}
		if a.kind == KindFloat && b.kind == KindInt {
			return a.AsFloat() == float64(b.AsInt())
		}
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.AsBool() == b.AsBool()
	case KindInt:
		return a.AsInt() == b.AsInt()
	case KindFloat:
		return a.AsFloat() == b.AsFloat()
	case KindStr:
		return a.AsString() == b.AsString() // interned: pointer identity
	case KindList:
		return eqList(a.AsList(), b.AsList())
	case KindMap:
		return eqMap(a.AsMap(), b.AsMap())
	case KindSet:
		return eqSet(a.AsSet(), b.AsSet())
	case KindEnumVariant:
		return eqVariant(a.AsEnumVariant(), b.AsEnumVariant())
	default:
		// Func, Class, Instance: identity.
		return a.obj == b.obj
	}
}

func eqList(a, b *List) bool {
	if len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if !Eq(a.Items[i], b.Items[i]) {
			return false
		}
	}
	return true
}

func eqMap(a, b *Map) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, k := range a.keys {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !Eq(av, bv) {
			return false
		}
	}
	return true
}

func eqSet(a, b *Set) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, m := range a.items {
		if !b.Has(m) {
			return false
		}
	}
	return true
}

func eqVariant(a, b *EnumVariant) bool {
	if a.EnumName != b.EnumName || a.Tag != b.Tag || len(a.Payload) != len(b.Payload) {
		return false
	}
	for i := range a.Payload {
		if !Eq(a.Payload[i], b.Payload[i]) {
			return false
		}
	}
	return true
}

// Display implements §4.A's display: the textual form `print` and string
// interpolation use.
func Display(v Value) string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.AsInt())
	case KindFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case KindStr:
		return v.AsString().Bytes
	case KindList:
		return displayList(v.AsList())
	case KindMap:
		return displayMap(v.AsMap())
	case KindSet:
		return displaySet(v.AsSet())
	case KindFunc:
		return displayFunc(v.obj)
	case KindClass:
		return "<class " + v.AsClass().Name + ">"
	case KindInstance:
		return "<" + v.AsInstance().Class.Name + " instance>"
	case KindEnumVariant:
		return displayVariant(v.AsEnumVariant())
	default:
		return "<value>"
	}
}

func displayList(l *List) string {
	s := "["
	for i, it := range l.Items {
		if i > 0 {
			s += ", "
		}
		s += Display(it)
	}
	return s + "]"
}

func displayMap(m *Map) string {
	s := "{"
	for i, k := range m.keys {
		if i > 0 {
			s += ", "
		}
		v, _ := m.Get(k)
		s += k.Bytes + ": " + Display(v)
	}
	return s + "}"
}

func displaySet(s *Set) string {
	out := "{"
	for i, m := range s.items {
		if i > 0 {
			out += ", "
		}
		out += m.Bytes
	}
	return out + "}"
}

func displayFunc(obj interface{}) string {
	switch f := obj.(type) {
	case *Closure:
		return "<fn " + f.Proto.Name + ">"
	case *Builtin:
		return "<builtin " + f.Name + ">"
	default:
		return "<fn>"
	}
}

func displayVariant(e *EnumVariant) string {
	if len(e.Payload) == 0 {
		return "." + e.Tag
	}
	s := "." + e.Tag + "("
	for i, p := range e.Payload {
		if i > 0 {
			s += ", "
		}
		s += Display(p)
	}
	return s + ")"
}

package value

import "github.com/axiom-lang/axiom/internal/bytecode"

// Upvalue is a captured variable slot (§3.2). While the enclosing frame is
// still live, location points at that frame's register; Close copies the
// current value into the Upvalue itself and repoints location at it, so a
// closure keeps working after its defining frame returns.
type Upvalue struct {
	location *Value
	closed   Value
}

// NewOpenUpvalue creates an upvalue that aliases a live register.
func NewOpenUpvalue(reg *Value) *Upvalue { return &Upvalue{location: reg} }

func (u *Upvalue) Get() Value  { return *u.location }
func (u *Upvalue) Set(v Value) { *u.location = v }

// Close detaches the upvalue from its originating frame register,
// snapshotting the current value so it survives the frame's deallocation.
func (u *Upvalue) Close() {
	if u.location == &u.closed {
		return
	}
	u.closed = *u.location
	u.location = &u.closed
}

// Closure pairs a compiled prototype with the upvalues it captured at
// MakeClosure time (§3.2).
type Closure struct {
	Proto    *bytecode.Prototype
	Upvalues []*Upvalue
}

func NewClosure(proto *bytecode.Prototype, upvalues []*Upvalue) *Closure {
	return &Closure{Proto: proto, Upvalues: upvalues}
}

package bytecode

import "github.com/axiom-lang/axiom/internal/diag"

// UpvalueSource tags where a closure's upvalue slot is bound from at
// MakeClosure time: either a live register in the immediately enclosing
// frame, or an upvalue already captured by the enclosing prototype.
type UpvalueSource int

const (
	FromParentLocal UpvalueSource = iota
	FromParentUpvalue
)

// UpvalueDesc is one entry of a prototype's upvalue descriptor list
// (§3.2): either {from-parent-local, index} or {from-parent-upvalue, index}.
type UpvalueDesc struct {
	Source UpvalueSource
	Index  int
}

// DebugEntry maps one instruction index to the source span that produced
// it, for diagnostic rendering during execution.
type DebugEntry struct {
	PC   int
	Span diag.Span
}

// Prototype is the immutable compiled form of a function (§3.2): name,
// fixed arity, register count, instruction stream, constant pool, upvalue
// descriptors, a debug table, and nested prototypes (for MakeClosure).
type Prototype struct {
	Name          string
	Arity         int
	IsVariadic    bool
	RegisterCount int
	Code          []Instruction
	Constants     []interface{} // interpreted by internal/value at load time
	Upvalues      []UpvalueDesc
	Debug         []DebugEntry
	Nested        []*Prototype
	Source        diag.Span
}

// SpanFor returns the best-known source span for instruction pc, or the
// prototype's own span if no finer entry was recorded.
func (p *Prototype) SpanFor(pc int) diag.Span {
	best := p.Source
	for _, e := range p.Debug {
		if e.PC <= pc {
			best = e.Span
		} else {
			break
		}
	}
	return best
}

// Program is the top-level artifact the compiler hands to the VM: the
// root prototype plus every constant and nested prototype reachable from
// it (§2 pipeline diagram).
type Program struct {
	Root *Prototype
}

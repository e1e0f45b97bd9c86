// Package bytecode defines Axiom's register instruction set and compiled
// function prototypes (§3.2, §4.E). The encoding is a flat Go struct per
// instruction rather than a packed 32-bit word — the teacher's native
// backends pack machine encodings because they must match a real ISA; our
// VM only ever reads its own in-memory slice, so the iABC/iABx/iAsBx shape
// from the sentra-language and min-lang register-VM reference files is
// kept as a field layout, not a bit-packing scheme.
package bytecode

// Op is a single register-machine opcode.
type Op uint8

const (
	// Load/store
	LoadConst Op = iota
	LoadNil
	LoadTrue
	LoadFalse
	Move
	GetGlobal
	SetGlobal
	GetUpvalue
	SetUpvalue

	// Arithmetic (generic)
	Add
	Sub
	Mul
	Div
	Mod
	Pow

	// Arithmetic fast paths, written by the optimizer's quickening pass
	// (§4.F); never emitted directly by the compiler.
	AddInt
	AddIntImm
	SubInt
	MulInt
	LtInt
	IncrLocal
	DecrLocal

	// Comparison
	Eq
	Ne
	Lt
	Le

	// Logic. And/Or exist for completeness with §4.E's instruction table,
	// but the compiler emits short-circuit jump sequences for `and`/`or`
	// instead of these (see DESIGN.md) — they remain reachable only via
	// direct bytecode construction (tests, tooling).
	Not
	And
	Or

	// Control
	Jump
	JumpIfTrue
	JumpIfFalse
	Call
	TailCall
	Return
	MakeClosure

	// Data
	MakeList
	MakeMap
	MakeSet
	GetIndex
	SetIndex
	GetField
	SetField
	New
	MethodCall
	Len

	// ToStr converts any value to its display string (§4.A's `display`),
	// used by string-interpolation templates (§4.B, Scenario 6) before
	// concatenating pieces with Add.
	ToStr

	// Pattern match
	MatchTag
	BindPayload

	// Quickened / cache-bearing placeholders (§4.F, §4.G)
	GetFieldIC
	SetFieldIC
	CallIC
)

var opNames = [...]string{
	"LoadConst", "LoadNil", "LoadTrue", "LoadFalse", "Move",
	"GetGlobal", "SetGlobal", "GetUpvalue", "SetUpvalue",
	"Add", "Sub", "Mul", "Div", "Mod", "Pow",
	"AddInt", "AddIntImm", "SubInt", "MulInt", "LtInt", "IncrLocal", "DecrLocal",
	"Eq", "Ne", "Lt", "Le",
	"Not", "And", "Or",
	"Jump", "JumpIfTrue", "JumpIfFalse", "Call", "TailCall", "Return", "MakeClosure",
	"MakeList", "MakeMap", "MakeSet", "GetIndex", "SetIndex", "GetField", "SetField", "New", "MethodCall", "Len", "ToStr",
	"MatchTag", "BindPayload",
	"GetFieldIC", "SetFieldIC", "CallIC",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "?"
}

// Instruction is one register-machine instruction. Field meaning depends
// on Op; A is almost always the destination register. For LoadConst,
// GetGlobal and MakeClosure, B is a constant or prototype-pool index;
// SetGlobal uses (A=nameConst, B=src). For jumps, B is a signed instruction-count offset from the
// instruction following the jump. Call/TailCall use (B=calleeReg,
// C=argBase, D=argCount); MethodCall uses (B=receiverReg, C=methodNameConst,
// D=argCount, args at B+1..B+D); New uses (B=nameConst, C=argBase,
// D=argCount); MakeList/MakeSet/MakeMap use (B=count, C=base); MatchTag
// uses (A=subjectReg, B=tagNameConst, C=signed offset to jump past the arm
// on mismatch, same relative convention as a jump); BindPayload uses
// (A=dst, B=subjectReg, C=payload index); Len uses (A=dst, B=src).
type Instruction struct {
	Op         Op
	A, B, C, D int32
}

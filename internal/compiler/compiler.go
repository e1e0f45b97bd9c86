// Package compiler walks an ast.Node tree and emits register bytecode
// (§4.E): scope resolution, upvalue capture, constant pooling, and the
// tail-call/closure emission rules the parser already flagged.
package compiler

import (
	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/value"
)

// local is one name bound to a register within the current scope.
type local struct {
	name string
	reg  int32
}

// funcState is the compiler's per-prototype working state, chained to its
// lexical parent so upvalue resolution can walk outward.
type funcState struct {
	parent *funcState

	proto   *bytecode.Prototype
	scopes  [][]local
	nextReg int32

	// upvalueNames mirrors proto.Upvalues: the name each slot was captured
	// under, so a repeated reference reuses the same slot instead of
	// capturing twice.
	upvalueNames []string
}

func newFuncState(parent *funcState, name string, span diag.Span) *funcState {
	return &funcState{
		parent: parent,
		proto: &bytecode.Prototype{
			Name:   name,
			Source: span,
		},
	}
}

func (fs *funcState) pushScope() { fs.scopes = append(fs.scopes, nil) }

func (fs *funcState) popScope() {
	if len(fs.scopes) == 0 {
		return
	}
	fs.scopes = fs.scopes[:len(fs.scopes)-1]
}

// addLocal allocates a fresh register for name in the innermost scope.
// Registers are never reclaimed mid-function — the prototype's
// RegisterCount is simply the high-water mark — which keeps frame layout
// static and is what makes GetUpvalue/Move indices stable across a
// function body.
func (fs *funcState) addLocal(name string) int32 {
	reg := fs.alloc()
	if len(fs.scopes) == 0 {
		fs.pushScope()
	}
	top := len(fs.scopes) - 1
	fs.scopes[top] = append(fs.scopes[top], local{name: name, reg: reg})
	return reg
}

// alloc reserves the next free register without binding a name to it —
// used for expression temporaries.
func (fs *funcState) alloc() int32 {
	reg := fs.nextReg
	fs.nextReg++
	if fs.nextReg > int32(fs.proto.RegisterCount) {
		fs.proto.RegisterCount = int(fs.nextReg)
	}
	return reg
}

// lookupLocal searches innermost-scope-first within this function only.
func (fs *funcState) lookupLocal(name string) (int32, bool) {
	for i := len(fs.scopes) - 1; i >= 0; i-- {
		scope := fs.scopes[i]
		for j := len(scope) - 1; j >= 0; j-- {
			if scope[j].name == name {
				return scope[j].reg, true
			}
		}
	}
	return 0, false
}

func (fs *funcState) addConst(v interface{}) int32 {
	for i, existing := range fs.proto.Constants {
		if existing == v {
			return int32(i)
		}
	}
	fs.proto.Constants = append(fs.proto.Constants, v)
	return int32(len(fs.proto.Constants) - 1)
}

func (fs *funcState) emit(op bytecode.Op, a, b, c, d int32, span diag.Span) int {
	pc := len(fs.proto.Code)
	fs.proto.Code = append(fs.proto.Code, bytecode.Instruction{Op: op, A: a, B: b, C: c, D: d})
	fs.proto.Debug = append(fs.proto.Debug, bytecode.DebugEntry{PC: pc, Span: span})
	return pc
}

// patchJump rewrites the B operand of the jump at pc to land on the next
// instruction to be emitted (an offset relative to the instruction
// following the jump itself, per the comment on bytecode.Instruction).
func (fs *funcState) patchJump(pc int) {
	target := len(fs.proto.Code)
	fs.proto.Code[pc].B = int32(target - pc - 1)
}

// patchJumpC is patchJump's counterpart for instructions that carry their
// branch offset in C instead of B (MatchTag).
func (fs *funcState) patchJumpC(pc int) {
	target := len(fs.proto.Code)
	fs.proto.Code[pc].C = int32(target - pc - 1)
}

func (fs *funcState) here() int { return len(fs.proto.Code) }

// Compiler drives compilation of one source file to a bytecode.Program.
type Compiler struct {
	file   string
	errors []*diag.Diagnostic

	globals    map[string]bool // declared global (top-level) names, for resolution fallthrough
	knownNames []string        // all declared names seen so far, for Levenshtein hints

	// variantEnum maps an enum-variant tag to the enum declaration that
	// defined it, collected in a pre-pass over top-level EnumDecls so
	// `.Tag` / bare-VariantPattern references resolve without forward
	// declaration order mattering.
	variantEnum map[string]string

	// classNodes/classes implement order-independent class construction:
	// a child class may precede its parent in source, so classes are
	// built lazily and memoized rather than in textual order.
	classNodes map[string]*ast.Node
	classes    map[string]*value.Class

	interner *value.Interner
}

// New creates a Compiler for one file, interning string constants through
// in (shared across a whole program / VM instance, per §4.A).
func New(file string, in *value.Interner) *Compiler {
	return &Compiler{
		file:        file,
		globals:     map[string]bool{},
		variantEnum: map[string]string{},
		classNodes:  map[string]*ast.Node{},
		classes:     map[string]*value.Class{},
		interner:    in,
	}
}

func (c *Compiler) Errors() []*diag.Diagnostic { return c.errors }

func (c *Compiler) errAt(span diag.Span, code diag.Code, format string, args ...interface{}) {
	c.errors = append(c.errors, diag.Newf(code, span, format, args...))
}

func (c *Compiler) declareGlobal(name string) {
	if name == "" {
		return
	}
	c.globals[name] = true
	c.knownNames = append(c.knownNames, name)
}

// Compile compiles a parsed File node into a Program whose Root prototype
// runs top-level statements and declarations in order.
func Compile(file string, fileNode *ast.Node, in *value.Interner) (*bytecode.Program, []*diag.Diagnostic) {
	c := New(file, in)
	c.collectEnums(fileNode)
	c.collectClasses(fileNode)

	root := newFuncState(nil, "<script>", fileNode.Span)
	root.pushScope()
	for _, decl := range fileNode.Nodes {
		c.compileTopDecl(root, decl)
	}
	root.emit(bytecode.LoadNil, 0, 0, 0, 0, fileNode.Span)
	root.emit(bytecode.Return, 0, 0, 0, 0, fileNode.Span)

	return &bytecode.Program{Root: root.proto}, c.errors
}

func (c *Compiler) collectEnums(fileNode *ast.Node) {
	for _, decl := range fileNode.Nodes {
		if decl.Kind == ast.EnumDecl {
			for _, variant := range decl.Nodes {
				c.variantEnum[variant.Name] = decl.Name
			}
		}
	}
}

func (c *Compiler) collectClasses(fileNode *ast.Node) {
	for _, decl := range fileNode.Nodes {
		if decl.Kind == ast.ClassDecl {
			c.classNodes[decl.Name] = decl
		}
	}
}

package compiler

import (
	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
)

// compileFunction compiles one function body into its own prototype,
// nested under fs for upvalue resolution. Parameters occupy registers
// 0..arity-1, matching the VM's Call convention (§4.G: "copy args into
// registers 0…n-1").
func (c *Compiler) compileFunction(fs *funcState, name string, params []string, variadic bool, body *ast.Node, span diag.Span) *bytecode.Prototype {
	child := newFuncState(fs, name, span)
	child.proto.Arity = len(params)
	child.proto.IsVariadic = variadic
	child.pushScope()
	for _, p := range params {
		child.addLocal(p)
	}
	savedKnown := len(c.knownNames)
	for _, p := range params {
		c.knownNames = append(c.knownNames, p)
	}

	c.compileStmts(child, body.Nodes)

	// Implicit `return nil` if the body fell off the end without one.
	if len(body.Nodes) == 0 || body.Nodes[len(body.Nodes)-1].Kind != ast.ReturnStmt {
		dst := child.alloc()
		child.emit(bytecode.LoadNil, dst, 0, 0, 0, span)
		child.emit(bytecode.Return, dst, 0, 0, 0, span)
	}

	child.popScope()
	c.knownNames = c.knownNames[:savedKnown]
	return child.proto
}

func (c *Compiler) compileStmts(fs *funcState, stmts []*ast.Node) {
	for _, s := range stmts {
		c.compileStmt(fs, s)
	}
}

package compiler

import (
	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
)

// compileCall compiles a call expression. A callee that is itself a
// MemberExpr ("obj.method(args)") compiles to MethodCall, which resolves
// against the receiver's class method table directly; any other callee
// compiles to Call/TailCall against the callee's value (closure, builtin,
// or class — dispatched by the VM per §4.G).
func (c *Compiler) compileCall(fs *funcState, node *ast.Node, tail bool) int32 {
	if node.X.Kind == ast.MemberExpr {
		return c.compileMethodCall(fs, node, tail)
	}
	callee := c.compileExpr(fs, node.X)
	base := c.compileContiguous(fs, node.Nodes)
	dst := fs.alloc()
	op := bytecode.Call
	if tail {
		op = bytecode.TailCall
	}
	fs.emit(op, dst, callee, base, int32(len(node.Nodes)), node.Span)
	return dst
}

func (c *Compiler) compileMethodCall(fs *funcState, node *ast.Node, tail bool) int32 {
	member := node.X
	recv0 := c.compileExpr(fs, member.X)
	// MethodCall requires args at receiver+1..receiver+argCount, so the
	// receiver itself must sit at a freshly reserved register even when
	// it was already a local, before the argument run is reserved after it.
	receiver := fs.alloc()
	if receiver != recv0 {
		fs.emit(bytecode.Move, receiver, recv0, 0, 0, member.Span)
	}
	for range node.Nodes {
		fs.alloc()
	}
	for i, arg := range node.Nodes {
		v := c.compileExpr(fs, arg)
		want := receiver + 1 + int32(i)
		if v != want {
			fs.emit(bytecode.Move, want, v, 0, 0, arg.Span)
		}
	}
	nameK := fs.addConst(member.Name)
	dst := fs.alloc()
	fs.emit(bytecode.MethodCall, dst, receiver, nameK, int32(len(node.Nodes)), node.Span)
	return dst
}

// compileIndex compiles `expr[idx]`.
func (c *Compiler) compileIndex(fs *funcState, node *ast.Node) int32 {
	x := c.compileExpr(fs, node.X)
	idx := c.compileExpr(fs, node.Y)
	dst := fs.alloc()
	fs.emit(bytecode.GetIndex, dst, x, idx, 0, node.Span)
	return dst
}

// compileMember compiles `expr.field` as a value read (GetField); when
// used as a call target it is handled by compileMethodCall instead.
func (c *Compiler) compileMember(fs *funcState, node *ast.Node) int32 {
	x := c.compileExpr(fs, node.X)
	nameK := fs.addConst(node.Name)
	dst := fs.alloc()
	fs.emit(bytecode.GetFieldIC, dst, x, nameK, 0, node.Span)
	return dst
}

// compileAssign compiles `lhs = rhs`: plain identifier, index target, or
// member target.
func (c *Compiler) compileAssign(fs *funcState, node *ast.Node) int32 {
	switch node.X.Kind {
	case ast.Ident:
		val := c.compileExpr(fs, node.Y)
		name := node.X.Name
		if reg, ok := fs.lookupLocal(name); ok {
			if reg != val {
				fs.emit(bytecode.Move, reg, val, 0, 0, node.Span)
			}
			return reg
		}
		if idx, ok := c.resolveUpvalue(fs, name); ok {
			fs.emit(bytecode.SetUpvalue, idx, val, 0, 0, node.Span)
			return val
		}
		if !c.globals[name] {
			d := diag.Newf(diag.UndefinedVariable, node.X.Span, "undefined variable '%s'", name)
			if hint, ok := diag.Suggest(name, c.knownNames); ok {
				d.WithHelp("did you mean '%s'?", hint)
			}
			c.errors = append(c.errors, d)
		}
		k := fs.addConst(name)
		fs.emit(bytecode.SetGlobal, k, val, 0, 0, node.Span)
		return val
	case ast.IndexExpr:
		x := c.compileExpr(fs, node.X.X)
		idx := c.compileExpr(fs, node.X.Y)
		val := c.compileExpr(fs, node.Y)
		fs.emit(bytecode.SetIndex, x, idx, val, 0, node.Span)
		return val
	case ast.MemberExpr:
		x := c.compileExpr(fs, node.X.X)
		val := c.compileExpr(fs, node.Y)
		nameK := fs.addConst(node.X.Name)
		fs.emit(bytecode.SetFieldIC, x, nameK, val, 0, node.Span)
		return val
	default:
		c.errAt(node.Span, diag.UnexpectedToken, "internal: invalid assignment target")
		return c.compileExpr(fs, node.Y)
	}
}

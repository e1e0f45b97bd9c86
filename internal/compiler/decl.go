package compiler

import (
	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/bytecode"
)

// compileTopDecl handles the forms legal directly inside a File: imports
// (no-op placeholders at this layer — module resolution is a CLI/package
// concern, out of scope here), let/fn/class/enum declarations, and bare
// top-level statements (Scenario 1 and 3 both execute statements directly
// at file scope).
func (c *Compiler) compileTopDecl(fs *funcState, decl *ast.Node) {
	switch decl.Kind {
	case ast.Invalid:
		return // import placeholder
	case ast.LetDecl:
		c.compileLetDecl(fs, decl, true)
	case ast.FnDecl:
		c.compileFnDecl(fs, decl)
	case ast.ClassDecl:
		c.compileClassDecl(fs, decl)
	case ast.EnumDecl:
		// Tag->enum membership was already recorded by collectEnums; enum
		// declarations have no runtime representation of their own.
		return
	default:
		c.compileStmt(fs, decl)
	}
}

// compileLetDecl evaluates the initializer into a fresh register, then
// binds it: as a local in a function body, as a global at file scope.
func (c *Compiler) compileLetDecl(fs *funcState, decl *ast.Node, topLevel bool) {
	reg := c.compileExprTo(fs, decl.X, -1)
	if topLevel && fs.parent == nil {
		c.declareGlobal(decl.Name)
		k := fs.addConst(decl.Name)
		fs.emit(bytecode.SetGlobal, k, reg, 0, 0, decl.Span)
		return
	}
	dst := fs.addLocal(decl.Name)
	if dst != reg {
		fs.emit(bytecode.Move, dst, reg, 0, 0, decl.Span)
	}
	c.knownNames = append(c.knownNames, decl.Name)
}

// compileFnDecl compiles a top-level `fn NAME(...) {...}` as a closure
// bound to a global (§4.C: "still implemented as a binding but hoisted").
func (c *Compiler) compileFnDecl(fs *funcState, decl *ast.Node) {
	c.declareGlobal(decl.Name)
	proto := c.compileFunction(fs, decl.Name, decl.Params, decl.Variadic, decl.Body, decl.Span)
	protoIdx := int32(len(fs.proto.Nested))
	fs.proto.Nested = append(fs.proto.Nested, proto)
	dst := fs.alloc()
	fs.emit(bytecode.MakeClosure, dst, protoIdx, 0, 0, decl.Span)
	if fs.parent == nil {
		k := fs.addConst(decl.Name)
		fs.emit(bytecode.SetGlobal, k, dst, 0, 0, decl.Span)
	} else {
		local := fs.addLocal(decl.Name)
		if local != dst {
			fs.emit(bytecode.Move, local, dst, 0, 0, decl.Span)
		}
	}
}

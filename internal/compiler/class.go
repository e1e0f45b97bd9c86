package compiler

import (
	"github.com/samber/lo"

	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/value"
)

// compileClassDecl binds a class's runtime value.Class to a global. Classes
// only appear at top level (the grammar has no nested class form), so every
// method body is built against the same root funcState and never captures
// an upvalue; the Class itself is built once and memoized so a forward
// reference to a not-yet-visited parent still resolves (buildClass).
func (c *Compiler) compileClassDecl(fs *funcState, decl *ast.Node) {
	c.declareGlobal(decl.Name)
	cls := c.buildClass(fs, decl.Name)
	if cls == nil {
		return
	}
	dst := fs.alloc()
	k := fs.addConst(cls)
	fs.emit(bytecode.LoadConst, dst, k, 0, 0, decl.Span)
	nameK := fs.addConst(decl.Name)
	fs.emit(bytecode.SetGlobal, nameK, dst, 0, 0, decl.Span)
}

// buildClass constructs (and memoizes) the value.Class for name, resolving
// `ext PARENT` by building the parent first regardless of declaration order.
func (c *Compiler) buildClass(fs *funcState, name string) *value.Class {
	if cls, ok := c.classes[name]; ok {
		return cls
	}
	decl, ok := c.classNodes[name]
	if !ok {
		return nil
	}

	var parent *value.Class
	if decl.Parent != "" {
		parent = c.buildClass(fs, decl.Parent)
		if parent == nil {
			c.errAt(decl.Span, diag.UndefinedIdentifier, "unknown parent class '%s' for '%s'", decl.Parent, name)
		}
	}

	fields := lo.FilterMap(decl.Nodes, func(m *ast.Node, _ int) (string, bool) {
		return m.Name, m.Kind == ast.FieldDecl
	})

	cls := value.NewClass(name, parent, fields)
	c.classes[name] = cls

	methods := lo.Filter(decl.Nodes, func(m *ast.Node, _ int) bool {
		return m.Kind == ast.MethodDecl
	})
	for _, m := range methods {
		// Register 0 is always the receiver (`self`); user parameters
		// start at register 1, so the closure's real arity is len(params)+1.
		params := append([]string{"self"}, m.Params...)
		proto := c.compileFunction(fs, name+"."+m.Name, params, m.Variadic, m.Body, m.Span)
		cls.AddMethod(m.Name, value.NewClosure(proto, nil))
	}
	return cls
}

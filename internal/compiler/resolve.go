package compiler

import (
	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
)

// resolveUpvalue implements the ancestor-upvalue-chain step of §4.E's
// resolution cascade: local → ancestor upvalue chain → global. A name
// already captured on fs is reused rather than captured twice.
func (c *Compiler) resolveUpvalue(fs *funcState, name string) (int32, bool) {
	if fs.parent == nil {
		return 0, false
	}
	for i, n := range fs.upvalueNames {
		if n == name {
			return int32(i), true
		}
	}
	if reg, ok := fs.parent.lookupLocal(name); ok {
		idx := int32(len(fs.proto.Upvalues))
		fs.proto.Upvalues = append(fs.proto.Upvalues, bytecode.UpvalueDesc{Source: bytecode.FromParentLocal, Index: int(reg)})
		fs.upvalueNames = append(fs.upvalueNames, name)
		return idx, true
	}
	if pidx, ok := c.resolveUpvalue(fs.parent, name); ok {
		idx := int32(len(fs.proto.Upvalues))
		fs.proto.Upvalues = append(fs.proto.Upvalues, bytecode.UpvalueDesc{Source: bytecode.FromParentUpvalue, Index: int(pidx)})
		fs.upvalueNames = append(fs.upvalueNames, name)
		return idx, true
	}
	return 0, false
}

// compileIdent resolves a bare identifier reference and returns a register
// holding its value: the existing register for a local (no copy), a fresh
// temp loaded via GetUpvalue for a captured outer local, or a fresh temp
// loaded via GetGlobal otherwise. An unresolved global name is reported as
// UndefinedIdentifier with a Levenshtein hint, per §4.D.
func (c *Compiler) compileIdent(fs *funcState, node *ast.Node) int32 {
	if reg, ok := fs.lookupLocal(node.Name); ok {
		return reg
	}
	if idx, ok := c.resolveUpvalue(fs, node.Name); ok {
		dst := fs.alloc()
		fs.emit(bytecode.GetUpvalue, dst, idx, 0, 0, node.Span)
		return dst
	}
	if !c.globals[node.Name] {
		d := diag.Newf(diag.UndefinedIdentifier, node.Span, "undefined identifier '%s'", node.Name)
		if hint, ok := diag.Suggest(node.Name, c.knownNames); ok {
			d.WithHelp("did you mean '%s'?", hint)
		}
		c.errors = append(c.errors, d)
	}
	dst := fs.alloc()
	k := fs.addConst(node.Name)
	fs.emit(bytecode.GetGlobal, dst, k, 0, 0, node.Span)
	return dst
}

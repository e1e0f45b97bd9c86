package compiler

import (
	"strconv"
	"strings"

	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
)

// compileExpr emits code for node and returns the register holding its
// value. Locals are returned by register with no copy; every other form
// allocates a fresh temporary.
func (c *Compiler) compileExpr(fs *funcState, node *ast.Node) int32 {
	switch node.Kind {
	case ast.Ident:
		return c.compileIdent(fs, node)
	case ast.IntLit:
		return c.compileIntLit(fs, node)
	case ast.FloatLit:
		return c.compileFloatLit(fs, node)
	case ast.StringLit:
		return c.compileStringLit(fs, node)
	case ast.BoolLit:
		dst := fs.alloc()
		if node.Name == "true" {
			fs.emit(bytecode.LoadTrue, dst, 0, 0, 0, node.Span)
		} else {
			fs.emit(bytecode.LoadFalse, dst, 0, 0, 0, node.Span)
		}
		return dst
	case ast.NilLit:
		dst := fs.alloc()
		fs.emit(bytecode.LoadNil, dst, 0, 0, 0, node.Span)
		return dst
	case ast.TemplateLit:
		return c.compileTemplate(fs, node)
	case ast.ListLit:
		return c.compileListLit(fs, node)
	case ast.MapLit:
		return c.compileMapLit(fs, node)
	case ast.SetLit:
		return c.compileSetLit(fs, node)
	case ast.BinaryExpr:
		return c.compileBinary(fs, node)
	case ast.UnaryExpr:
		return c.compileUnary(fs, node)
	case ast.AssignExpr:
		return c.compileAssign(fs, node)
	case ast.CallExpr:
		return c.compileCall(fs, node, false)
	case ast.IndexExpr:
		return c.compileIndex(fs, node)
	case ast.MemberExpr:
		return c.compileMember(fs, node)
	case ast.FuncLit:
		return c.compileFuncLit(fs, node)
	case ast.ImplicitVariant:
		return c.compileImplicitVariant(fs, node)
	default:
		c.errAt(node.Span, diag.UnexpectedToken, "internal: cannot compile expression node")
		dst := fs.alloc()
		fs.emit(bytecode.LoadNil, dst, 0, 0, 0, node.Span)
		return dst
	}
}

// compileExprTo is an alias kept for call sites that read more naturally
// naming a destination intent; it always yields a fresh-or-local register,
// same as compileExpr.
func (c *Compiler) compileExprTo(fs *funcState, node *ast.Node, _ int32) int32 {
	return c.compileExpr(fs, node)
}

func (c *Compiler) compileIntLit(fs *funcState, node *ast.Node) int32 {
	text := node.Name
	base := 10
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		base = 16
		text = text[2:]
	}
	n, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		c.errAt(node.Span, diag.InvalidNumber, "invalid integer literal '%s'", node.Name)
	}
	dst := fs.alloc()
	k := fs.addConst(n)
	fs.emit(bytecode.LoadConst, dst, k, 0, 0, node.Span)
	return dst
}

func (c *Compiler) compileFloatLit(fs *funcState, node *ast.Node) int32 {
	f, err := strconv.ParseFloat(node.Name, 64)
	if err != nil {
		c.errAt(node.Span, diag.InvalidNumber, "invalid float literal '%s'", node.Name)
	}
	dst := fs.alloc()
	k := fs.addConst(f)
	fs.emit(bytecode.LoadConst, dst, k, 0, 0, node.Span)
	return dst
}

func (c *Compiler) compileStringLit(fs *funcState, node *ast.Node) int32 {
	dst := fs.alloc()
	interned := c.interner.Intern(node.Name)
	k := fs.addConst(interned)
	fs.emit(bytecode.LoadConst, dst, k, 0, 0, node.Span)
	return dst
}

// compileTemplate lowers a template literal's alternating literal/expr
// pieces into a left-to-right chain of Add (string concat) after
// converting every non-literal piece with ToStr (Scenario 6).
func (c *Compiler) compileTemplate(fs *funcState, node *ast.Node) int32 {
	var acc int32 = -1
	for i, piece := range node.Nodes {
		var reg int32
		if piece.Kind == ast.StringLit {
			if piece.Name == "" {
				continue
			}
			reg = c.compileStringLit(fs, piece)
		} else {
			val := c.compileExpr(fs, piece)
			reg = fs.alloc()
			fs.emit(bytecode.ToStr, reg, val, 0, 0, piece.Span)
		}
		if acc == -1 {
			acc = reg
			continue
		}
		sum := fs.alloc()
		fs.emit(bytecode.Add, sum, acc, reg, 0, piece.Span)
		acc = sum
		_ = i
	}
	if acc == -1 {
		acc = c.compileStringLit(fs, &ast.Node{Kind: ast.StringLit, Span: node.Span, Name: ""})
	}
	return acc
}

// compileContiguous reserves len(nodes) consecutive registers, compiles
// each expression (which may itself use higher scratch registers), and
// moves each result into its reserved slot. Opcodes that take a variable
// number of values (MakeList, MakeSet, MakeMap, New's payload, Call's
// args) rely on this contiguous-base-plus-count convention instead of
// carrying a register list per instruction.
func (c *Compiler) compileContiguous(fs *funcState, nodes []*ast.Node) int32 {
	base := fs.nextReg
	if len(nodes) == 0 {
		return base
	}
	regs := make([]int32, len(nodes))
	for i := range nodes {
		regs[i] = fs.alloc()
	}
	for i, n := range nodes {
		v := c.compileExpr(fs, n)
		if v != regs[i] {
			fs.emit(bytecode.Move, regs[i], v, 0, 0, n.Span)
		}
	}
	return base
}

func (c *Compiler) compileListLit(fs *funcState, node *ast.Node) int32 {
	base := c.compileContiguous(fs, node.Nodes)
	dst := fs.alloc()
	fs.emit(bytecode.MakeList, dst, int32(len(node.Nodes)), base, 0, node.Span)
	return dst
}

func (c *Compiler) compileMapLit(fs *funcState, node *ast.Node) int32 {
	base := fs.nextReg
	slots := make([]int32, len(node.Nodes)*2)
	for i := range slots {
		slots[i] = fs.alloc()
	}
	for i, kv := range node.Nodes {
		k := c.compileExpr(fs, kv.X)
		if k != slots[2*i] {
			fs.emit(bytecode.Move, slots[2*i], k, 0, 0, kv.Span)
		}
		v := c.compileExpr(fs, kv.Y)
		if v != slots[2*i+1] {
			fs.emit(bytecode.Move, slots[2*i+1], v, 0, 0, kv.Span)
		}
	}
	dst := fs.alloc()
	fs.emit(bytecode.MakeMap, dst, int32(len(node.Nodes)), base, 0, node.Span)
	return dst
}

func (c *Compiler) compileSetLit(fs *funcState, node *ast.Node) int32 {
	base := c.compileContiguous(fs, node.Nodes)
	dst := fs.alloc()
	fs.emit(bytecode.MakeSet, dst, int32(len(node.Nodes)), base, 0, node.Span)
	return dst
}

var binaryOps = map[string]bytecode.Op{
	"+": bytecode.Add, "-": bytecode.Sub, "*": bytecode.Mul,
	"/": bytecode.Div, "%": bytecode.Mod, "**": bytecode.Pow,
	"==": bytecode.Eq, "!=": bytecode.Ne, "<": bytecode.Lt, "<=": bytecode.Le,
}

func (c *Compiler) compileBinary(fs *funcState, node *ast.Node) int32 {
	switch node.Name {
	case "and":
		return c.compileAnd(fs, node)
	case "or":
		return c.compileOr(fs, node)
	case ">":
		x := c.compileExpr(fs, node.Y)
		y := c.compileExpr(fs, node.X)
		dst := fs.alloc()
		fs.emit(bytecode.Lt, dst, x, y, 0, node.Span)
		return dst
	case ">=":
		x := c.compileExpr(fs, node.Y)
		y := c.compileExpr(fs, node.X)
		dst := fs.alloc()
		fs.emit(bytecode.Le, dst, x, y, 0, node.Span)
		return dst
	}
	op, ok := binaryOps[node.Name]
	if !ok {
		c.errAt(node.Span, diag.UnexpectedToken, "internal: unknown binary operator %q", node.Name)
		op = bytecode.Add
	}
	x := c.compileExpr(fs, node.X)
	y := c.compileExpr(fs, node.Y)
	dst := fs.alloc()
	fs.emit(op, dst, x, y, 0, node.Span)
	return dst
}

// compileAnd/compileOr implement short-circuit evaluation via jumps
// rather than the And/Or opcodes (§4.E reserves And/Or as data-flow
// opcodes; the compiler's actual lowering uses branching, recorded in
// DESIGN.md).
func (c *Compiler) compileAnd(fs *funcState, node *ast.Node) int32 {
	x := c.compileExpr(fs, node.X)
	dst := fs.alloc()
	fs.emit(bytecode.Move, dst, x, 0, 0, node.Span)
	skip := fs.emit(bytecode.JumpIfFalse, dst, 0, 0, 0, node.Span)
	y := c.compileExpr(fs, node.Y)
	fs.emit(bytecode.Move, dst, y, 0, 0, node.Span)
	fs.patchJump(skip)
	return dst
}

func (c *Compiler) compileOr(fs *funcState, node *ast.Node) int32 {
	x := c.compileExpr(fs, node.X)
	dst := fs.alloc()
	fs.emit(bytecode.Move, dst, x, 0, 0, node.Span)
	skip := fs.emit(bytecode.JumpIfTrue, dst, 0, 0, 0, node.Span)
	y := c.compileExpr(fs, node.Y)
	fs.emit(bytecode.Move, dst, y, 0, 0, node.Span)
	fs.patchJump(skip)
	return dst
}

func (c *Compiler) compileUnary(fs *funcState, node *ast.Node) int32 {
	x := c.compileExpr(fs, node.X)
	dst := fs.alloc()
	switch node.Name {
	case "-":
		zero := fs.alloc()
		k := fs.addConst(int64(0))
		fs.emit(bytecode.LoadConst, zero, k, 0, 0, node.Span)
		fs.emit(bytecode.Sub, dst, zero, x, 0, node.Span)
	case "not":
		fs.emit(bytecode.Not, dst, x, 0, 0, node.Span)
	default:
		c.errAt(node.Span, diag.UnexpectedToken, "internal: unknown unary operator %q", node.Name)
	}
	return dst
}

// compileFuncLit compiles an anonymous function expression, emitting its
// prototype nested under the enclosing one and a MakeClosure at the use
// site (§4.E).
func (c *Compiler) compileFuncLit(fs *funcState, node *ast.Node) int32 {
	proto := c.compileFunction(fs, "<anonymous>", node.Params, node.Variadic, node.Body, node.Span)
	protoIdx := int32(len(fs.proto.Nested))
	fs.proto.Nested = append(fs.proto.Nested, proto)
	dst := fs.alloc()
	fs.emit(bytecode.MakeClosure, dst, protoIdx, 0, 0, node.Span)
	return dst
}

// compileImplicitVariant compiles `.Tag` / `.Tag(payload...)`, resolving
// Tag's owning enum from the file-wide tag table collected up front. It
// emits New against a constant naming "EnumName.Tag"; the VM's New handler
// splits that dotted name and builds an EnumVariant. New serves enum
// variants only: a class instance is built by calling the class value.
func (c *Compiler) compileImplicitVariant(fs *funcState, node *ast.Node) int32 {
	enumName := c.variantEnum[node.Name]
	if enumName == "" {
		enumName = node.Name
	}
	base := c.compileContiguous(fs, node.Nodes)
	tagK := fs.addConst(enumName + "." + node.Name)
	dst := fs.alloc()
	fs.emit(bytecode.New, dst, tagK, base, int32(len(node.Nodes)), node.Span)
	return dst
}

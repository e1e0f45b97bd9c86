package compiler

import (
	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/diag"
)

// compileStmt compiles one statement-position node. Declarations legal
// inside a block (let, nested fn) are dispatched here too, since the
// parser hands them back from parseBlockStmt without a wrapping node.
func (c *Compiler) compileStmt(fs *funcState, node *ast.Node) {
	switch node.Kind {
	case ast.Block:
		fs.pushScope()
		c.compileStmts(fs, node.Nodes)
		fs.popScope()
	case ast.ExprStmt:
		c.compileExpr(fs, node.X)
	case ast.LetDecl:
		c.compileLetDecl(fs, node, false)
	case ast.FnDecl:
		c.compileFnDecl(fs, node)
	case ast.IfStmt:
		c.compileIf(fs, node)
	case ast.WhileStmt:
		c.compileWhile(fs, node)
	case ast.ForInStmt:
		c.compileForIn(fs, node)
	case ast.MatchStmt:
		c.compileMatch(fs, node)
	case ast.ReturnStmt:
		c.compileReturn(fs, node)
	default:
		c.errAt(node.Span, diag.UnexpectedToken, "internal: cannot compile statement node")
	}
}

func (c *Compiler) compileIf(fs *funcState, node *ast.Node) {
	cond := c.compileExpr(fs, node.X)
	skip := fs.emit(bytecode.JumpIfFalse, cond, 0, 0, 0, node.Span)
	c.compileStmt(fs, node.Body)
	if node.Else != nil {
		exit := fs.emit(bytecode.Jump, 0, 0, 0, 0, node.Span)
		fs.patchJump(skip)
		c.compileStmt(fs, node.Else)
		fs.patchJump(exit)
	} else {
		fs.patchJump(skip)
	}
}

func (c *Compiler) compileWhile(fs *funcState, node *ast.Node) {
	start := fs.here()
	cond := c.compileExpr(fs, node.X)
	exit := fs.emit(bytecode.JumpIfFalse, cond, 0, 0, 0, node.Span)
	c.compileStmt(fs, node.Body)
	back := fs.emit(bytecode.Jump, 0, 0, 0, 0, node.Span)
	fs.proto.Code[back].B = int32(start - back - 1)
	fs.patchJump(exit)
}

// compileForIn lowers `for x in iter { body }` to an index-counted loop
// over Len/GetIndex rather than a dedicated iterator protocol — lists,
// sets, and maps (keys) are all random-accessible by integer position,
// so no separate opcode pair is needed for this form (§4.C).
func (c *Compiler) compileForIn(fs *funcState, node *ast.Node) {
	iter := c.compileExpr(fs, node.X)
	idx := fs.alloc()
	zeroK := fs.addConst(int64(0))
	fs.emit(bytecode.LoadConst, idx, zeroK, 0, 0, node.Span)
	length := fs.alloc()
	fs.emit(bytecode.Len, length, iter, 0, 0, node.Span)

	start := fs.here()
	cond := fs.alloc()
	fs.emit(bytecode.Lt, cond, idx, length, 0, node.Span)
	exit := fs.emit(bytecode.JumpIfFalse, cond, 0, 0, 0, node.Span)

	fs.pushScope()
	elem := fs.addLocal(node.Name)
	fs.emit(bytecode.GetIndex, elem, iter, idx, 0, node.Span)
	c.compileStmt(fs, node.Body)
	fs.popScope()

	oneK := fs.addConst(int64(1))
	one := fs.alloc()
	fs.emit(bytecode.LoadConst, one, oneK, 0, 0, node.Span)
	fs.emit(bytecode.Add, idx, idx, one, 0, node.Span)
	back := fs.emit(bytecode.Jump, 0, 0, 0, 0, node.Span)
	fs.proto.Code[back].B = int32(start - back - 1)
	fs.patchJump(exit)
}

// compileReturn wires the tail-call criterion the parser already flagged
// (ast.Node.IsTail, set by markTailCalls) to TailCall emission instead of
// an ordinary call-then-return.
func (c *Compiler) compileReturn(fs *funcState, node *ast.Node) {
	if node.X == nil {
		dst := fs.alloc()
		fs.emit(bytecode.LoadNil, dst, 0, 0, 0, node.Span)
		fs.emit(bytecode.Return, dst, 0, 0, 0, node.Span)
		return
	}
	if node.IsTail && node.X.Kind == ast.CallExpr {
		dst := c.compileCall(fs, node.X, true)
		fs.emit(bytecode.Return, dst, 0, 0, 0, node.Span)
		return
	}
	val := c.compileExpr(fs, node.X)
	fs.emit(bytecode.Return, val, 0, 0, 0, node.Span)
}

// compileMatch compiles a match statement's arms in order: each pattern
// either always matches (IdentPattern, ElsPattern) or guards with a jump
// over the arm's body on mismatch (LiteralPattern via Eq, VariantPattern
// via MatchTag). The matched arm's expression is evaluated for its side
// effects only; a match statement produces no value of its own.
func (c *Compiler) compileMatch(fs *funcState, node *ast.Node) {
	subject := c.compileExpr(fs, node.X)
	var exits []int

	for _, arm := range node.Nodes {
		pat := arm.X
		switch pat.Kind {
		case ast.ElsPattern:
			c.compileExpr(fs, arm.Y)

		case ast.IdentPattern:
			fs.pushScope()
			local := fs.addLocal(pat.Name)
			fs.emit(bytecode.Move, local, subject, 0, 0, pat.Span)
			c.compileExpr(fs, arm.Y)
			fs.popScope()

		case ast.LiteralPattern:
			lit := c.compileExpr(fs, pat.X)
			cond := fs.alloc()
			fs.emit(bytecode.Eq, cond, subject, lit, 0, pat.Span)
			skip := fs.emit(bytecode.JumpIfFalse, cond, 0, 0, 0, pat.Span)
			c.compileExpr(fs, arm.Y)
			exits = append(exits, fs.emit(bytecode.Jump, 0, 0, 0, 0, arm.Span))
			fs.patchJump(skip)
			continue

		case ast.VariantPattern:
			enumName := c.variantEnum[pat.Name]
			if enumName == "" {
				enumName = pat.Name
			}
			tagK := fs.addConst(enumName + "." + pat.Name)
			guard := fs.emit(bytecode.MatchTag, subject, tagK, 0, 0, pat.Span)
			fs.pushScope()
			for i, b := range pat.Nodes {
				local := fs.addLocal(b.Name)
				fs.emit(bytecode.BindPayload, local, subject, int32(i), 0, b.Span)
			}
			c.compileExpr(fs, arm.Y)
			fs.popScope()
			exits = append(exits, fs.emit(bytecode.Jump, 0, 0, 0, 0, arm.Span))
			fs.patchJumpC(guard)
			continue

		default:
			c.errAt(pat.Span, diag.UnexpectedToken, "internal: unknown match pattern")
		}

		exits = append(exits, fs.emit(bytecode.Jump, 0, 0, 0, 0, arm.Span))
	}

	for _, pc := range exits {
		fs.patchJump(pc)
	}
}

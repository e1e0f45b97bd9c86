package parser

import (
	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/lexer"
)

// markTailCalls implements the syntactic tail-call criterion from §9's
// open question exactly as written: a call is a tail call iff it is
// syntactically `return f(args)` and nothing follows it in its immediate
// block. No generalization (e.g. `return f(args) + 1`, or a call buried
// inside an outer statement) is attempted.
func markTailCalls(block *ast.Node) {
	if len(block.Nodes) == 0 {
		return
	}
	last := block.Nodes[len(block.Nodes)-1]
	if last.Kind == ast.ReturnStmt && last.X != nil && last.X.Kind == ast.CallExpr {
		last.IsTail = true
	}
}

// precedence tiers, high to low, per §4.C:
//   primary · postfix · unary (-, not) · ** · * / % · + - ·
//   < <= > >= · == != · and · or · = (right-assoc, handled by parseExpr)
func precedence(k lexer.Kind) int {
	switch k {
	case lexer.OR:
		return 1
	case lexer.AND:
		return 2
	case lexer.EQ, lexer.NEQ:
		return 3
	case lexer.LT, lexer.LE, lexer.GT, lexer.GE:
		return 4
	case lexer.PLUS, lexer.MINUS:
		return 5
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return 6
	}
	return 0
}

const powerPrecedence = 7 // tighter than * / %, looser than unary; right-assoc

// parseExpr parses a full expression, including the right-associative `=`
// assignment tier, which binds loosest of all (§4.C).
func (p *Parser) parseExpr() *ast.Node {
	left := p.parseOrExpr()
	if p.at(lexer.ASSIGN) {
		tok := p.advance()
		right := p.parseExpr() // right-associative
		n := ast.NewNode(ast.AssignExpr, p.spanOf(tok))
		n.X = left
		n.Y = right
		return n
	}
	return left
}

// parseExprNoBrace parses an expression in a context where a following
// `{` must not be mistaken for a composite/block (if/while/for/match
// headers), matching the teacher's noCompLit technique.
func (p *Parser) parseExprNoBrace() *ast.Node {
	return p.parseOrExpr()
}

func (p *Parser) parseOrExpr() *ast.Node {
	left := p.parseAndExpr()
	for p.at(lexer.OR) {
		tok := p.advance()
		right := p.parseAndExpr()
		left = p.binary(tok, left, right)
	}
	return left
}

func (p *Parser) parseAndExpr() *ast.Node {
	left := p.parseBinaryExpr(3)
	for p.at(lexer.AND) {
		tok := p.advance()
		right := p.parseBinaryExpr(3)
		left = p.binary(tok, left, right)
	}
	return left
}

func (p *Parser) binary(tok lexer.Token, x, y *ast.Node) *ast.Node {
	n := ast.NewNode(ast.BinaryExpr, p.spanOf(tok))
	n.Name = tok.Kind.Name()
	n.X = x
	n.Y = y
	return n
}

// parseBinaryExpr handles the left-associative tiers 3..6 (comparison
// through multiplicative) by precedence climbing; `and`/`or` (tiers 1-2)
// are handled by their own callers since they short-circuit.
func (p *Parser) parseBinaryExpr(minPrec int) *ast.Node {
	left := p.parsePower()
	for {
		prec := precedence(p.peek().Kind)
		if prec < minPrec || prec == 0 {
			break
		}
		tok := p.advance()
		right := p.parseBinaryExpr(prec + 1)
		left = p.binary(tok, left, right)
	}
	return left
}

func (p *Parser) parsePower() *ast.Node {
	left := p.parseUnary()
	if p.at(lexer.STARSTAR) {
		tok := p.advance()
		right := p.parsePower() // right-assoc
		return p.binary(tok, left, right)
	}
	return left
}

func (p *Parser) parseUnary() *ast.Node {
	if p.match(lexer.MINUS, lexer.NOT) {
		tok := p.advance()
		x := p.parseUnary()
		n := ast.NewNode(ast.UnaryExpr, p.spanOf(tok))
		n.Name = tok.Kind.Name()
		n.X = x
		return n
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	node := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case lexer.DOT:
			tok := p.advance()
			name := p.expect(lexer.IDENT)
			n := ast.NewNode(ast.MemberExpr, p.spanOf(tok))
			n.X = node
			n.Name = name.Val
			node = n
		case lexer.LPAREN:
			tok := p.advance()
			call := ast.NewNode(ast.CallExpr, p.spanOf(tok))
			call.X = node
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				call.Nodes = append(call.Nodes, p.parseExpr())
				if p.at(lexer.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN)
			node = call
		case lexer.LBRACK:
			tok := p.advance()
			idx := p.parseExpr()
			p.expect(lexer.RBRACK)
			n := ast.NewNode(ast.IndexExpr, p.spanOf(tok))
			n.X = node
			n.Y = idx
			node = n
		default:
			return node
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case lexer.AT:
		p.advance()
		return p.parsePrimary()
	case lexer.IDENT:
		p.advance()
		return &ast.Node{Kind: ast.Ident, Span: p.spanOf(tok), Name: tok.Val}
	case lexer.INT:
		p.advance()
		return &ast.Node{Kind: ast.IntLit, Span: p.spanOf(tok), Name: tok.Val}
	case lexer.FLOAT:
		p.advance()
		return &ast.Node{Kind: ast.FloatLit, Span: p.spanOf(tok), Name: tok.Val}
	case lexer.STRING:
		p.advance()
		return &ast.Node{Kind: ast.StringLit, Span: p.spanOf(tok), Name: tok.Val}
	case lexer.InterpStart:
		return p.parseTemplate()
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.Node{Kind: ast.BoolLit, Span: p.spanOf(tok), Name: tok.Kind.Name()}
	case lexer.NIL:
		p.advance()
		return &ast.Node{Kind: ast.NilLit, Span: p.spanOf(tok)}
	case lexer.DOT:
		p.advance()
		name := p.expect(lexer.IDENT)
		n := ast.NewNode(ast.ImplicitVariant, p.spanOf(tok))
		n.Name = name.Val
		if p.at(lexer.LPAREN) {
			p.advance()
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				n.Nodes = append(n.Nodes, p.parseExpr())
				if p.at(lexer.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN)
		}
		return n
	case lexer.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(lexer.RPAREN)
		return e
	case lexer.LBRACK:
		return p.parseListLit()
	case lexer.LBRACE:
		return p.parseMapOrSetLit()
	case lexer.FN:
		return p.parseFnLitExpr()
	default:
		p.errAt(tok, diag.UnexpectedToken, "unexpected token in expression: %s", tok.String())
		p.advance()
		return &ast.Node{Kind: ast.Ident, Span: p.spanOf(tok), Name: "<error>"}
	}
}

// parseFnLitExpr parses an anonymous `fn(params) { body }` used as an
// expression (e.g. as an argument to a higher-order builtin).
func (p *Parser) parseFnLitExpr() *ast.Node {
	tok := p.advance() // 'fn'
	params, variadic := p.parseParamList()
	body := p.parseBlock()
	n := ast.NewNode(ast.FuncLit, p.spanOf(tok))
	n.Params = params
	n.Variadic = variadic
	n.Body = body
	return n
}

func (p *Parser) parseListLit() *ast.Node {
	tok := p.advance() // '['
	n := ast.NewNode(ast.ListLit, p.spanOf(tok))
	for !p.at(lexer.RBRACK) && !p.at(lexer.EOF) {
		n.Nodes = append(n.Nodes, p.parseExpr())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACK)
	return n
}

// parseMapOrSetLit parses `{}` (empty map), `{k: v, ...}` (map), or
// `{v, ...}` (set) — disambiguated by the first colon.
func (p *Parser) parseMapOrSetLit() *ast.Node {
	tok := p.advance() // '{'
	if p.at(lexer.RBRACE) {
		p.advance()
		return ast.NewNode(ast.MapLit, p.spanOf(tok))
	}
	first := p.parseExpr()
	if p.at(lexer.COLON) {
		n := ast.NewNode(ast.MapLit, p.spanOf(tok))
		p.advance()
		val := p.parseExpr()
		kv := ast.NewNode(ast.Invalid, p.spanOf(tok))
		kv.X, kv.Y = first, val
		n.Nodes = append(n.Nodes, kv)
		for p.at(lexer.COMMA) {
			p.advance()
			if p.at(lexer.RBRACE) {
				break
			}
			k := p.parseExpr()
			p.expect(lexer.COLON)
			v := p.parseExpr()
			kv := ast.NewNode(ast.Invalid, p.spanOf(tok))
			kv.X, kv.Y = k, v
			n.Nodes = append(n.Nodes, kv)
		}
		p.expect(lexer.RBRACE)
		return n
	}
	n := ast.NewNode(ast.SetLit, p.spanOf(tok))
	n.Nodes = append(n.Nodes, first)
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACE) {
			break
		}
		n.Nodes = append(n.Nodes, p.parseExpr())
	}
	p.expect(lexer.RBRACE)
	return n
}

// parseTemplate consumes the InterpStart/InterpMid/InterpEnd token run the
// lexer produced for a "literal{expr}literal" string and assembles a
// TemplateLit whose Nodes alternate StringLit literal pieces and parsed
// expression pieces (§4.B, Scenario 6).
func (p *Parser) parseTemplate() *ast.Node {
	tok := p.advance() // InterpStart
	n := ast.NewNode(ast.TemplateLit, p.spanOf(tok))
	n.Nodes = append(n.Nodes, &ast.Node{Kind: ast.StringLit, Span: p.spanOf(tok), Name: tok.Val})
	for {
		expr := p.parseExpr()
		n.Nodes = append(n.Nodes, expr)
		next := p.peek()
		if next.Kind == lexer.InterpMid {
			p.advance()
			n.Nodes = append(n.Nodes, &ast.Node{Kind: ast.StringLit, Span: p.spanOf(next), Name: next.Val})
			continue
		}
		if next.Kind == lexer.InterpEnd {
			p.advance()
			n.Nodes = append(n.Nodes, &ast.Node{Kind: ast.StringLit, Span: p.spanOf(next), Name: next.Val})
			return n
		}
		p.errAt(next, diag.UnexpectedToken, "malformed string interpolation")
		return n
	}
}

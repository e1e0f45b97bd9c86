// Package parser implements Axiom's recursive-descent, precedence-climbing
// parser (§4.C): source tokens to ast.Node, with nested-function lowering
// to let+lambda so closure capture is uniform at the compiler stage.
package parser

import (
	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/lexer"
)

// Parser consumes a token stream and produces an ast.Node tree.
type Parser struct {
	file   string
	tokens []lexer.Token
	pos    int
	errors []*diag.Diagnostic

	// knownNames is a flat, best-effort record of every name declared so
	// far, used only to generate Levenshtein suggestions for unexpected
	// identifiers (§4.C); it is not a real scope resolver — that lives in
	// internal/compiler.
	knownNames []string
}

// New creates a Parser over tokens, attributing diagnostics to file.
func New(file string, tokens []lexer.Token) *Parser {
	return &Parser{file: file, tokens: tokens}
}

// Errors returns the diagnostics accumulated while parsing.
func (p *Parser) Errors() []*diag.Diagnostic { return p.errors }

func (p *Parser) declareName(name string) {
	if name != "" {
		p.knownNames = append(p.knownNames, name)
	}
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) at(kind lexer.Kind) bool { return p.peek().Kind == kind }

func (p *Parser) match(kinds ...lexer.Kind) bool {
	k := p.peek().Kind
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (p *Parser) spanOf(tok lexer.Token) diag.Span {
	return diag.Span{File: p.file, Start: tok.Start, End: tok.End}
}

func (p *Parser) errAt(tok lexer.Token, code diag.Code, format string, args ...interface{}) {
	p.errors = append(p.errors, diag.Newf(code, p.spanOf(tok), format, args...))
}

// expect consumes a token of kind, or records an UnexpectedToken diagnostic
// (with a Levenshtein hint when the offending token is an identifier) and
// returns the zero Token.
func (p *Parser) expect(kind lexer.Kind) lexer.Token {
	tok := p.peek()
	if tok.Kind != kind {
		d := diag.Newf(diag.UnexpectedToken, p.spanOf(tok),
			"expected %s, found %s", kind.Name(), tok.String())
		if tok.Kind == lexer.IDENT {
			if hint, ok := diag.Suggest(tok.Val, p.knownNames); ok {
				d.WithHelp("did you mean '%s'?", hint)
			}
		}
		p.errors = append(p.errors, d)
		return lexer.Token{Kind: kind}
	}
	return p.advance()
}

func (p *Parser) skipSemicolons() {
	for p.at(lexer.SEMI) {
		p.advance()
	}
}

// ParseFile parses a complete Axiom source file into an ast.File node.
func (p *Parser) ParseFile() *ast.Node {
	start := p.peek()
	file := ast.NewNode(ast.File, p.spanOf(start))
	p.skipSemicolons()
	for !p.at(lexer.EOF) {
		decl := p.parseTopDecl()
		if decl != nil {
			file.Nodes = append(file.Nodes, decl)
		}
		p.skipSemicolons()
	}
	return file
}

func (p *Parser) parseTopDecl() *ast.Node {
	switch p.peek().Kind {
	case lexer.LOAD, lexer.IMPORT:
		return p.parseImport()
	case lexer.LET:
		return p.parseLetDecl()
	case lexer.FN:
		return p.parseFnDecl(true)
	case lexer.CLASS:
		return p.parseClassDecl()
	case lexer.ENUM:
		return p.parseEnumDecl()
	default:
		return p.parseStmt()
	}
}

func (p *Parser) parseImport() *ast.Node {
	tok := p.advance()
	name := p.expect(lexer.IDENT)
	p.declareName(name.Val)
	n := ast.NewNode(ast.Invalid, p.spanOf(tok))
	n.Name = name.Val
	p.skipSemicolons()
	return n
}

func (p *Parser) parseLetDecl() *ast.Node {
	tok := p.advance() // 'let'
	name := p.expect(lexer.IDENT)
	p.declareName(name.Val)
	p.expect(lexer.ASSIGN)
	val := p.parseExpr()
	n := ast.NewNode(ast.LetDecl, p.spanOf(tok))
	n.Name = name.Val
	n.X = val
	p.skipSemicolons()
	return n
}

// parseFnDecl parses `fn NAME(params) { block }`. When topLevel is false
// this represents a nested function, which the parser lowers into
// `let NAME = <lambda>` per §4.C's nested-function lowering rule so that
// closure capture is uniform; only a true top-level fn keeps FnDecl shape
// (it is still implemented as a binding, but the declaration is hoisted).
func (p *Parser) parseFnDecl(topLevel bool) *ast.Node {
	tok := p.advance() // 'fn'
	var name string
	if p.at(lexer.IDENT) {
		name = p.advance().Val
		p.declareName(name)
	}
	params, variadic := p.parseParamList()
	body := p.parseBlock()

	lambda := ast.NewNode(ast.FuncLit, p.spanOf(tok))
	lambda.Name = name
	lambda.Params = params
	lambda.Variadic = variadic
	lambda.Body = body

	if topLevel {
		decl := ast.NewNode(ast.FnDecl, p.spanOf(tok))
		decl.Name = name
		decl.Params = params
		decl.Variadic = variadic
		decl.Body = body
		return decl
	}

	let := ast.NewNode(ast.LetDecl, p.spanOf(tok))
	let.Name = name
	let.X = lambda
	return let
}

func (p *Parser) parseParamList() ([]string, bool) {
	p.expect(lexer.LPAREN)
	var params []string
	variadic := false
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		name := p.expect(lexer.IDENT)
		params = append(params, name.Val)
		p.declareName(name.Val)
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return params, variadic
}

func (p *Parser) parseClassDecl() *ast.Node {
	tok := p.advance() // 'class'
	name := p.expect(lexer.IDENT)
	p.declareName(name.Val)
	n := ast.NewNode(ast.ClassDecl, p.spanOf(tok))
	n.Name = name.Val

	if p.at(lexer.EXT) {
		p.advance()
		parent := p.expect(lexer.IDENT)
		n.Parent = parent.Val
	}

	p.expect(lexer.LBRACE)
	p.skipSemicolons()
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if p.at(lexer.FN) {
			method := p.parseFnDecl(true)
			method.Kind = ast.MethodDecl
			n.Nodes = append(n.Nodes, method)
		} else {
			field := p.expect(lexer.IDENT)
			p.declareName(field.Val)
			fd := ast.NewNode(ast.FieldDecl, p.spanOf(field))
			fd.Name = field.Val
			n.Nodes = append(n.Nodes, fd)
		}
		p.skipSemicolons()
	}
	p.expect(lexer.RBRACE)
	return n
}

func (p *Parser) parseEnumDecl() *ast.Node {
	tok := p.advance() // 'enum'
	name := p.expect(lexer.IDENT)
	p.declareName(name.Val)
	n := ast.NewNode(ast.EnumDecl, p.spanOf(tok))
	n.Name = name.Val

	p.expect(lexer.LBRACE)
	p.skipSemicolons()
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		variant := p.expect(lexer.IDENT)
		v := ast.NewNode(ast.EnumVariantDecl, p.spanOf(variant))
		v.Name = variant.Val
		if p.at(lexer.LPAREN) {
			p.advance()
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				field := p.expect(lexer.IDENT)
				fd := ast.NewNode(ast.FieldDecl, p.spanOf(field))
				fd.Name = field.Val
				v.Nodes = append(v.Nodes, fd)
				if p.at(lexer.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN)
		}
		n.Nodes = append(n.Nodes, v)
		if p.at(lexer.COMMA) {
			p.advance()
		}
		p.skipSemicolons()
	}
	p.expect(lexer.RBRACE)
	return n
}

func (p *Parser) parseBlock() *ast.Node {
	tok := p.expect(lexer.LBRACE)
	n := ast.NewNode(ast.Block, p.spanOf(tok))
	p.skipSemicolons()
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		stmt := p.parseBlockStmt()
		if stmt != nil {
			n.Nodes = append(n.Nodes, stmt)
		}
		p.skipSemicolons()
	}
	p.expect(lexer.RBRACE)
	markTailCalls(n)
	return n
}

// parseBlockStmt parses one statement inside a block, including the
// declarations that are legal inside a function body (let, nested fn).
func (p *Parser) parseBlockStmt() *ast.Node {
	switch p.peek().Kind {
	case lexer.LET:
		return p.parseLetDecl()
	case lexer.FN:
		return p.parseFnDecl(false)
	default:
		return p.parseStmt()
	}
}

func (p *Parser) parseStmt() *ast.Node {
	switch p.peek().Kind {
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseForIn()
	case lexer.MATCH:
		return p.parseMatch()
	case lexer.RET, lexer.RETURN:
		return p.parseReturn()
	case lexer.LBRACE:
		return p.parseBlock()
	default:
		tok := p.peek()
		expr := p.parseExpr()
		n := ast.NewNode(ast.ExprStmt, p.spanOf(tok))
		n.X = expr
		p.skipSemicolons()
		return n
	}
}

func (p *Parser) parseIf() *ast.Node {
	tok := p.advance() // 'if'
	cond := p.parseExprNoBrace()
	body := p.parseBlock()
	n := ast.NewNode(ast.IfStmt, p.spanOf(tok))
	n.X = cond
	n.Body = body
	if p.at(lexer.ELSE) {
		p.advance()
		if p.at(lexer.IF) {
			n.Else = p.parseIf()
		} else {
			n.Else = p.parseBlock()
		}
	}
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	tok := p.advance() // 'while'
	cond := p.parseExprNoBrace()
	body := p.parseBlock()
	n := ast.NewNode(ast.WhileStmt, p.spanOf(tok))
	n.X = cond
	n.Body = body
	return n
}

func (p *Parser) parseForIn() *ast.Node {
	tok := p.advance() // 'for'
	name := p.expect(lexer.IDENT)
	p.declareName(name.Val)
	p.expect(lexer.IN)
	iter := p.parseExprNoBrace()
	body := p.parseBlock()
	n := ast.NewNode(ast.ForInStmt, p.spanOf(tok))
	n.Name = name.Val
	n.X = iter
	n.Body = body
	return n
}

// parseMatch parses `match EXPR { PAT => EXPR, ..., els => EXPR }`.
// Pattern variants: literal, identifier (binds), enum-variant with
// optional payload, implicit-enum `.Variant`, and the catchall `els`.
func (p *Parser) parseMatch() *ast.Node {
	tok := p.advance() // 'match'
	subject := p.parseExprNoBrace()
	n := ast.NewNode(ast.MatchStmt, p.spanOf(tok))
	n.X = subject

	p.expect(lexer.LBRACE)
	p.skipSemicolons()
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		arm := p.parseMatchArm()
		n.Nodes = append(n.Nodes, arm)
		if p.at(lexer.COMMA) {
			p.advance()
		}
		p.skipSemicolons()
	}
	p.expect(lexer.RBRACE)
	return n
}

func (p *Parser) parseMatchArm() *ast.Node {
	patTok := p.peek()
	pat := p.parsePattern()
	p.expect(lexer.FATARROW)
	result := p.parseExpr()
	arm := ast.NewNode(ast.MatchArm, p.spanOf(patTok))
	arm.X = pat
	arm.Y = result
	return arm
}

func (p *Parser) parsePattern() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case lexer.ELS:
		p.advance()
		return ast.NewNode(ast.ElsPattern, p.spanOf(tok))
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.TRUE, lexer.FALSE, lexer.NIL:
		lit := p.parsePrimary()
		n := ast.NewNode(ast.LiteralPattern, p.spanOf(tok))
		n.X = lit
		return n
	case lexer.DOT:
		p.advance()
		variant := p.expect(lexer.IDENT)
		n := ast.NewNode(ast.VariantPattern, p.spanOf(tok))
		n.Name = variant.Val
		if p.at(lexer.LPAREN) {
			p.advance()
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				bind := p.expect(lexer.IDENT)
				p.declareName(bind.Val)
				b := ast.NewNode(ast.IdentPattern, p.spanOf(bind))
				b.Name = bind.Val
				n.Nodes = append(n.Nodes, b)
				if p.at(lexer.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN)
		}
		return n
	case lexer.IDENT:
		// Could be a bare enum-variant tag (the implicit `.Variant` form is
		// parsed via DOT above; a bare capitalized-by-convention ident with a
		// payload list is treated as a variant pattern, otherwise a binding
		// ident).
		if p.peekAt(1).Kind == lexer.LPAREN {
			p.advance()
			n := ast.NewNode(ast.VariantPattern, p.spanOf(tok))
			n.Name = tok.Val
			p.advance() // '('
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				bind := p.expect(lexer.IDENT)
				p.declareName(bind.Val)
				b := ast.NewNode(ast.IdentPattern, p.spanOf(bind))
				b.Name = bind.Val
				n.Nodes = append(n.Nodes, b)
				if p.at(lexer.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN)
			return n
		}
		p.advance()
		p.declareName(tok.Val)
		n := ast.NewNode(ast.IdentPattern, p.spanOf(tok))
		n.Name = tok.Val
		return n
	default:
		p.errAt(tok, diag.UnexpectedToken, "unexpected token in pattern: %s", tok.String())
		p.advance()
		return ast.NewNode(ast.ElsPattern, p.spanOf(tok))
	}
}

func (p *Parser) parseReturn() *ast.Node {
	tok := p.advance() // 'ret' or 'return'
	n := ast.NewNode(ast.ReturnStmt, p.spanOf(tok))
	if !p.at(lexer.SEMI) && !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		n.X = p.parseExpr()
	}
	p.skipSemicolons()
	return n
}

// Package ast defines Axiom's abstract syntax tree. Nodes are discarded
// after compilation (§3.5); the tree carries only what the parser resolved
// syntactically — name resolution and register assignment happen in
// internal/compiler.
package ast

import "github.com/axiom-lang/axiom/internal/diag"

// Kind identifies the syntactic form of a Node.
type Kind int

const (
	Invalid Kind = iota

	// Declarations
	File
	LetDecl
	FnDecl
	ClassDecl
	FieldDecl
	MethodDecl
	EnumDecl
	EnumVariantDecl

	// Statements
	Block
	ExprStmt
	IfStmt
	WhileStmt
	ForInStmt
	MatchStmt
	ReturnStmt

	// Match arms
	MatchArm

	// Patterns
	LiteralPattern
	IdentPattern
	VariantPattern
	ElsPattern

	// Expressions
	Ident
	IntLit
	FloatLit
	StringLit
	TemplateLit // string interpolation: Pieces alternate literal/expr
	BoolLit
	NilLit
	ListLit
	MapLit
	SetLit
	BinaryExpr
	UnaryExpr
	AssignExpr
	CallExpr
	IndexExpr
	MemberExpr
	FuncLit
	NewExpr
	ImplicitVariant // .Variant used as an expression/pattern shorthand
)

// Node is the universal AST node, generalized across declarations,
// statements, expressions, and patterns.
type Node struct {
	Kind Kind
	Span diag.Span

	Name string // identifier / field / operator text / variant tag

	// Generic children, used where order matters and arity varies:
	// file decls, block stmts, call args, list/map/set elements,
	// match arms, class fields+methods, enum variants, param names.
	Nodes []*Node

	X, Y *Node // primary operands: callee/lhs, index/rhs
	Body *Node // block body of fn/if/while/for/match-arm
	Else *Node // else branch of IfStmt

	Params  []string // fn parameter names, in order
	Variadic bool

	Parent string // ClassDecl's `ext PARENT`, empty if none

	IsTail bool // ReturnStmt: syntactically return f(args) with nothing after (§9 open question)
}

// NewNode is a small constructor to keep call sites in the parser terse.
func NewNode(kind Kind, span diag.Span) *Node {
	return &Node{Kind: kind, Span: span}
}

// Package lexer turns Axiom source text into a stream of spanned tokens
// (§4.B). It mirrors the teacher compiler's hand-written scanner shape —
// byte cursor, line/col tracking, a single Tokenize pass — generalized from
// Go's grammar to Axiom's.
package lexer

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	IDENT
	INT
	FLOAT
	STRING
	// InterpStart/InterpMid/InterpEnd delimit the literal pieces of a
	// string-interpolation template; the lexer emits the `{…}` pieces in
	// between as ordinary tokens (scanInterpExpr), which the parser reads
	// as expressions (§4.B).
	InterpStart
	InterpMid
	InterpEnd

	// Keywords
	LET
	FN
	RET
	RETURN
	NIL
	TRUE
	FALSE
	IF
	ELSE
	WHILE
	FOR
	IN
	MATCH
	CLASS
	EXT
	ENUM
	GO
	LOAD
	IMPORT
	AND
	OR
	NOT
	ELS

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	STARSTAR
	EQ
	NEQ
	LT
	LE
	GT
	GE
	ASSIGN
	DOT
	COLON
	SEMI
	COMMA
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACK
	RBRACK
	FATARROW
	DOTVARIANT // .Variant implicit-enum pattern token family; never emitted: the lexer produces DOT+IDENT, which is what the parser matches
)

var keywords = map[string]Kind{
	"let": LET, "fn": FN, "ret": RET, "return": RETURN,
	"nil": NIL, "true": TRUE, "false": FALSE,
	"if": IF, "else": ELSE, "while": WHILE, "for": FOR, "in": IN,
	"match": MATCH, "class": CLASS, "ext": EXT, "enum": ENUM,
	"go": GO, "load": LOAD, "import": IMPORT,
	"and": AND, "or": OR, "not": NOT, "els": ELS,
}

var kindNames = map[Kind]string{
	EOF: "EOF", IDENT: "identifier", INT: "int", FLOAT: "float", STRING: "string",
	InterpStart: "interp-start", InterpMid: "interp-mid", InterpEnd: "interp-end",
	LET: "let", FN: "fn", RET: "ret", RETURN: "return", NIL: "nil", TRUE: "true", FALSE: "false",
	IF: "if", ELSE: "else", WHILE: "while", FOR: "for", IN: "in", MATCH: "match",
	CLASS: "class", EXT: "ext", ENUM: "enum", GO: "go", LOAD: "load", IMPORT: "import",
	AND: "and", OR: "or", NOT: "not", ELS: "els",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", STARSTAR: "**",
	EQ: "==", NEQ: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=", ASSIGN: "=",
	DOT: ".", COLON: ":", SEMI: ";", COMMA: ",",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACK: "[", RBRACK: "]",
	FATARROW: "=>",
}

// Name returns the canonical rendering of a Kind, used in diagnostics and
// in Token.String.
func (k Kind) Name() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "?"
}

// Token is a single lexical unit with a precise byte-offset span.
type Token struct {
	Kind  Kind
	Val   string
	Start int
	End   int
	Line  int
	Col   int
}

func (t Token) String() string {
	if t.Val != "" {
		return t.Kind.Name() + "(" + t.Val + ")"
	}
	return t.Kind.Name()
}

// needsSemicolon reports whether a statement ending in a token of this kind
// is eligible for automatic semicolon insertion on a following newline
// (§4.B statement terminator policy).
func needsSemicolon(k Kind) bool {
	switch k {
	case IDENT, INT, FLOAT, STRING, InterpEnd:
		return true
	case RPAREN, RBRACK, RBRACE:
		return true
	case RET, RETURN, NIL, TRUE, FALSE:
		return true
	}
	return false
}

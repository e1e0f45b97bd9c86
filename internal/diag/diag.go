// Package diag implements Axiom's coded diagnostic engine: numbered error
// families, spanned source locations, and rustc-style rendering.
package diag

import "fmt"

// Code is a three-digit diagnostic family member, rendered as AXM_NNN.
type Code int

const (
	// 1xx lexical
	UnexpectedToken   Code = 101
	UnterminatedString Code = 102
	InvalidNumber     Code = 103
	UnexpectedEof     Code = 105

	// 2xx semantic
	UndefinedIdentifier Code = 200
	UndefinedVariable   Code = 201
	ArityMismatch       Code = 202
	TypeMismatch        Code = 203

	// 4xx runtime
	NotCallable     Code = 401
	NilCall         Code = 402
	DivisionByZero  Code = 403
	IndexOutOfBounds Code = 404
	StackOverflow   Code = 408

	// 5xx system
	IOError      Code = 501
	DeviceError  Code = 502
	NetworkError Code = 503

	// 6xx module
	ModuleNotFound  Code = 601
	VersionConflict Code = 602
	CircularImport  Code = 603
	ModuleHasErrors Code = 604
)

var codeMessages = map[Code]string{
	UnexpectedToken:    "unexpected token",
	UnterminatedString: "unterminated string literal",
	InvalidNumber:      "invalid number literal",
	UnexpectedEof:      "unexpected end of file",

	UndefinedIdentifier: "undefined identifier",
	UndefinedVariable:   "undefined variable",
	ArityMismatch:       "arity mismatch",
	TypeMismatch:        "type mismatch",

	NotCallable:      "value is not callable",
	NilCall:          "call on nil",
	DivisionByZero:   "division by zero",
	IndexOutOfBounds: "index out of bounds",
	StackOverflow:    "stack overflow",

	IOError:      "I/O error",
	DeviceError:  "device error",
	NetworkError: "network error",

	ModuleNotFound:  "module not found",
	VersionConflict: "version conflict",
	CircularImport:  "circular import",
	ModuleHasErrors: "module has errors",
}

// DefaultMessage returns the family's canonical one-line message, used when
// a diagnostic is constructed without an explicit override.
func (c Code) DefaultMessage() string {
	if m, ok := codeMessages[c]; ok {
		return m
	}
	return "unknown error"
}

// String renders the code as it appears in a diagnostic header: AXM_403.
func (c Code) String() string {
	return fmt.Sprintf("AXM_%03d", int(c))
}

// Kind buckets a code into its exit-code family (§7).
func (c Code) Kind() Kind {
	switch {
	case c >= 100 && c < 200:
		return Lexical
	case c >= 200 && c < 400:
		return Semantic
	case c >= 400 && c < 500:
		return Runtime
	case c >= 500 && c < 600:
		return System
	case c >= 600 && c < 700:
		return Module
	default:
		return Unknown
	}
}

// Kind is the broad family a Code belongs to.
type Kind int

const (
	Unknown Kind = iota
	Lexical
	Semantic
	Runtime
	System
	Module
)

// ExitCode returns the process exit code associated with a diagnostic of
// this kind, per §7 (compile-time diagnostics exit 1, runtime exit 2).
func (k Kind) ExitCode() int {
	switch k {
	case Lexical, Semantic:
		return 1
	case Runtime, System, Module:
		return 2
	default:
		return 1
	}
}

// Span is a byte-offset range within a named source file.
type Span struct {
	File  string
	Start int
	End   int
}

// Label attaches a short note to a secondary span.
type Label struct {
	Span Span
	Text string
}

// Diagnostic is a coded, spanned, renderable error.
type Diagnostic struct {
	Code      Code
	Message   string
	Primary   Span
	Secondary []Label
	Help      string
}

// New constructs a Diagnostic using the code's default message.
func New(code Code, primary Span) *Diagnostic {
	return &Diagnostic{Code: code, Message: code.DefaultMessage(), Primary: primary}
}

// Newf constructs a Diagnostic with a formatted message override.
func Newf(code Code, primary Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Primary: primary}
}

// WithHelp attaches a constructive "= help:" note and returns the receiver
// for chaining at the call site.
func (d *Diagnostic) WithHelp(format string, args ...interface{}) *Diagnostic {
	d.Help = fmt.Sprintf(format, args...)
	return d
}

// WithLabel attaches a secondary span with a label.
func (d *Diagnostic) WithLabel(span Span, format string, args ...interface{}) *Diagnostic {
	d.Secondary = append(d.Secondary, Label{Span: span, Text: fmt.Sprintf(format, args...)})
	return d
}

// Error implements the error interface with a single-line summary; full
// rendering with source context is done by Renderer.Render.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("error[%s]: %s", d.Code, d.Message)
}

// ExitCode is a convenience for d.Code.Kind().ExitCode().
func (d *Diagnostic) ExitCode() int {
	return d.Code.Kind().ExitCode()
}

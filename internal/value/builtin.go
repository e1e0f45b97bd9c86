package value

import "github.com/axiom-lang/axiom/internal/diag"

// CallFunc is how a Builtin re-enters the VM to invoke a user-supplied
// closure (e.g. a `map`/`each` style host function calling back into
// Axiom code). It is declared here, not in internal/vm, purely so this
// package never has to import the VM — internal/vm supplies its own Call
// method as a CallFunc when it invokes a builtin.
type CallFunc func(callee Value, args []Value) (Value, *diag.Diagnostic)

// Builtin is a host-provided function (§4.H): fixed or variadic arity, and
// a Go implementation that may call back into user code via `call`.
type Builtin struct {
	Name     string
	Arity    int
	Variadic bool
	Fn       func(args []Value, call CallFunc) (Value, *diag.Diagnostic)
}

func NewBuiltin(name string, arity int, variadic bool, fn func(args []Value, call CallFunc) (Value, *diag.Diagnostic)) *Builtin {
	return &Builtin{Name: name, Arity: arity, Variadic: variadic, Fn: fn}
}

// Package host implements the registration side of Axiom's host interface
// (§4.H): builtins are grouped by namespace, looked up by qualified name,
// and installed into a VM's globals before a program starts. The 22
// intrinsic namespaces themselves (mth, str, ioo, alg, ...) are explicitly
// out of scope for the core (§1); this package only provides the registry
// mechanism plus the handful of builtins the CLI itself depends on to
// produce output (`ioo.print`) and the re-entrant higher-order form every
// other namespace would be built from (`alg.map`).
package host

import (
	"bufio"

	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/value"
)

// GlobalSetter is the subset of *vm.VM a Registry needs to install
// builtins, kept narrow so this package never imports internal/vm
// (internal/vm does not import this package either; cmd/axiom wires the
// two together).
type GlobalSetter interface {
	SetGlobal(name string, v value.Value)
}

// Registry collects builtins before they are installed into a VM, so a
// host embedding Axiom can compose namespaces (its own plus ours) before
// any program runs.
type Registry struct {
	builtins map[string]*value.Builtin
}

func New() *Registry {
	return &Registry{builtins: map[string]*value.Builtin{}}
}

// Register adds one namespace-qualified builtin (e.g. "ioo.print").
func (r *Registry) Register(qualifiedName string, arity int, variadic bool, fn func(args []value.Value, call value.CallFunc) (value.Value, *diag.Diagnostic)) {
	r.builtins[qualifiedName] = value.NewBuiltin(qualifiedName, arity, variadic, fn)
}

// Install binds every registered builtin into vm's globals under its
// qualified name, making `ioo.print(...)` resolve the same way any other
// global does (GetGlobal on the literal dotted name).
func (r *Registry) Install(vm GlobalSetter) {
	for name, b := range r.builtins {
		vm.SetGlobal(name, value.FromBuiltin(b))
	}
}

// Core returns the minimal builtin set the CLI's `run` subcommand needs:
// output (ioo.print/ioo.println) and one re-entrant higher-order builtin
// (alg.map) demonstrating the call-back contract every other namespace
// would use (§4.H.2).
func Core(out *bufio.Writer) *Registry {
	r := New()
	r.Register("ioo.print", 1, true, func(args []value.Value, _ value.CallFunc) (value.Value, *diag.Diagnostic) {
		for i, a := range args {
			if i > 0 {
				_, _ = out.WriteString(" ")
			}
			_, _ = out.WriteString(value.Display(a))
		}
		_ = out.Flush()
		return value.Nil, nil
	})
	r.Register("ioo.println", 1, true, func(args []value.Value, _ value.CallFunc) (value.Value, *diag.Diagnostic) {
		for i, a := range args {
			if i > 0 {
				_, _ = out.WriteString(" ")
			}
			_, _ = out.WriteString(value.Display(a))
		}
		_, _ = out.WriteString("\n")
		_ = out.Flush()
		return value.Nil, nil
	})
	r.Register("str.upper", 1, false, func(args []value.Value, _ value.CallFunc) (value.Value, *diag.Diagnostic) {
		if args[0].Kind() != value.KindStr {
			return value.Nil, diag.New(diag.TypeMismatch, diag.Span{}).WithHelp("str.upper requires a string")
		}
		return value.Str(&value.InternedString{Bytes: upper(args[0].AsString().Bytes)}), nil
	})
	// alg.map(list, fn) re-enters the VM through the call-back it was
	// handed (§4.H.2: "re-enter the VM by invoking a passed-in user
	// closure"), the pattern every higher-order intrinsic namespace
	// builds on.
	r.Register("alg.map", 2, false, func(args []value.Value, call value.CallFunc) (value.Value, *diag.Diagnostic) {
		if args[0].Kind() != value.KindList {
			return value.Nil, diag.New(diag.TypeMismatch, diag.Span{}).WithHelp("alg.map requires a list")
		}
		src := args[0].AsList()
		out := make([]value.Value, 0, src.Len())
		for i := 0; i < src.Len(); i++ {
			item, _ := src.Get(i)
			v, d := call(args[1], []value.Value{item})
			if d != nil {
				return value.Nil, d
			}
			out = append(out, v)
		}
		return value.FromList(value.NewList(out)), nil
	})
	return r
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}

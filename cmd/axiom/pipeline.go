package main

import (
	"os"

	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/compiler"
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/lexer"
	"github.com/axiom-lang/axiom/internal/opt"
	"github.com/axiom-lang/axiom/internal/parser"
	"github.com/axiom-lang/axiom/internal/value"
)

// frontend runs the lex/parse/compile pipeline over path, returning the
// compiled program and the interner the VM must reuse (§4.B: interned
// strings compare by identity, so the compiler's interner and the VM's
// must be the same instance). Every stage's diagnostics are returned
// together; compilation stops at the first stage that reports any.
func frontend(path string, src []byte, opts runOptions) (*bytecode.Program, *value.Interner, []*diag.Diagnostic) {
	lx := lexer.New(path, src)
	tokens := lx.Tokenize()
	if errs := lx.Errors(); len(errs) > 0 {
		return nil, nil, errs
	}

	ps := parser.New(path, tokens)
	fileNode := ps.ParseFile()
	if errs := ps.Errors(); len(errs) > 0 {
		return nil, nil, errs
	}

	in := value.NewInterner()
	program, errs := compiler.Compile(path, fileNode, in)
	if len(errs) > 0 {
		return nil, nil, errs
	}

	if opts.optimize {
		opt.Default().Run(program.Root)
	}

	return program, in, nil
}

type runOptions struct {
	optimize bool
}

// readSource loads path and returns os.ReadFile's error unchanged; its
// callers map that error to the documented file-not-found exit code (§7)
// rather than a generic compile error.
func readSource(path string) ([]byte, error) {
	return os.ReadFile(path)
}

package main

import (
	"strings"
	"testing"

	"github.com/axiom-lang/axiom/internal/lexer"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	lx := lexer.New("t.axm", []byte(src))
	toks := lx.Tokenize()
	if errs := lx.Errors(); len(errs) > 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	return toks
}

func TestReformatIndentsNestedBlocks(t *testing.T) {
	out := reformat(tokenize(t, "fn f(){if x{ret 1;}}"))
	want := "fn f() {\n\tif x {\n\t\tret 1;\n\t}\n}\n"
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
}

func TestReformatNoSpaceBeforePunctuation(t *testing.T) {
	out := reformat(tokenize(t, "f(1,2);"))
	if strings.Contains(out, " )") || strings.Contains(out, " ,") || strings.Contains(out, "f (") {
		t.Fatalf("unexpected spacing in %q", out)
	}
}

func TestReformatIsIdempotent(t *testing.T) {
	first := reformat(tokenize(t, "let x=1;\nif x>0{ret x;}"))
	second := reformat(tokenize(t, first))
	if first != second {
		t.Fatalf("reformat is not idempotent:\nfirst:\n%q\nsecond:\n%q", first, second)
	}
}

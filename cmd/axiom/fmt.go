package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axiom-lang/axiom/internal/lexer"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "reformat an Axiom source file to canonical style",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(doFmt(args[0]))
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write the result back to the file instead of stdout")
}

func doFmt(path string) int {
	src, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "axiom: %s: %v\n", path, err)
		return 3
	}

	lx := lexer.New(path, src)
	tokens := lx.Tokenize()
	if errs := lx.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return 1
	}

	out := reformat(tokens)
	if fmtWrite {
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "axiom: %s: %v\n", path, err)
			return 2
		}
		return 0
	}
	fmt.Print(out)
	return 0
}

// reformat renders a token stream in canonical style: one statement per
// line, tab indentation tracking brace depth, a single space around
// binary/assignment operators and after commas, no space before `(`, `[`
// or `,`. It is a token-stream formatter rather than an AST pretty
// printer — the lexer already discards exactly what canonical style
// doesn't care about (comments aside, which re-lex as whitespace), so
// there's no tree to round-trip through.
func reformat(tokens []lexer.Token) string {
	var b strings.Builder
	depth := 0
	atLineStart := true

	noSpaceBefore := map[lexer.Kind]bool{
		lexer.RPAREN: true, lexer.RBRACE: true, lexer.RBRACK: true,
		lexer.COMMA: true, lexer.SEMI: true, lexer.DOT: true, lexer.COLON: true,
		lexer.LPAREN: true, lexer.LBRACK: true,
	}
	noSpaceAfter := map[lexer.Kind]bool{
		lexer.LPAREN: true, lexer.LBRACK: true, lexer.DOT: true,
	}

	var prev lexer.Token
	hasPrev := false

	writeIndent := func() {
		b.WriteString(strings.Repeat("\t", depth))
	}

	for _, tok := range tokens {
		if tok.Kind == lexer.EOF {
			break
		}
		// A SEMI at the start of a fresh line is a redundant empty
		// statement (often the auto-inserted terminator after a closing
		// brace that already ended its own line) — drop it rather than
		// emitting a stray ";" line.
		if tok.Kind == lexer.SEMI && atLineStart {
			continue
		}
		if tok.Kind == lexer.RBRACE && depth > 0 {
			depth--
		}

		if atLineStart {
			writeIndent()
			atLineStart = false
		} else if hasPrev && !noSpaceAfter[prev.Kind] && !noSpaceBefore[tok.Kind] {
			b.WriteString(" ")
		}

		b.WriteString(tokenText(tok))

		switch tok.Kind {
		case lexer.LBRACE:
			depth++
			b.WriteString("\n")
			atLineStart = true
		case lexer.RBRACE, lexer.SEMI:
			b.WriteString("\n")
			atLineStart = true
		}

		prev = tok
		hasPrev = true
	}
	return b.String()
}

func tokenText(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.STRING:
		return `"` + tok.Val + `"`
	case lexer.IDENT, lexer.INT, lexer.FLOAT:
		return tok.Val
	default:
		return tok.Kind.Name()
	}
}

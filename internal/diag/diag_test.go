package diag

import (
	"strings"
	"testing"
)

func TestCodeStringFormat(t *testing.T) {
	if got := DivisionByZero.String(); got != "AXM_403" {
		t.Fatalf("got %q, want AXM_403", got)
	}
}

func TestCodeKindBuckets(t *testing.T) {
	cases := []struct {
		code Code
		want Kind
	}{
		{UnexpectedToken, Lexical},
		{ArityMismatch, Semantic},
		{DivisionByZero, Runtime},
		{IOError, System},
		{ModuleNotFound, Module},
	}
	for _, c := range cases {
		if got := c.code.Kind(); got != c.want {
			t.Fatalf("%s.Kind() = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestExitCodesMatchSpec(t *testing.T) {
	if Lexical.ExitCode() != 1 || Semantic.ExitCode() != 1 {
		t.Fatal("compile-time diagnostics must exit 1")
	}
	if Runtime.ExitCode() != 2 || System.ExitCode() != 2 || Module.ExitCode() != 2 {
		t.Fatal("runtime/system/module diagnostics must exit 2")
	}
}

func TestDiagnosticExitCodeConvenience(t *testing.T) {
	d := New(DivisionByZero, Span{})
	if d.ExitCode() != 2 {
		t.Fatalf("got %d, want 2", d.ExitCode())
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	d := Newf(ArityMismatch, Span{}, "'%s' expects %d argument(s), got %d", "f", 2, 1)
	if !strings.Contains(d.Message, "expects 2 argument(s), got 1") {
		t.Fatalf("got %q", d.Message)
	}
}

func TestWithHelpAndLabelChain(t *testing.T) {
	d := New(TypeMismatch, Span{}).WithHelp("try converting to a number").WithLabel(Span{Start: 1, End: 2}, "here")
	if d.Help == "" {
		t.Fatal("expected Help to be set")
	}
	if len(d.Secondary) != 1 || d.Secondary[0].Text != "here" {
		t.Fatalf("got %+v", d.Secondary)
	}
}

func TestErrorStringIncludesCodeAndMessage(t *testing.T) {
	d := New(NotCallable, Span{})
	s := d.Error()
	if !strings.Contains(s, "AXM_401") || !strings.Contains(s, "not callable") {
		t.Fatalf("got %q", s)
	}
}

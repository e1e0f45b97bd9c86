package parser

import (
	"testing"

	"github.com/axiom-lang/axiom/internal/ast"
	"github.com/axiom-lang/axiom/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	lx := lexer.New("t.axm", []byte(src))
	toks := lx.Tokenize()
	if errs := lx.Errors(); len(errs) > 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	p := New("t.axm", toks)
	file := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return file
}

func TestParseLetDecl(t *testing.T) {
	file := parse(t, "let x = 1;")
	if len(file.Nodes) != 1 || file.Nodes[0].Kind != ast.LetDecl {
		t.Fatalf("got %+v", file.Nodes)
	}
	if file.Nodes[0].Name != "x" {
		t.Fatalf("got name %q, want x", file.Nodes[0].Name)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	file := parse(t, "ret 1 + 2 * 3;")
	ret := file.Nodes[0]
	if ret.Kind != ast.ReturnStmt {
		t.Fatalf("got %v", ret.Kind)
	}
	top := ret.X
	if top.Kind != ast.BinaryExpr || top.Name != "+" {
		t.Fatalf("expected top-level '+', got %+v", top)
	}
	if top.Y.Kind != ast.BinaryExpr || top.Y.Name != "*" {
		t.Fatalf("expected '*' to bind tighter, got %+v", top.Y)
	}
}

func TestTailCallDetection(t *testing.T) {
	file := parse(t, `
		fn f() {
			ret g();
		}
	`)
	fn := file.Nodes[0]
	body := fn.Body
	last := body.Nodes[len(body.Nodes)-1]
	if !last.IsTail {
		t.Fatal("expected the final `ret g()` to be marked as a tail call")
	}
}

func TestTailCallNotMarkedWhenNotBareCall(t *testing.T) {
	file := parse(t, `
		fn f() {
			ret g() + 1;
		}
	`)
	fn := file.Nodes[0]
	body := fn.Body
	last := body.Nodes[len(body.Nodes)-1]
	if last.IsTail {
		t.Fatal("ret g() + 1 must not be marked as a tail call")
	}
}

func TestParseMatchArms(t *testing.T) {
	file := parse(t, `
		match x {
			1 => 1,
			Some(y) => y,
			els => 0,
		}
	`)
	m := file.Nodes[0]
	if m.Kind != ast.MatchStmt {
		t.Fatalf("got %v", m.Kind)
	}
	if len(m.Nodes) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(m.Nodes))
	}
}

func TestParseClassWithFieldsAndMethods(t *testing.T) {
	file := parse(t, `
		class Point {
			x;
			y;
			fn sum() {
				ret self.x + self.y;
			}
		}
	`)
	cls := file.Nodes[0]
	if cls.Kind != ast.ClassDecl || cls.Name != "Point" {
		t.Fatalf("got %+v", cls)
	}
	if len(cls.Nodes) != 3 {
		t.Fatalf("expected 2 fields + 1 method, got %d", len(cls.Nodes))
	}
}

func TestParseEnumWithPayload(t *testing.T) {
	file := parse(t, `
		enum Shape {
			Circle(r),
			Square(side),
		}
	`)
	e := file.Nodes[0]
	if e.Kind != ast.EnumDecl || len(e.Nodes) != 2 {
		t.Fatalf("got %+v", e)
	}
	if e.Nodes[0].Name != "Circle" || len(e.Nodes[0].Nodes) != 1 {
		t.Fatalf("got %+v", e.Nodes[0])
	}
}

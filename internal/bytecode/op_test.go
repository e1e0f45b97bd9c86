package bytecode

import "testing"

func TestOpStringCoversEveryOpcode(t *testing.T) {
	for op := LoadConst; op <= CallIC; op++ {
		if got := op.String(); got == "?" {
			t.Fatalf("opcode %d has no name in opNames", op)
		}
	}
}

func TestOpStringOutOfRange(t *testing.T) {
	if got := Op(255).String(); got != "?" {
		t.Fatalf("got %q, want ?", got)
	}
}

func TestPrototypeSpanForClampsOutOfRange(t *testing.T) {
	p := &Prototype{}
	// An empty prototype has no per-instruction spans; SpanFor must not
	// panic on an out-of-range pc, falling back to the prototype's own span.
	_ = p.SpanFor(0)
	_ = p.SpanFor(-1)
}

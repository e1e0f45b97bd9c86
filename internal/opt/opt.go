// Package opt implements Axiom's bytecode optimizer pipeline (§4.F,
// §4.E.1): constant folding, peephole cleanup, dead-code elimination,
// jump threading, and quickening, each an independently toggleable pass
// over a compiled Prototype — the same OptimizationPass/pipeline shape
// the kanso-lang-kanso gas-optimizer pipeline uses
// (internal/ir/optimizations.go), generalized from single-pass EVM
// rewrites to a fixed-point register-bytecode pipeline.
//
// Every pass here must be semantics-preserving on its own: §8.7 requires
// that toggling `peephole_optimizer` off never change a program's
// observable result, so passes are conservative by construction rather
// than by testing — e.g. quickening only ever rewrites an opcode to a
// fast-path sibling the VM falls back from on a type mismatch
// (deopt_on_type_change), never one that would behave differently.
package opt

import "github.com/axiom-lang/axiom/internal/bytecode"

// OptimizationPass is one named, independently toggleable rewrite over a
// Prototype's instruction stream.
type OptimizationPass interface {
	Name() string
	Description() string
	Apply(proto *bytecode.Prototype) bool
}

// Pipeline runs a sequence of passes over a Prototype and its nested
// prototypes, repeating the whole sequence until a fixed point (no pass
// reports a change) or a safety bound on iterations is reached.
type Pipeline struct {
	passes []OptimizationPass
}

// Default returns the pipeline cmd/axiom runs when `peephole_optimizer`
// is enabled: constant folding and quickening first (they create dead
// registers and foldable chains for the later passes), then peephole
// move elimination, jump threading, and dead-code elimination.
func Default() *Pipeline {
	p := &Pipeline{}
	p.Add(&ConstantFolding{})
	p.Add(&Quickening{})
	p.Add(&PeepholeMove{})
	p.Add(&JumpThreading{})
	p.Add(&DeadCodeElimination{})
	return p
}

func (p *Pipeline) Add(pass OptimizationPass) { p.passes = append(p.passes, pass) }

// maxRounds bounds the fixed-point loop; real programs converge in 2-3
// rounds, this is only a backstop against a pass pair that oscillates.
const maxRounds = 8

// Run applies every pass to proto and every prototype nested under it
// (recursively, since MakeClosure sites reference Nested by index and
// must keep pointing at the same, now-optimized, prototypes).
func (p *Pipeline) Run(proto *bytecode.Prototype) {
	for round := 0; round < maxRounds; round++ {
		changed := false
		for _, pass := range p.passes {
			if pass.Apply(proto) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	for _, nested := range proto.Nested {
		p.Run(nested)
	}
}

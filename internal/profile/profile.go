// Package profile implements Axiom's opcode-level profiler: per-opcode
// execution counters and a call-stack sampler exported in the
// pprof-compatible folded-stack format ("name;name;name count" per line),
// gated by the `profiler_enabled` configuration property. It shares the
// VM's zap logger (at Debug level, distinct from the opcode tracer's Info
// level) so profiler diagnostics interleave with the rest of a debug run
// without a separate logging path.
package profile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/axiom-lang/axiom/internal/bytecode"
)

// Sample is one frame-stack snapshot: the chain of prototype names from
// the root call down to the currently executing frame, oldest first.
type Sample []string

// Profiler accumulates opcode counts and call-stack samples for a single
// VM run. It is not safe for concurrent use by more than one VM.
type Profiler struct {
	Logger *zap.Logger

	opCounts map[bytecode.Op]int64
	stacks   map[string]int64 // folded "a;b;c" -> count
}

func New(logger *zap.Logger) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{
		Logger:   logger,
		opCounts: map[bytecode.Op]int64{},
		stacks:   map[string]int64{},
	}
}

// CountOp records one execution of op, called from the VM's hot loop
// once per instruction when profiling is enabled.
func (p *Profiler) CountOp(op bytecode.Op) {
	p.opCounts[op]++
}

// Sample records one call-stack snapshot, called at a GC safepoint tick
// (the VM checks in between instructions, never mid-instruction, so a
// sample always reflects a consistent frame chain).
func (p *Profiler) Sample(stack Sample) {
	if len(stack) == 0 {
		return
	}
	p.stacks[strings.Join(stack, ";")]++
	p.Logger.Debug("sample", zap.Strings("stack", stack))
}

// HotOps returns opcodes sorted by descending execution count, the
// profiler's "opcode counters" view.
func (p *Profiler) HotOps() []OpCount {
	out := make([]OpCount, 0, len(p.opCounts))
	for op, n := range p.opCounts {
		out = append(out, OpCount{Op: op, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Op < out[j].Op
	})
	return out
}

type OpCount struct {
	Op    bytecode.Op
	Count int64
}

// WriteFlameGraph writes every accumulated stack sample in folded-stack
// format ("proto;proto;proto count", one line per distinct stack),
// sorted for deterministic output, consumable by any standard flame
// graph tool (pprof, FlameGraph.pl).
func (p *Profiler) WriteFlameGraph(w io.Writer) error {
	keys := make([]string, 0, len(p.stacks))
	for k := range p.stacks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s %d\n", k, p.stacks[k]); err != nil {
			return err
		}
	}
	return nil
}

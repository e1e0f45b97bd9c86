package vm

import (
	"github.com/axiom-lang/axiom/internal/bytecode"
	"github.com/axiom-lang/axiom/internal/value"
)

// polyICSize bounds how many distinct shapes a single GetFieldIC/SetFieldIC
// site tracks before degrading to megamorphic (§4.F, default 4). It is a
// fixed constant, like the teacher's own fixed dispatch tables;
// internal/config has no property for it.
const polyICSize = 4

type fieldICEntry struct {
	shape *value.Shape
	slot  int
}

// fieldIC is one property-access call site's cache: a small polymorphic
// table of (shape, slot) pairs, or megamorphic once it overflows, at which
// point every lookup falls through to Shape.Lookup's map (§4.F "fall back
// to a generic dictionary lookup").
type fieldIC struct {
	entries     []fieldICEntry
	megamorphic bool
}

func (ic *fieldIC) lookup(shape *value.Shape, name string) (int, bool) {
	if !ic.megamorphic {
		for _, e := range ic.entries {
			if e.shape == shape {
				return e.slot, true
			}
		}
	}
	slot, ok := shape.Lookup(name)
	if !ok {
		return 0, false
	}
	if !ic.megamorphic {
		if len(ic.entries) >= polyICSize {
			ic.megamorphic = true
		} else {
			ic.entries = append(ic.entries, fieldICEntry{shape: shape, slot: slot})
		}
	}
	return slot, true
}

// protoCache holds every call site's inline cache for one prototype, keyed
// by instruction index. Prototype itself stays the immutable compiled
// artifact the compiler produced; caches live here, one table per
// prototype, to avoid an internal/bytecode → internal/value import cycle
// (Shape is a value.go type).
type protoCache struct {
	get map[int]*fieldIC
	set map[int]*fieldIC
}

func (vm *VM) fieldCache(proto *bytecode.Prototype, pc int, forSet bool) *fieldIC {
	pc2, ok := vm.caches[proto]
	if !ok {
		pc2 = &protoCache{get: map[int]*fieldIC{}, set: map[int]*fieldIC{}}
		vm.caches[proto] = pc2
	}
	table := pc2.get
	if forSet {
		table = pc2.set
	}
	ic, ok := table[pc]
	if !ok {
		ic = &fieldIC{}
		table[pc] = ic
	}
	return ic
}

package value

import (
	"sync"

	"github.com/dolthub/swiss"
)

// InternedString is the heap identity of an interned string: equal byte
// contents always resolve to the same *InternedString, so KindStr equality
// and map/set membership are pointer comparisons (§4.A).
type InternedString struct {
	Bytes string
}

// Interner owns the canonical table of interned strings. The swiss-table
// backing (grounded on the same library the globals and config stores use,
// DESIGN.md) keeps lookup close to O(1) with low overhead per entry, which
// matters here because every identifier, field name, and string literal
// passes through it at least once during compilation.
type Interner struct {
	mu    sync.Mutex
	table *swiss.Map[string, *InternedString]
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{table: swiss.NewMap[string, *InternedString](64)}
}

// Intern returns the canonical *InternedString for s, creating it on first
// use.
func (in *Interner) Intern(s string) *InternedString {
	in.mu.Lock()
	defer in.mu.Unlock()
	if existing, ok := in.table.Get(s); ok {
		return existing
	}
	is := &InternedString{Bytes: s}
	in.table.Put(s, is)
	return is
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.table.Count()
}

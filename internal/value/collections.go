package value

// List is Axiom's growable, reference-shared array (§3.1): assigning a
// list to a new binding shares the backing store, matching "heap-allocated
// shared Lists".
type List struct {
	Items []Value
}

// NewList wraps a slice of items as a List.
func NewList(items []Value) *List { return &List{Items: items} }

func (l *List) Len() int { return len(l.Items) }

func (l *List) Get(i int) (Value, bool) {
	if i < 0 || i >= len(l.Items) {
		return Nil, false
	}
	return l.Items[i], true
}

func (l *List) Set(i int, v Value) bool {
	if i < 0 || i >= len(l.Items) {
		return false
	}
	l.Items[i] = v
	return true
}

func (l *List) Push(v Value) { l.Items = append(l.Items, v) }

// Map is Axiom's insertion-ordered associative table, keyed by interned
// string. Ordering is preserved across Set/Delete so iteration and display
// are deterministic.
type Map struct {
	keys []*InternedString
	vals map[*InternedString]Value
}

func NewMap() *Map { return &Map{vals: make(map[*InternedString]Value)} }

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Get(k *InternedString) (Value, bool) {
	v, ok := m.vals[k]
	return v, ok
}

func (m *Map) Set(k *InternedString, v Value) {
	if _, exists := m.vals[k]; !exists {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

func (m *Map) Delete(k *InternedString) bool {
	if _, exists := m.vals[k]; !exists {
		return false
	}
	delete(m.vals, k)
	for i, kk := range m.keys {
		if kk == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *Map) Keys() []*InternedString { return m.keys }

// Set is Axiom's insertion-ordered, deduplicated string set.
type Set struct {
	items []*InternedString
	idx   map[*InternedString]struct{}
}

func NewSet() *Set { return &Set{idx: make(map[*InternedString]struct{})} }

func (s *Set) Len() int { return len(s.items) }

func (s *Set) Has(m *InternedString) bool {
	_, ok := s.idx[m]
	return ok
}

func (s *Set) Add(m *InternedString) bool {
	if s.Has(m) {
		return false
	}
	s.idx[m] = struct{}{}
	s.items = append(s.items, m)
	return true
}

func (s *Set) Remove(m *InternedString) bool {
	if !s.Has(m) {
		return false
	}
	delete(s.idx, m)
	for i, it := range s.items {
		if it == m {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) Items() []*InternedString { return s.items }

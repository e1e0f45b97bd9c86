package value

// Shape is a hidden class (§4.G): the layout that maps a field name to a
// slot index in an Instance's Slots array. Adding a field transitions an
// instance from one Shape to another; the transition table is a tree keyed
// by field name and is SHARED across every instance that adds that field
// in that order — two instances that start from the same shape and add
// "x" then "y" land on the identical child Shape, not two equivalent-but-
// distinct ones. This answers the open question in §9 ("are transitions
// shared across instances, or rebuilt per object") in favor of sharing,
// since sharing is what makes the property-access inline cache in §4.G
// useful: an IC keyed on a shape pointer only pays off if instances
// constructed the same way actually converge on one Shape.
type Shape struct {
	Parent   *Shape
	Field    string // the field this shape added over Parent; "" for root
	Slot     int    // slot index of Field, valid when Field != ""
	Fields   map[string]int // field name -> slot index, includes all ancestors
	children map[string]*Shape
}

// RootShape returns the empty shape every class's instances start from.
func RootShape() *Shape {
	return &Shape{Fields: map[string]int{}, children: map[string]*Shape{}}
}

// Transition returns the Shape that results from adding field to s,
// creating and caching it in the shared transition table if this is the
// first instance to make this exact transition.
func (s *Shape) Transition(field string) *Shape {
	if existing, ok := s.children[field]; ok {
		return existing
	}
	fields := make(map[string]int, len(s.Fields)+1)
	for k, v := range s.Fields {
		fields[k] = v
	}
	slot := len(s.Fields)
	fields[field] = slot
	child := &Shape{
		Parent:   s,
		Field:    field,
		Slot:     slot,
		Fields:   fields,
		children: map[string]*Shape{},
	}
	s.children[field] = child
	return child
}

// Lookup returns the slot index for field and whether it exists in s.
func (s *Shape) Lookup(field string) (int, bool) {
	slot, ok := s.Fields[field]
	return slot, ok
}

package value

// Class is a compiled `class` declaration (§4.C, §9's "dynamic dispatch
// without virtual inheritance"): Methods is a single flattened table built
// once at class-construction time by copying the parent's table and
// overlaying this class's own methods, so a method call is always one map
// lookup on the receiver's own class — there is no vtable walk at call
// time and no runtime re-resolution against Parent.
type Class struct {
	Name      string
	Parent    *Class
	Fields    []string // declared field names, in declaration order
	Methods   map[string]*Closure
	RootShape *Shape
}

// NewClass builds a Class, flattening parent.Methods into the new class's
// table before own []methods are added via AddMethod.
func NewClass(name string, parent *Class, fields []string) *Class {
	methods := map[string]*Closure{}
	if parent != nil {
		for k, v := range parent.Methods {
			methods[k] = v
		}
	}
	root := RootShape()
	if parent != nil {
		root = parent.RootShape
	}
	return &Class{Name: name, Parent: parent, Fields: fields, Methods: methods, RootShape: root}
}

// AddMethod overlays method name over whatever the parent class defined,
// matching simple override semantics.
func (c *Class) AddMethod(name string, fn *Closure) { c.Methods[name] = fn }

func (c *Class) Lookup(name string) (*Closure, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// Instance is a live object: a class pointer, the shape describing its
// current field layout, and the slot storage itself.
type Instance struct {
	Class *Class
	Shape *Shape
	Slots []Value
}

// NewInstance creates a bare instance at its class's root shape with no
// fields populated; fields appear (and the shape transitions) as `new`
// initialization or later assignment sets them, per §4.C.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Shape: class.RootShape, Slots: nil}
}

// GetField reads a field by name, returning (Nil, false) if unset.
func (i *Instance) GetField(name string) (Value, bool) {
	slot, ok := i.Shape.Lookup(name)
	if !ok {
		return Nil, false
	}
	return i.Slots[slot], true
}

// SetField writes a field, transitioning the instance's shape the first
// time this field name is set on it.
func (i *Instance) SetField(name string, v Value) {
	slot, ok := i.Shape.Lookup(name)
	if !ok {
		i.Shape = i.Shape.Transition(name)
		slot, _ = i.Shape.Lookup(name)
		for len(i.Slots) <= slot {
			i.Slots = append(i.Slots, Nil)
		}
	}
	i.Slots[slot] = v
}

// EnumVariant is a constructed value of an `enum` declaration (§4.C): a
// tag plus zero or more payload values.
type EnumVariant struct {
	EnumName string
	Tag      string
	Payload  []Value
}

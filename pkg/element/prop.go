package element

// Typed is a property descriptor with typed accessors. It replaces
// hand-written getter/setter pairs:
//
//	var enabled = element.BoolProp("enabled", false)
//
//	enabled.Get(el)         // bool
//	enabled.Set(el, true)   // routes through the update path
type Typed[T any] struct {
	Prop
}

// BoolProp declares a bool property.
func BoolProp(name string, def bool) Typed[bool] {
	return Typed[bool]{Prop{Name: name, Type: Bool, Default: def}}
}

// NumberProp declares a number property.
func NumberProp(name string, def float64) Typed[float64] {
	return Typed[float64]{Prop{Name: name, Type: Number, Default: def}}
}

// StringProp declares a string property.
func StringProp(name string, def string) Typed[string] {
	return Typed[string]{Prop{Name: name, Type: String, Default: def}}
}

// OpaqueProp declares a property whose values are passed through as is.
func OpaqueProp(name string, def any) Typed[any] {
	return Typed[any]{Prop{Name: name, Type: Opaque, Default: def}}
}

// Get returns the element's current value, or T's zero value before the
// element is initialised.
func (p Typed[T]) Get(e *Element) T {
	v, _ := e.Get(p.Name)
	t, _ := v.(T)
	return t
}

// From reads the property out of a snapshot's values.
func (p Typed[T]) From(v Values) T {
	val, _ := v.Get(p.Name)
	t, _ := val.(T)
	return t
}

// Set updates the property. v is coerced to the declared type, so a
// number property accepts "5".
func (p Typed[T]) Set(e *Element, v any) error {
	return e.Set(p.Name, v)
}

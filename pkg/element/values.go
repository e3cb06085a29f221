package element

import "math"

// Values is an ordered property map. Order is the declaration order of the
// property table.
type Values struct {
	names []string
	m     map[string]any
}

func newValues(capacity int) Values {
	return Values{
		names: make([]string, 0, capacity),
		m:     make(map[string]any, capacity),
	}
}

func (v *Values) set(name string, value any) {
	if _, ok := v.m[name]; !ok {
		v.names = append(v.names, name)
	}
	v.m[name] = value
}

// Get returns the value stored for name.
func (v Values) Get(name string) (any, bool) {
	val, ok := v.m[name]
	return val, ok
}

// Bool returns name as a bool, or false.
func (v Values) Bool(name string) bool {
	b, _ := v.m[name].(bool)
	return b
}

// Number returns name as a float64, or NaN when it is not a number.
func (v Values) Number(name string) float64 {
	f, ok := v.m[name].(float64)
	if !ok {
		return math.NaN()
	}
	return f
}

// String returns name as a string, or "".
func (v Values) String(name string) string {
	s, _ := v.m[name].(string)
	return s
}

// Names returns the property names in declaration order.
func (v Values) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Len returns the number of properties.
func (v Values) Len() int {
	return len(v.names)
}

// Map returns a copy of the values as a plain map.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v.m))
	for k, val := range v.m {
		out[k] = val
	}
	return out
}

// Clone returns an independent copy.
func (v Values) Clone() Values {
	c := newValues(len(v.names))
	for _, name := range v.names {
		c.set(name, v.m[name])
	}
	return c
}

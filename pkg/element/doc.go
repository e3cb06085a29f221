// Package element implements reactive custom elements: host elements whose
// declared properties are mirrored to attributes in both directions and
// whose content is re-rendered whenever a property changes.
//
// A component type declares its properties once, in a static table, and
// implements Render. Registering it under a tag makes every element with
// that tag in a dom.Document reactive:
//
//	var count = element.NumberProp("count", 0)
//
//	type Counter struct{}
//
//	func (Counter) Render(s element.Snapshot) *vdom.VNode {
//	    return vdom.Span(vdom.Textf("%v", count.From(s.Props)))
//	}
//
//	element.Define("x-counter", element.Definition{
//	    Props: []element.Prop{count.Prop},
//	    New:   func() element.Component { return Counter{} },
//	})
//
// On first connection the element records its initial children, loads the
// property defaults, overrides them from any attributes already present and
// writes the remaining values out as attributes. Every later change, from
// Set or from an attribute write, is coerced to the property's declared
// type; a change that leaves the value equal does nothing at all.
//
// Boolean properties are reflected by attribute presence. Other properties
// are reflected as their string form and parsed back by coercion, so a
// number property given "abc" holds NaN rather than failing.
package element

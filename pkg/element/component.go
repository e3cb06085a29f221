package element

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/reactive/pkg/vdom"
)

// Component is implemented by every reactive component type.
type Component interface {
	// Render returns the element's content for the given state. It must
	// not mutate properties.
	Render(s Snapshot) *vdom.VNode
}

// Connector is implemented by components that want to know when their
// element is connected.
type Connector interface {
	Connected(s Snapshot)
}

// Disconnector is implemented by components that want to know when their
// element is disconnected.
type Disconnector interface {
	Disconnected(s Snapshot)
}

// Snapshot is the state handed to hooks and Render.
type Snapshot struct {
	// Tag is the element's tag name.
	Tag string

	// State is the component value itself.
	State Component

	// Props is a copy of the current property values.
	Props Values

	// Children are the element's original child nodes, captured on first
	// connection. Place them with vdom.Host or by passing them to an
	// element constructor.
	Children []*html.Node

	// Element is the element being rendered.
	Element *Element
}

// Definition describes a component type for the registry.
type Definition struct {
	// Props is the property table, in declaration order.
	Props []Prop

	// New constructs the component for one element.
	New func() Component
}

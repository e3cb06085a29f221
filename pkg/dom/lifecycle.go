package dom

import "golang.org/x/net/html"

// Attr is the state of one attribute at a point in time.
// The zero value means the attribute is absent.
type Attr struct {
	Value   string
	Present bool
}

// Present returns an Attr for a set attribute.
func Present(value string) Attr {
	return Attr{Value: value, Present: true}
}

// CustomElement receives lifecycle callbacks from a Document.
type CustomElement interface {
	// ConnectedCallback runs each time the element becomes reachable from
	// the document root.
	ConnectedCallback()

	// DisconnectedCallback runs each time the element is removed from the
	// document.
	DisconnectedCallback()

	// AttributeChangedCallback runs after an observed attribute is set or
	// removed, including writes that leave the value unchanged.
	AttributeChangedCallback(name string, oldValue, newValue Attr)
}

// Upgrader turns plain element nodes into custom elements.
type Upgrader interface {
	// Upgrade constructs the custom element for n. It reports false when
	// n's tag is not defined.
	Upgrade(doc *Document, n *html.Node) (CustomElement, bool)

	// ObservedAttributes lists the attribute names whose changes are
	// delivered to elements with the given tag.
	ObservedAttributes(tag string) []string
}

type upgraded struct {
	element   CustomElement
	observed  map[string]bool
	connected bool
}

package element

import (
	"log/slog"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/render"
)

// Element is one mounted reactive custom element. It is created by a
// Registry when a Document upgrades a node and implements
// dom.CustomElement.
type Element struct {
	doc  *dom.Document
	node *html.Node
	tag  string
	def  *definition
	comp Component
	reg  *Registry
	root *render.Root

	// initialChildren is captured once, on first connection.
	initialChildren []*html.Node
	initialized     bool
	connected       bool
	props           Values

	// reflecting names the attribute the update path is writing, so the
	// resulting attribute callback is not fed back into the update path.
	reflecting string

	logger *slog.Logger
}

func newElement(reg *Registry, doc *dom.Document, n *html.Node, def *definition, comp Component) *Element {
	return &Element{
		doc:    doc,
		node:   n,
		tag:    n.Data,
		def:    def,
		comp:   comp,
		reg:    reg,
		root:   render.NewRoot(doc, n, render.WithLogger(reg.logger), render.WithPolicy(reg.policy)),
		props:  newValues(len(def.props)),
		logger: reg.logger.With("tag", n.Data),
	}
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the element's id attribute, or "".
func (e *Element) ID() string {
	id, _ := e.doc.GetAttribute(e.node, "id")
	return id
}

// Node returns the host node.
func (e *Element) Node() *html.Node { return e.node }

// Document returns the host document.
func (e *Element) Document() *dom.Document { return e.doc }

// Component returns the component instance.
func (e *Element) Component() Component { return e.comp }

// Root returns the render root that owns the element's content.
func (e *Element) Root() *render.Root { return e.root }

// Initialized reports whether property initialisation has run.
func (e *Element) Initialized() bool { return e.initialized }

// IsConnected reports whether the element is currently connected.
func (e *Element) IsConnected() bool { return e.connected }

// InitialChildren returns the child nodes captured on first connection.
func (e *Element) InitialChildren() []*html.Node {
	out := make([]*html.Node, len(e.initialChildren))
	copy(out, e.initialChildren)
	return out
}

// Props returns the property table.
func (e *Element) Props() []Prop {
	out := make([]Prop, len(e.def.props))
	copy(out, e.def.props)
	return out
}

// Prop returns the descriptor for name.
func (e *Element) Prop(name string) (Prop, bool) {
	return e.def.lookup(name)
}

// Values returns a copy of the current property values. It is empty before
// the first connection.
func (e *Element) Values() Values {
	return e.props.Clone()
}

// Get returns the current value of a property.
func (e *Element) Get(name string) (any, bool) {
	return e.props.Get(name)
}

// Set is the property update path. The value is coerced to the declared
// type; when it equals the stored value nothing happens. Otherwise the
// value is stored, reflected to the attribute and the element re-renders.
//
// Before the first connection only the attribute is written; property
// initialisation then picks it up.
func (e *Element) Set(name string, value any) error {
	p, ok := e.def.lookup(name)
	if !ok {
		return errors.New("E201").
			WithDetailf("%q is not declared by <%s>", name, e.tag).
			WithSuggestion("Add the property to the component's Props table")
	}
	if !e.initialized {
		e.reflect(p, Cast(p.Type, value))
		return nil
	}
	e.update(p, value)
	return nil
}

// Snapshot returns the state handed to hooks and Render.
func (e *Element) Snapshot() Snapshot {
	return Snapshot{
		Tag:      e.tag,
		State:    e.comp,
		Props:    e.props.Clone(),
		Children: e.InitialChildren(),
		Element:  e,
	}
}

// Render re-renders the element. Property changes render automatically;
// call it when component state outside the property table changed.
func (e *Element) Render() {
	e.render()
}

// ConnectedCallback implements dom.CustomElement. Initialisation runs only
// on the first connection; later connections keep the current values.
func (e *Element) ConnectedCallback() {
	done := e.reg.observer().Lifecycle(e, EventConnected)
	defer done()

	if !e.initialized {
		e.initialChildren = e.doc.ChildNodes(e.node)
		e.initializeProps()
		e.initialized = true
		e.logger.Debug("element initialized", "props", e.props.Len(), "children", len(e.initialChildren))
	}
	e.connected = true

	if c, ok := e.comp.(Connector); ok {
		c.Connected(e.Snapshot())
	}
	e.render()
}

// DisconnectedCallback implements dom.CustomElement.
func (e *Element) DisconnectedCallback() {
	done := e.reg.observer().Lifecycle(e, EventDisconnected)
	defer done()

	e.connected = false
	if d, ok := e.comp.(Disconnector); ok {
		d.Disconnected(e.Snapshot())
	}
}

// AttributeChangedCallback implements dom.CustomElement.
func (e *Element) AttributeChangedCallback(name string, oldValue, newValue dom.Attr) {
	if !e.initialized || oldValue == newValue || name == e.reflecting {
		return
	}
	p, ok := e.def.lookup(AttrToProp(name))
	if !ok {
		return
	}
	value := CastAttr(p.Type, newValue)
	if current, _ := e.props.Get(p.Name); Equal(current, value) {
		return
	}

	done := e.reg.observer().Lifecycle(e, EventAttributeChanged)
	defer done()
	e.update(p, value)
}

func (e *Element) initializeProps() {
	for _, p := range e.def.props {
		e.props.set(p.Name, p.Default)
	}

	if e.doc.HasAttributes(e.node) {
		for _, a := range e.doc.Attributes(e.node) {
			p, ok := e.def.lookup(AttrToProp(a.Key))
			if !ok {
				continue
			}
			e.props.set(p.Name, CastAttr(p.Type, dom.Present(a.Val)))
		}
	}

	for _, p := range e.def.props {
		if e.doc.HasAttribute(e.node, p.Attr()) {
			continue
		}
		v, _ := e.props.Get(p.Name)
		e.reflect(p, v)
	}
}

func (e *Element) update(p Prop, value any) {
	v := Cast(p.Type, value)
	old, _ := e.props.Get(p.Name)
	if Equal(old, v) {
		return
	}
	e.props.set(p.Name, v)
	e.reg.observer().PropertyChanged(e, p.Name, old, v)
	e.reflect(p, v)
	e.render()
}

func (e *Element) reflect(p Prop, v any) {
	attr := p.Attr()
	prev := e.reflecting
	e.reflecting = attr
	defer func() { e.reflecting = prev }()

	if s, ok := Serialize(p.Type, v); ok {
		e.doc.SetAttribute(e.node, attr, s)
	} else {
		e.doc.RemoveAttribute(e.node, attr)
	}
}

func (e *Element) render() {
	if !e.initialized {
		return
	}
	start := time.Now()
	patches := e.root.Render(e.comp.Render(e.Snapshot()))
	e.reg.observer().Rendered(e, patches, time.Since(start))
}

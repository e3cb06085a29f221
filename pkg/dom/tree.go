package dom

import "golang.org/x/net/html"

// AppendChild appends child to parent. A child that already has a parent is
// removed from it first.
func (d *Document) AppendChild(parent, child *html.Node) {
	d.InsertBefore(parent, child, nil)
}

// InsertBefore inserts child into parent before ref, or at the end when ref
// is nil. Custom elements in child's subtree are connected when parent is
// connected.
func (d *Document) InsertBefore(parent, child, ref *html.Node) {
	if child.Parent != nil {
		d.RemoveChild(child.Parent, child)
	}
	parent.InsertBefore(child, ref)
	if d.IsConnected(parent) {
		d.connect(child)
	}
}

// RemoveChild detaches child from parent and disconnects the custom
// elements in its subtree.
func (d *Document) RemoveChild(parent, child *html.Node) {
	if child.Parent != parent {
		return
	}
	connected := d.IsConnected(parent)
	parent.RemoveChild(child)
	if connected {
		d.disconnect(child)
	}
}

// ReplaceChildren removes all of parent's children and appends nodes.
func (d *Document) ReplaceChildren(parent *html.Node, nodes ...*html.Node) {
	for parent.FirstChild != nil {
		d.RemoveChild(parent, parent.FirstChild)
	}
	for _, n := range nodes {
		d.AppendChild(parent, n)
	}
}

// Upgrade upgrades and connects every defined custom element already in
// the document, in tree order. Elements that are already connected are
// left alone, so Upgrade may be called again after new definitions.
func (d *Document) Upgrade() {
	d.connect(d.root)
}

// connect runs connected callbacks in tree order. Children are read after
// the parent's callback returns because the callback may re-render them.
func (d *Document) connect(n *html.Node) {
	if n.Type == html.ElementNode {
		if u := d.upgrade(n); u != nil && !u.connected {
			u.connected = true
			d.logger.Debug("custom element connected", "tag", n.Data)
			u.element.ConnectedCallback()
		}
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Parent == n {
			d.connect(c)
		}
		c = next
	}
}

func (d *Document) disconnect(n *html.Node) {
	if u, ok := d.elements[n]; ok && u.connected {
		u.connected = false
		d.logger.Debug("custom element disconnected", "tag", n.Data)
		u.element.DisconnectedCallback()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.disconnect(c)
	}
}

func (d *Document) upgrade(n *html.Node) *upgraded {
	if u, ok := d.elements[n]; ok {
		return u
	}
	if d.upgrader == nil {
		return nil
	}
	el, ok := d.upgrader.Upgrade(d, n)
	if !ok {
		return nil
	}
	u := &upgraded{
		element:  el,
		observed: make(map[string]bool),
	}
	for _, name := range d.upgrader.ObservedAttributes(n.Data) {
		u.observed[name] = true
	}
	d.elements[n] = u
	d.logger.Debug("custom element upgraded", "tag", n.Data, "observed", len(u.observed))
	return u
}

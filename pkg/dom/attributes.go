package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// GetAttribute returns the value of the named attribute.
func (d *Document) GetAttribute(n *html.Node, name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func (d *Document) HasAttribute(n *html.Node, name string) bool {
	_, ok := d.GetAttribute(n, name)
	return ok
}

// HasAttributes reports whether n carries any attribute.
func (d *Document) HasAttributes(n *html.Node) bool {
	return len(n.Attr) > 0
}

// Attributes returns a copy of n's attributes in source order.
func (d *Document) Attributes(n *html.Node) []html.Attribute {
	out := make([]html.Attribute, len(n.Attr))
	copy(out, n.Attr)
	return out
}

// SetAttribute sets an attribute and notifies the upgraded element when the
// attribute is observed. Names are lower-cased as in HTML documents.
func (d *Document) SetAttribute(n *html.Node, name, value string) {
	name = strings.ToLower(name)
	var old Attr
	found := false
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == name {
			old = Present(n.Attr[i].Val)
			n.Attr[i].Val = value
			found = true
			break
		}
	}
	if !found {
		n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
	}
	d.attributeChanged(n, name, old, Present(value))
}

// RemoveAttribute removes an attribute. Removing an absent attribute is a
// no-op and triggers no callback.
func (d *Document) RemoveAttribute(n *html.Node, name string) {
	name = strings.ToLower(name)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.attributeChanged(n, name, Present(a.Val), Attr{})
			return
		}
	}
}

// ToggleAttribute adds an empty attribute when on is true and removes it
// otherwise.
func (d *Document) ToggleAttribute(n *html.Node, name string, on bool) {
	if on {
		d.SetAttribute(n, name, "")
		return
	}
	d.RemoveAttribute(n, name)
}

func (d *Document) attributeChanged(n *html.Node, name string, old, value Attr) {
	u, ok := d.elements[n]
	if !ok || !u.observed[name] {
		return
	}
	u.element.AttributeChangedCallback(name, old, value)
}

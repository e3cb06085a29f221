package render

import (
	"log/slog"
	"sort"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/reactive/pkg/vdom"
)

// Host is the subset of the host document a Root mutates through.
// *dom.Document implements it.
type Host interface {
	InsertBefore(parent, child, ref *html.Node)
	RemoveChild(parent, child *html.Node)
	SetAttribute(n *html.Node, name, value string)
	RemoveAttribute(n *html.Node, name string)
}

// Root renders vdom trees into the children of one host node.
type Root struct {
	host   Host
	node   *html.Node
	tree   *vdom.VNode
	hids   *vdom.HIDGenerator
	nodes  map[string]*html.Node
	policy *bluemonday.Policy
	logger *slog.Logger
}

// Option configures a Root.
type Option func(*Root)

// WithPolicy sets the sanitiser used for raw HTML.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(r *Root) {
		if p != nil {
			r.policy = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Root) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRoot creates a Root for node.
func NewRoot(host Host, node *html.Node, opts ...Option) *Root {
	r := &Root{
		host:   host,
		node:   node,
		hids:   vdom.NewHIDGenerator(),
		nodes:  make(map[string]*html.Node),
		policy: bluemonday.UGCPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Node returns the host node rendered for hid.
func (r *Root) Node(hid string) (*html.Node, bool) {
	n, ok := r.nodes[hid]
	return n, ok
}

// HID returns the ID of the root host node itself.
func (r *Root) HID() string {
	if r.tree == nil {
		return ""
	}
	return r.tree.HID
}

// Tree returns the last rendered tree, wrapped in a node for the root.
func (r *Root) Tree() *vdom.VNode {
	return r.tree
}

// Render makes the root's children match v and returns the patches that
// were applied. The first render discards the children the host node had.
func (r *Root) Render(v *vdom.VNode) []vdom.Patch {
	next := &vdom.VNode{
		Kind:     vdom.KindElement,
		Tag:      r.node.Data,
		Children: vdom.Normalize(v),
	}

	prev := r.tree
	if prev == nil {
		for r.node.FirstChild != nil {
			r.host.RemoveChild(r.node, r.node.FirstChild)
		}
		prev = &vdom.VNode{Kind: vdom.KindElement, Tag: r.node.Data, HID: r.hids.Next()}
		r.nodes[prev.HID] = r.node
	}

	patches := vdom.Diff(prev, next)
	for _, p := range patches {
		r.apply(p)
	}
	r.tree = next
	return patches
}

func (r *Root) apply(p vdom.Patch) {
	switch p.Op {
	case vdom.PatchSetText:
		if n, ok := r.nodes[p.HID]; ok {
			n.Data = p.Value
		}

	case vdom.PatchSetAttr:
		if n, ok := r.nodes[p.HID]; ok {
			r.host.SetAttribute(n, p.Key, p.Value)
		}

	case vdom.PatchRemoveAttr:
		if n, ok := r.nodes[p.HID]; ok {
			r.host.RemoveAttribute(n, p.Key)
		}

	case vdom.PatchInsertNode:
		parent, ok := r.nodes[p.ParentID]
		if !ok {
			r.logger.Warn("render: insert into unknown parent", "parent", p.ParentID)
			return
		}
		child := r.materialize(p.Node)
		r.host.InsertBefore(parent, child, childAt(parent, p.Index))

	case vdom.PatchRemoveNode:
		n, ok := r.nodes[p.HID]
		if !ok {
			return
		}
		r.forget(n)
		if n.Parent != nil {
			r.host.RemoveChild(n.Parent, n)
		}

	case vdom.PatchMoveNode:
		n, ok := r.nodes[p.HID]
		parent, pok := r.nodes[p.ParentID]
		if !ok || !pok {
			return
		}
		if n.Parent != nil {
			r.host.RemoveChild(n.Parent, n)
		}
		r.host.InsertBefore(parent, n, childAt(parent, p.Index))

	case vdom.PatchReplaceNode:
		old, ok := r.nodes[p.HID]
		if !ok || old.Parent == nil {
			return
		}
		parent := old.Parent
		r.forget(old)
		child := r.materialize(p.Node)
		r.host.InsertBefore(parent, child, old)
		if old.Parent == parent {
			r.host.RemoveChild(parent, old)
		}
	}
}

// materialize builds a detached host subtree for v and registers its HIDs.
func (r *Root) materialize(v *vdom.VNode) *html.Node {
	var n *html.Node
	switch v.Kind {
	case vdom.KindText:
		n = &html.Node{Type: html.TextNode, Data: v.Text}

	case vdom.KindRaw:
		n = &html.Node{Type: html.RawNode, Data: r.policy.Sanitize(v.Text)}

	case vdom.KindHost:
		n = v.Ref
		if n.Parent != nil {
			r.host.RemoveChild(n.Parent, n)
		}

	default:
		n = &html.Node{
			Type:     html.ElementNode,
			Data:     v.Tag,
			DataAtom: atom.Lookup([]byte(v.Tag)),
		}
		keys := make([]string, 0, len(v.Props))
		for k := range v.Props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if val, ok := vdom.AttrValue(v.Props[k]); ok {
				n.Attr = append(n.Attr, html.Attribute{Key: k, Val: val})
			}
		}
		for _, c := range v.Children {
			n.AppendChild(r.materialize(c))
		}
	}

	v.HID = r.hids.Next()
	r.nodes[v.HID] = n
	return n
}

// forget drops the HIDs of n's subtree.
func (r *Root) forget(n *html.Node) {
	gone := make(map[*html.Node]bool)
	var mark func(*html.Node)
	mark = func(x *html.Node) {
		gone[x] = true
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			mark(c)
		}
	}
	mark(n)
	for hid, x := range r.nodes {
		if gone[x] {
			delete(r.nodes, hid)
		}
	}
}

func childAt(parent *html.Node, i int) *html.Node {
	c := parent.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

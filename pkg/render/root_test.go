package render

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/vdom"
)

func newRoot(t *testing.T, opts ...Option) (*dom.Document, *html.Node, *Root) {
	t.Helper()
	doc, err := dom.ParseString(`<body><div id="app"><p>old</p></div></body>`)
	if err != nil {
		t.Fatal(err)
	}
	node := doc.GetElementByID("app")
	return doc, node, NewRoot(doc, node, opts...)
}

func TestFirstRenderReplacesChildren(t *testing.T) {
	_, node, root := newRoot(t)

	patches := root.Render(vdom.Span(vdom.Class("x"), "hello"))

	if got := dom.InnerHTML(node); got != `<span class="x">hello</span>` {
		t.Errorf("InnerHTML = %q", got)
	}
	if len(patches) != 1 || patches[0].Op != vdom.PatchInsertNode {
		t.Errorf("patches = %+v, want one InsertNode", patches)
	}
	if root.HID() == "" {
		t.Error("root HID should be assigned")
	}
	if n, ok := root.Node(root.HID()); !ok || n != node {
		t.Error("root HID should map to the host node")
	}
}

func TestRenderPatchesInPlace(t *testing.T) {
	_, node, root := newRoot(t)

	root.Render(vdom.Div(vdom.Title("a"), vdom.Span("1")))
	div := node.FirstChild
	span := div.FirstChild

	patches := root.Render(vdom.Div(vdom.Span("2")))

	if node.FirstChild != div || div.FirstChild != span {
		t.Error("render should keep existing nodes")
	}
	if got := dom.InnerHTML(node); got != `<div><span>2</span></div>` {
		t.Errorf("InnerHTML = %q", got)
	}
	if len(patches) != 2 {
		t.Errorf("patches = %+v, want RemoveAttr and SetText", patches)
	}
}

func TestRenderKeyedReorder(t *testing.T) {
	_, node, root := newRoot(t)
	list := func(keys ...string) *vdom.VNode {
		return vdom.Ul(vdom.Range(keys, func(k string, _ int) *vdom.VNode {
			return vdom.Li(vdom.Key(k), k)
		}))
	}

	root.Render(list("u", "a", "b", "m"))
	ul := node.FirstChild
	a := ul.FirstChild.NextSibling

	root.Render(list("z", "a", "m"))
	if got := dom.InnerHTML(node); got != `<ul><li>z</li><li>a</li><li>m</li></ul>` {
		t.Errorf("InnerHTML = %q", got)
	}
	if ul.FirstChild.NextSibling != a {
		t.Error("keyed child a should be reused")
	}

	root.Render(list("m", "a", "z"))
	if got := dom.InnerHTML(node); got != `<ul><li>m</li><li>a</li><li>z</li></ul>` {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestRenderReplaceForgetsOldNodes(t *testing.T) {
	_, node, root := newRoot(t)

	root.Render(vdom.Div(vdom.Span("a")))
	old := root.Tree().Children[0].Children[0].HID

	root.Render(vdom.P("b"))
	if _, ok := root.Node(old); ok {
		t.Error("replaced subtree should be forgotten")
	}
	if got := dom.InnerHTML(node); got != `<p>b</p>` {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestRawIsSanitised(t *testing.T) {
	_, node, root := newRoot(t)

	root.Render(vdom.Div(vdom.Raw(`<b>bold</b><script>alert(1)</script>`)))
	if got := dom.InnerHTML(node); got != `<div><b>bold</b></div>` {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestRawPolicy(t *testing.T) {
	_, node, root := newRoot(t, WithPolicy(bluemonday.StrictPolicy()))

	root.Render(vdom.Raw(`<b>bold</b>`))
	if got := dom.InnerHTML(node); got != `bold` {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestHostNodesAreMoved(t *testing.T) {
	doc, err := dom.ParseString(`<body><div id="app"><em>kept</em></div></body>`)
	if err != nil {
		t.Fatal(err)
	}
	node := doc.GetElementByID("app")
	children := doc.ChildNodes(node)
	root := NewRoot(doc, node)

	root.Render(vdom.Section(children))
	if got := dom.InnerHTML(node); got != `<section><em>kept</em></section>` {
		t.Errorf("InnerHTML = %q", got)
	}
	if node.FirstChild.FirstChild != children[0] {
		t.Error("host node should be moved, not copied")
	}

	root.Render(vdom.Section(children))
	if node.FirstChild.FirstChild != children[0] {
		t.Error("unchanged host node should stay in place")
	}
}

func TestRenderNilClears(t *testing.T) {
	_, node, root := newRoot(t)

	root.Render(vdom.Span("x"))
	root.Render(nil)
	if node.FirstChild != nil {
		t.Errorf("InnerHTML = %q, want empty", dom.InnerHTML(node))
	}
}

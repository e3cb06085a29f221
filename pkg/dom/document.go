package dom

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const emptyDocument = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document is a host HTML tree with custom-element lifecycle dispatch.
type Document struct {
	root     *html.Node
	upgrader Upgrader
	elements map[*html.Node]*upgraded
	logger   *slog.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithUpgrader sets the registry used to upgrade custom elements.
func WithUpgrader(u Upgrader) Option {
	return func(d *Document) {
		d.upgrader = u
	}
}

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates an empty document with a head and a body.
func New(opts ...Option) *Document {
	doc, err := ParseString(emptyDocument, opts...)
	if err != nil {
		// The constant document always parses.
		panic(err)
	}
	return doc
}

// Parse reads an HTML document. Custom elements are not upgraded until
// Upgrade is called.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := &Document{
		root:     root,
		elements: make(map[*html.Node]*upgraded),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// ParseString is Parse for an in-memory string.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *html.Node {
	return d.find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Body
	})
}

// GetElementByID returns the first element whose id attribute equals id.
func (d *Document) GetElementByID(id string) *html.Node {
	return d.find(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := d.GetAttribute(n, "id")
		return ok && v == id
	})
}

// QuerySelectorAll returns all elements with the given tag in tree order.
func (d *Document) QuerySelectorAll(tag string) []*html.Node {
	tag = strings.ToLower(tag)
	var out []*html.Node
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
	})
	return out
}

// CreateElement returns a detached element node.
func CreateElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateTextNode returns a detached text node.
func CreateTextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// ChildNodes returns a copy of n's children.
func (d *Document) ChildNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// IsConnected reports whether n is reachable from the document root.
func (d *Document) IsConnected(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// Lookup returns the custom element upgraded for n.
func (d *Document) Lookup(n *html.Node) (CustomElement, bool) {
	u, ok := d.elements[n]
	if !ok {
		return nil, false
	}
	return u.element, true
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// RenderNode writes n and its subtree as HTML.
func RenderNode(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// String returns the document as HTML.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// OuterHTML returns n and its subtree as HTML.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML returns the HTML of n's children.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

func (d *Document) find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := d.find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

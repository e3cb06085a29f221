// Package render applies vdom trees to a host document in place.
//
// A Root owns one host element. Its first Render replaces the element's
// children with the materialised tree; later renders diff against the
// previous tree and apply only the resulting patches, so unchanged host
// nodes (and any custom elements among them) are kept.
//
//	root := render.NewRoot(doc, node)
//	root.Render(vdom.P(vdom.Textf("count: %d", n)))
//
// Raw nodes are passed through a bluemonday policy before insertion.
package render

// Package vdom provides the declarative node trees reactive components
// render to, and the diff that turns two trees into patches.
//
// # Core Types
//
// VNode represents elements, text, fragments, nested components, raw HTML
// and references to existing host nodes. Props holds attributes.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Textf("%d items", n)),
//	)
//
// Host wraps a node that already exists in the host document, such as the
// children an element had before its first render.
//
// # Diffing
//
// Diff compares two normalised trees and returns Patch operations that are
// correct when applied in order. Keyed reconciliation is used when children
// carry keys. Nodes are addressed by HID, which the renderer assigns when it
// materialises a node and which Diff carries over from prev to next for
// nodes it keeps.
package vdom

// Package dom is the in-memory host document that reactive elements live in.
//
// A Document wraps a golang.org/x/net/html tree and plays the part of a
// browser's custom-element runtime: it upgrades elements whose tag is known
// to its Upgrader, and it invokes their lifecycle callbacks when they are
// connected to or disconnected from the document, and when one of their
// observed attributes changes.
//
// All tree and attribute mutation that should be visible to custom elements
// must go through Document methods. Mutating *html.Node values directly is
// fine for detached subtrees that are not yet part of the document.
//
// A Document is not safe for concurrent use.
package dom

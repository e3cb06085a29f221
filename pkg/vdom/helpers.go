package vdom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an HTML node that is inserted without escaping after the
// renderer has sanitised it.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Host wraps an existing host node so a render can place it. The node is
// moved, not copied.
func Host(n *html.Node) *VNode {
	return &VNode{
		Kind: KindHost,
		Ref:  n,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0),
	}
	for _, child := range children {
		node.Children = appendChildren(node.Children, child)
	}
	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Nothing returns nil, for readability in conditionals.
func Nothing() *VNode {
	return nil
}

// Normalize expands components, flattens fragments and drops nil nodes,
// recursively. The result only contains element, text, raw and host nodes.
func Normalize(nodes ...*VNode) []*VNode {
	out := make([]*VNode, 0, len(nodes))
	for _, n := range nodes {
		out = appendNormalized(out, n, 0)
	}
	return out
}

// maxComponentDepth bounds component-to-component expansion.
const maxComponentDepth = 64

func appendNormalized(out []*VNode, n *VNode, depth int) []*VNode {
	if n == nil {
		return out
	}
	switch n.Kind {
	case KindFragment:
		for _, c := range n.Children {
			out = appendNormalized(out, c, depth)
		}
	case KindComponent:
		if n.Comp == nil || depth >= maxComponentDepth {
			return out
		}
		out = appendNormalized(out, n.Comp.Render(), depth+1)
	case KindElement:
		children := make([]*VNode, 0, len(n.Children))
		for _, c := range n.Children {
			children = appendNormalized(children, c, depth)
		}
		n.Children = children
		out = append(out, n)
	case KindHost:
		if n.Ref != nil {
			out = append(out, n)
		}
	default:
		out = append(out, n)
	}
	return out
}

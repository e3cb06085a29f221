package vdom

import "strconv"

// HIDGenerator generates host node IDs for one render root.
type HIDGenerator struct {
	prefix  string
	counter uint32
}

// NewHIDGenerator creates a new HIDGenerator. IDs look like "h1", "h2"...
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{prefix: "h"}
}

// Next returns the next ID.
func (g *HIDGenerator) Next() string {
	g.counter++
	return g.prefix + strconv.FormatUint(uint64(g.counter), 10)
}

// Current returns the current counter value without incrementing.
func (g *HIDGenerator) Current() uint32 {
	return g.counter
}

// CollectHIDs returns a map of HID to VNode for all nodes with HIDs.
func CollectHIDs(node *VNode) map[string]*VNode {
	result := make(map[string]*VNode)
	collectHIDs(node, result)
	return result
}

func collectHIDs(node *VNode, result map[string]*VNode) {
	if node == nil {
		return
	}
	if node.HID != "" {
		result[node.HID] = node
	}
	for _, child := range node.Children {
		collectHIDs(child, result)
	}
}

package server

import (
	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/render"
	"github.com/vango-dev/reactive/pkg/vdom"
)

// Command ops sent by clients.
const (
	OpSetAttr    = "setAttr"
	OpRemoveAttr = "removeAttr"
	OpSetProp    = "setProp"
)

// Command is a client request. Target is an element id.
type Command struct {
	Op     string `json:"op"`
	Target string `json:"target"`
	Name   string `json:"name"`
	Value  any    `json:"value,omitempty"`
}

// MessageType identifies server messages.
type MessageType string

const (
	MessageHello   MessageType = "hello"
	MessagePatches MessageType = "patches"
	MessageUpdate  MessageType = "update"
	MessageError   MessageType = "error"
)

// Message is sent to clients.
type Message struct {
	Type MessageType `json:"type"`

	// Target is the id of the element that rendered, for patches, or that
	// a command changed without a render, for update.
	Target string `json:"target,omitempty"`

	// Tag is the target's tag name.
	Tag string `json:"tag,omitempty"`

	// Patches are the host patches of one render.
	Patches []PatchMessage `json:"patches,omitempty"`

	// HTML is the whole document for hello, and the target's outer HTML
	// for patches and update.
	HTML string `json:"html,omitempty"`

	// Error is set for error replies.
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// PatchMessage is the wire form of a vdom.Patch. Inserted and replacing
// subtrees are sent as HTML.
type PatchMessage struct {
	Op       string `json:"op"`
	HID      string `json:"hid,omitempty"`
	Key      string `json:"key,omitempty"`
	Value    string `json:"value,omitempty"`
	Index    int    `json:"index,omitempty"`
	ParentID string `json:"parent,omitempty"`
	HTML     string `json:"html,omitempty"`
}

// encodePatches converts applied patches. root resolves the host nodes
// created for inserted subtrees.
func encodePatches(root *render.Root, patches []vdom.Patch) []PatchMessage {
	out := make([]PatchMessage, 0, len(patches))
	for _, p := range patches {
		m := PatchMessage{
			Op:       p.Op.String(),
			HID:      p.HID,
			Key:      p.Key,
			Value:    p.Value,
			Index:    p.Index,
			ParentID: p.ParentID,
		}
		if p.Node != nil {
			if n, ok := root.Node(p.Node.HID); ok {
				m.HTML = dom.OuterHTML(n)
			}
		}
		out = append(out, m)
	}
	return out
}

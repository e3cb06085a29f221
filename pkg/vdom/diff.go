package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Diff compares two VNode trees and returns the patches needed to transform
// prev into next. Both trees must be normalised (see Normalize). HIDs of
// kept nodes are copied from prev to next.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diff(prev, next, &patches)
	return patches
}

func diff(prev, next *VNode, patches *[]Patch) {
	// Both nil - nothing to do
	if prev == nil && next == nil {
		return
	}

	// Node added (handled by parent via InsertNode)
	if prev == nil {
		return
	}

	// Node removed
	if next == nil {
		*patches = append(*patches, Patch{
			Op:  PatchRemoveNode,
			HID: prev.HID,
		})
		return
	}

	if !sameNode(prev, next) {
		*patches = append(*patches, Patch{
			Op:   PatchReplaceNode,
			HID:  prev.HID,
			Node: next,
		})
		return
	}

	next.HID = prev.HID

	switch prev.Kind {
	case KindText:
		if prev.Text != next.Text {
			*patches = append(*patches, Patch{
				Op:    PatchSetText,
				HID:   prev.HID,
				Value: next.Text,
			})
		}
	case KindRaw:
		if prev.Text != next.Text {
			next.HID = ""
			*patches = append(*patches, Patch{
				Op:   PatchReplaceNode,
				HID:  prev.HID,
				Node: next,
			})
		}
	case KindElement:
		diffProps(prev, next, patches)
		diffChildren(prev, next, patches)
	}
}

// sameNode reports whether next can reuse prev's host node.
func sameNode(prev, next *VNode) bool {
	if prev.Kind != next.Kind {
		return false
	}
	switch prev.Kind {
	case KindElement:
		return prev.Tag == next.Tag
	case KindHost:
		return prev.Ref == next.Ref
	}
	return true
}

// diffProps compares and patches attributes. Keys are visited in sorted
// order so the patch list is deterministic.
func diffProps(prev, next *VNode, patches *[]Patch) {
	for _, key := range sortedKeys(prev.Props) {
		prevVal, prevOK := AttrValue(prev.Props[key])
		if !prevOK {
			continue
		}
		nextVal, nextOK := AttrValue(next.Props[key])
		if !nextOK {
			*patches = append(*patches, Patch{
				Op:  PatchRemoveAttr,
				HID: prev.HID,
				Key: key,
			})
		} else if prevVal != nextVal {
			*patches = append(*patches, Patch{
				Op:    PatchSetAttr,
				HID:   prev.HID,
				Key:   key,
				Value: nextVal,
			})
		}
	}

	for _, key := range sortedKeys(next.Props) {
		nextVal, nextOK := AttrValue(next.Props[key])
		if !nextOK {
			continue
		}
		if _, prevOK := AttrValue(prev.Props[key]); !prevOK {
			*patches = append(*patches, Patch{
				Op:    PatchSetAttr,
				HID:   prev.HID,
				Key:   key,
				Value: nextVal,
			})
		}
	}
}

func diffChildren(prev, next *VNode, patches *[]Patch) {
	if hasKeys(prev.Children) || hasKeys(next.Children) {
		diffKeyedChildren(prev, next, patches)
	} else {
		diffUnkeyedChildren(prev, next, patches)
	}
}

// diffUnkeyedChildren matches children by position.
func diffUnkeyedChildren(parent, nextParent *VNode, patches *[]Patch) {
	prev, next := parent.Children, nextParent.Children

	for i := 0; i < len(prev) && i < len(next); i++ {
		diff(prev[i], next[i], patches)
	}
	for i := len(prev); i < len(next); i++ {
		*patches = append(*patches, Patch{
			Op:       PatchInsertNode,
			ParentID: parent.HID,
			Index:    i,
			Node:     next[i],
		})
	}
	for i := len(next); i < len(prev); i++ {
		*patches = append(*patches, Patch{
			Op:  PatchRemoveNode,
			HID: prev[i].HID,
		})
	}
}

// diffKeyedChildren reconciles children by key. Unmatched old children are
// removed first; then next is walked in order while tracking the live
// child list, so every Insert and Move index is valid at the time the
// patch is applied.
func diffKeyedChildren(parent, nextParent *VNode, patches *[]Patch) {
	prev, next := parent.Children, nextParent.Children

	prevByKey := make(map[string]*VNode, len(prev))
	for _, child := range prev {
		if key := getKey(child); key != "" {
			if _, dup := prevByKey[key]; !dup {
				prevByKey[key] = child
			}
		}
	}

	match := make(map[*VNode]*VNode, len(next))
	used := make(map[*VNode]bool, len(prev))
	for _, child := range next {
		key := getKey(child)
		if key == "" {
			continue
		}
		if p, ok := prevByKey[key]; ok && !used[p] && sameNode(p, child) {
			used[p] = true
			match[child] = p
		}
	}

	live := make([]*VNode, 0, len(prev))
	for _, child := range prev {
		if used[child] {
			live = append(live, child)
			continue
		}
		*patches = append(*patches, Patch{
			Op:  PatchRemoveNode,
			HID: child.HID,
		})
	}

	for i, child := range next {
		p, ok := match[child]
		if !ok {
			*patches = append(*patches, Patch{
				Op:       PatchInsertNode,
				ParentID: parent.HID,
				Index:    i,
				Node:     child,
			})
			live = insertAt(live, i, child)
			continue
		}

		if live[i] != p {
			*patches = append(*patches, Patch{
				Op:       PatchMoveNode,
				HID:      p.HID,
				ParentID: parent.HID,
				Index:    i,
			})
			live = insertAt(removeNode(live, p), i, p)
		}
		diff(p, child, patches)
	}
}

func insertAt(list []*VNode, i int, n *VNode) []*VNode {
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = n
	return list
}

func removeNode(list []*VNode, n *VNode) []*VNode {
	for i, c := range list {
		if c == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func getKey(node *VNode) string {
	if node == nil {
		return ""
	}
	return node.Key
}

func hasKeys(children []*VNode) bool {
	for _, child := range children {
		if getKey(child) != "" {
			return true
		}
	}
	return false
}

func sortedKeys(props Props) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AttrValue converts a prop value to its attribute form. It reports false
// when the attribute should be absent: nil, false, and function values.
func AttrValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return "", val
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return FormatNumber(val), true
	case float32:
		return FormatNumber(float64(val)), true
	case fmt.Stringer:
		return val.String(), true
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "", false
	}
	return fmt.Sprint(v), true
}

package vdom

import (
	"strings"
	"testing"
)

// Helper to assign HIDs for testing
func assignTestHIDs(node *VNode) {
	gen := NewHIDGenerator()
	assignAllHIDsRecursive(node, gen)
}

func assignAllHIDsRecursive(node *VNode, gen *HIDGenerator) {
	if node == nil {
		return
	}
	node.HID = gen.Next()
	for _, child := range node.Children {
		assignAllHIDsRecursive(child, gen)
	}
}

func keyedList(keys ...string) *VNode {
	items := make([]*VNode, 0, len(keys))
	for _, k := range keys {
		items = append(items, Li(Key(k), k))
	}
	return Ul(items)
}

// applyChildren replays child-level patches for parent against a list of
// keys, the way a host applies them one at a time.
func applyChildren(t *testing.T, parent *VNode, patches []Patch) []string {
	t.Helper()
	type entry struct{ hid, key string }
	live := make([]entry, 0, len(parent.Children))
	for _, c := range parent.Children {
		live = append(live, entry{c.HID, c.Key})
	}
	indexOf := func(hid string) int {
		for i, e := range live {
			if e.hid == hid {
				return i
			}
		}
		return -1
	}

	for _, p := range patches {
		switch p.Op {
		case PatchRemoveNode:
			if i := indexOf(p.HID); i >= 0 {
				live = append(live[:i], live[i+1:]...)
			}
		case PatchInsertNode:
			if p.ParentID != parent.HID {
				continue
			}
			if p.Index > len(live) {
				t.Fatalf("insert index %d out of range (len %d)", p.Index, len(live))
			}
			live = append(live, entry{})
			copy(live[p.Index+1:], live[p.Index:])
			live[p.Index] = entry{"new", p.Node.Key}
		case PatchMoveNode:
			i := indexOf(p.HID)
			if i < 0 {
				t.Fatalf("move of unknown node %s", p.HID)
			}
			e := live[i]
			live = append(live[:i], live[i+1:]...)
			if p.Index > len(live) {
				t.Fatalf("move index %d out of range (len %d)", p.Index, len(live))
			}
			live = append(live, entry{})
			copy(live[p.Index+1:], live[p.Index:])
			live[p.Index] = e
		}
	}

	keys := make([]string, len(live))
	for i, e := range live {
		keys[i] = e.key
	}
	return keys
}

func TestDiffBothNil(t *testing.T) {
	patches := Diff(nil, nil)
	if len(patches) != 0 {
		t.Errorf("Expected 0 patches, got %d", len(patches))
	}
}

func TestDiffNodeRemoved(t *testing.T) {
	prev := Div()
	prev.HID = "h1"

	patches := Diff(prev, nil)

	if len(patches) != 1 {
		t.Fatalf("Expected 1 patch, got %d", len(patches))
	}
	if patches[0].Op != PatchRemoveNode {
		t.Errorf("Op = %v, want PatchRemoveNode", patches[0].Op)
	}
	if patches[0].HID != "h1" {
		t.Errorf("HID = %v, want h1", patches[0].HID)
	}
}

func TestDiffTextChange(t *testing.T) {
	prev := Text("Hello")
	prev.HID = "h1"
	next := Text("World")

	patches := Diff(prev, next)

	if len(patches) != 1 {
		t.Fatalf("Expected 1 patch, got %d", len(patches))
	}
	if patches[0].Op != PatchSetText || patches[0].HID != "h1" || patches[0].Value != "World" {
		t.Errorf("patch = %+v, want SetText h1 World", patches[0])
	}
	if next.HID != "h1" {
		t.Errorf("next.HID = %q, want h1", next.HID)
	}
}

func TestDiffTextUnchanged(t *testing.T) {
	prev := Text("Hello")
	prev.HID = "h1"

	if patches := Diff(prev, Text("Hello")); len(patches) != 0 {
		t.Errorf("Expected 0 patches for unchanged text, got %d", len(patches))
	}
}

func TestDiffReplace(t *testing.T) {
	tests := []struct {
		name       string
		prev, next *VNode
	}{
		{"kind change", Text("a"), Span("a")},
		{"tag change", Div(), Span()},
		{"raw change", Raw("<b>a</b>"), Raw("<b>b</b>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prev.HID = "h1"
			patches := Diff(tt.prev, tt.next)
			if len(patches) != 1 || patches[0].Op != PatchReplaceNode {
				t.Fatalf("patches = %+v, want one ReplaceNode", patches)
			}
			if patches[0].HID != "h1" || patches[0].Node != tt.next {
				t.Errorf("patch = %+v", patches[0])
			}
		})
	}
}

func TestDiffProps(t *testing.T) {
	prev := Div(Class("a"), Title("t"), Disabled(true), Data("x", "1"))
	prev.HID = "h1"
	next := Div(Class("b"), Disabled(false), Data("x", "1"), Hidden(true))

	patches := Diff(prev, next)

	var got []string
	for _, p := range patches {
		got = append(got, p.Op.String()+" "+p.Key+"="+p.Value)
	}
	want := []string{
		"SetAttr class=b",
		"RemoveAttr disabled=",
		"RemoveAttr title=",
		"SetAttr hidden=",
	}
	if strings.Join(got, "; ") != strings.Join(want, "; ") {
		t.Errorf("patches = %v, want %v", got, want)
	}
}

func TestDiffPropsIgnoresFuncs(t *testing.T) {
	prev := Div(Attribute("onclick", func() {}))
	prev.HID = "h1"
	next := Div(Attribute("onclick", func() {}), Attribute("on-label", "yes"))

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Key != "on-label" || patches[0].Value != "yes" {
		t.Errorf("patches = %+v, want SetAttr on-label", patches)
	}
}

func TestDiffUnkeyedChildren(t *testing.T) {
	prev := Ul(Li("a"), Li("b"), Li("c"))
	assignTestHIDs(prev)

	t.Run("append", func(t *testing.T) {
		next := Ul(Li("a"), Li("b"), Li("c"), Li("d"))
		patches := Diff(prev, next)
		if len(patches) != 1 || patches[0].Op != PatchInsertNode || patches[0].Index != 3 {
			t.Fatalf("patches = %+v, want one InsertNode at 3", patches)
		}
		if patches[0].ParentID != prev.HID {
			t.Errorf("ParentID = %q, want %q", patches[0].ParentID, prev.HID)
		}
	})

	t.Run("truncate", func(t *testing.T) {
		next := Ul(Li("a"))
		patches := Diff(prev, next)
		if len(patches) != 2 {
			t.Fatalf("patches = %+v, want 2 removals", patches)
		}
		for i, p := range patches {
			if p.Op != PatchRemoveNode || p.HID != prev.Children[i+1].HID {
				t.Errorf("patch %d = %+v", i, p)
			}
		}
	})
}

func TestDiffKeyedChildrenSequential(t *testing.T) {
	tests := []struct {
		prev, next []string
	}{
		{[]string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{[]string{"a", "b", "c"}, []string{"c", "b", "a"}},
		{[]string{"a", "b", "c"}, []string{"b", "c", "a"}},
		{[]string{"a", "b", "c"}, []string{"x", "a", "y", "c"}},
		{[]string{"u", "a", "b", "m"}, []string{"z", "a", "m"}},
		{[]string{"a", "b", "c", "d", "e"}, []string{"e", "d", "x"}},
		{[]string{}, []string{"a", "b"}},
		{[]string{"a", "b"}, []string{}},
	}

	for _, tt := range tests {
		name := strings.Join(tt.prev, "") + "->" + strings.Join(tt.next, "")
		t.Run(name, func(t *testing.T) {
			prev := keyedList(tt.prev...)
			assignTestHIDs(prev)
			next := keyedList(tt.next...)

			patches := Diff(prev, next)
			got := applyChildren(t, prev, patches)

			if strings.Join(got, ",") != strings.Join(tt.next, ",") {
				t.Errorf("after patches = %v, want %v (patches %+v)", got, tt.next, patches)
			}
		})
	}
}

func TestDiffKeyedKeepsHIDs(t *testing.T) {
	prev := keyedList("a", "b")
	assignTestHIDs(prev)
	next := keyedList("b", "a")

	Diff(prev, next)

	if next.Children[0].HID != prev.Children[1].HID {
		t.Errorf("b HID = %q, want %q", next.Children[0].HID, prev.Children[1].HID)
	}
	if next.Children[1].HID != prev.Children[0].HID {
		t.Errorf("a HID = %q, want %q", next.Children[1].HID, prev.Children[0].HID)
	}
}

func TestDiffKeyedTagChangeReinserts(t *testing.T) {
	prev := Ul(Li(Key("a"), "a"))
	assignTestHIDs(prev)
	next := Ul(Div(Key("a"), "a"))

	patches := Diff(prev, next)
	if len(patches) != 2 || patches[0].Op != PatchRemoveNode || patches[1].Op != PatchInsertNode {
		t.Errorf("patches = %+v, want Remove then Insert", patches)
	}
}

func TestHIDGenerator(t *testing.T) {
	gen := NewHIDGenerator()
	if got := gen.Next(); got != "h1" {
		t.Errorf("Next() = %q, want h1", got)
	}
	if got := gen.Next(); got != "h2" {
		t.Errorf("Next() = %q, want h2", got)
	}
	if gen.Current() != 2 {
		t.Errorf("Current() = %d, want 2", gen.Current())
	}

	tree := Div(Span("x"))
	assignTestHIDs(tree)
	hids := CollectHIDs(tree)
	if len(hids) != 3 || hids["h1"] != tree {
		t.Errorf("CollectHIDs = %v", hids)
	}
}

package store

import (
	"context"
	"math"
	"testing"

	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/element"
	"github.com/vango-dev/reactive/pkg/vdom"
)

var (
	countProp = element.NumberProp("count", 0)
	openProp  = element.BoolProp("open", true)
	labelProp = element.StringProp("label", "")
)

type widget struct{}

func (widget) Render(element.Snapshot) *vdom.VNode { return nil }

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newRegistry(t *testing.T, opts ...element.Option) *element.Registry {
	t.Helper()
	reg := element.NewRegistry(opts...)
	err := reg.Define("x-widget", element.Definition{
		Props: []element.Prop{countProp.Prop, openProp.Prop, labelProp.Prop},
		New:   func() element.Component { return widget{} },
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	if err := s.Save(ctx, "w1", "count", 3.0); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "w1", "count", 4.0); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "w1", "data", map[string]any{"a": []any{1.0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "w2", "open", false); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if got["count"] != 4.0 {
		t.Errorf("count = %#v, want 4.0", got["count"])
	}
	if m, ok := got["data"].(map[string]any); !ok || len(m["a"].([]any)) != 1 {
		t.Errorf("data = %#v", got["data"])
	}

	ids, err := s.IDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "w1" || ids[1] != "w2" {
		t.Errorf("IDs = %v", ids)
	}

	if err := s.Delete(ctx, "w1"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Load(ctx, "w1"); len(got) != 0 {
		t.Errorf("after Delete: %v", got)
	}
}

func TestSaveNonFiniteNumbers(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	s.Save(ctx, "w", "a", math.NaN())
	s.Save(ctx, "w", "b", math.Inf(-1))

	got, err := s.Load(ctx, "w")
	if err != nil {
		t.Fatal(err)
	}
	if f := element.Cast(element.Number, got["a"]).(float64); !math.IsNaN(f) {
		t.Errorf("a = %v, want NaN", f)
	}
	if f := element.Cast(element.Number, got["b"]).(float64); !math.IsInf(f, -1) {
		t.Errorf("b = %v, want -Inf", f)
	}
}

func TestRestoreBeforeUpgrade(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	s.Save(ctx, "w", "count", 7.0)
	s.Save(ctx, "w", "open", false)
	s.Save(ctx, "w", "label", "saved")
	s.Save(ctx, "w", "unknown", "x")
	s.Save(ctx, "gone", "count", 1.0)

	reg := newRegistry(t)
	doc, err := dom.ParseString(`<body><x-widget id="w" count="1" open></x-widget></body>`, dom.WithUpgrader(reg))
	if err != nil {
		t.Fatal(err)
	}

	n, err := s.Restore(ctx, doc, reg)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Restore = %d, want 3", n)
	}

	doc.Upgrade()
	el, err := element.ElementFor(doc, doc.GetElementByID("w"))
	if err != nil {
		t.Fatal(err)
	}
	if countProp.Get(el) != 7 || openProp.Get(el) || labelProp.Get(el) != "saved" {
		t.Errorf("values = %v", el.Values().Map())
	}
}

func TestObserverSavesChanges(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	reg := newRegistry(t, element.WithObserver(s.Observer(ctx)))

	doc, err := dom.ParseString(`<body><x-widget id="w"></x-widget><x-widget></x-widget></body>`, dom.WithUpgrader(reg))
	if err != nil {
		t.Fatal(err)
	}
	doc.Upgrade()

	nodes := doc.QuerySelectorAll("x-widget")
	withID, _ := element.ElementFor(doc, nodes[0])
	anonymous, _ := element.ElementFor(doc, nodes[1])

	countProp.Set(withID, 5)
	doc.SetAttribute(withID.Node(), "label", "hello")
	countProp.Set(anonymous, 9)

	got, err := s.Load(ctx, "w")
	if err != nil {
		t.Fatal(err)
	}
	if got["count"] != 5.0 || got["label"] != "hello" {
		t.Errorf("stored = %v", got)
	}
	if ids, _ := s.IDs(ctx); len(ids) != 1 {
		t.Errorf("IDs = %v, want only w", ids)
	}
}

package element

import (
	"math"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/vdom"
)

var (
	countProp   = NumberProp("count", 0)
	enabledProp = BoolProp("enabled", false)
	labelProp   = StringProp("label", "hi")
	onLabelProp = StringProp("onLabel", "on")
	dataProp    = OpaqueProp("data", nil)
)

type testComp struct {
	renders       int
	connected     int
	disconnected  int
	lastConnected Snapshot
}

func (c *testComp) Render(s Snapshot) *vdom.VNode {
	c.renders++
	return vdom.Span(vdom.Textf("%s:%v", labelProp.From(s.Props), countProp.From(s.Props)))
}

func (c *testComp) Connected(s Snapshot) {
	c.connected++
	c.lastConnected = s
}

func (c *testComp) Disconnected(Snapshot) {
	c.disconnected++
}

type recordingObserver struct {
	NopObserver
	events  []Event
	changes []string
	renders int
}

func (o *recordingObserver) Lifecycle(e *Element, event Event) func() {
	o.events = append(o.events, event)
	return func() {}
}

func (o *recordingObserver) PropertyChanged(e *Element, name string, oldValue, newValue any) {
	o.changes = append(o.changes, name)
}

func (o *recordingObserver) Rendered(*Element, []vdom.Patch, time.Duration) {
	o.renders++
}

func newTestRegistry(t *testing.T, comp *testComp, opts ...Option) *Registry {
	t.Helper()
	reg := NewRegistry(opts...)
	err := reg.Define("x-test", Definition{
		Props: []Prop{countProp.Prop, enabledProp.Prop, labelProp.Prop, onLabelProp.Prop, dataProp.Prop},
		New:   func() Component { return comp },
	})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	return reg
}

func mount(t *testing.T, markup string, opts ...Option) (*dom.Document, *Element, *testComp) {
	t.Helper()
	comp := &testComp{}
	reg := newTestRegistry(t, comp, opts...)
	doc, err := dom.ParseString("<body>"+markup+"</body>", dom.WithUpgrader(reg))
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	doc.Upgrade()
	nodes := doc.QuerySelectorAll("x-test")
	if len(nodes) == 0 {
		t.Fatal("no <x-test> in markup")
	}
	el, err := ElementFor(doc, nodes[0])
	if err != nil {
		t.Fatalf("ElementFor: %v", err)
	}
	return doc, el, comp
}

func attr(t *testing.T, el *Element, name string) (string, bool) {
	t.Helper()
	return el.Document().GetAttribute(el.Node(), name)
}

func TestNumberPropertyExample(t *testing.T) {
	_, el, _ := mount(t, `<x-test></x-test>`)

	if v, ok := attr(t, el, "count"); !ok || v != "0" {
		t.Fatalf(`count attribute = (%q, %v), want ("0", true)`, v, ok)
	}

	if err := countProp.Set(el, "5"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := el.Get("count")
	if f, ok := got.(float64); !ok || f != 5 {
		t.Errorf("count = %#v, want float64(5)", got)
	}
	if v, _ := attr(t, el, "count"); v != "5" {
		t.Errorf(`count attribute = %q, want "5"`, v)
	}
}

func TestBoolAttributePresenceInitializes(t *testing.T) {
	_, el, _ := mount(t, `<x-test enabled></x-test>`)

	if !enabledProp.Get(el) {
		t.Error("enabled should be true when the attribute is present")
	}
}

func TestBoolPropertyReflectsPresence(t *testing.T) {
	_, el, _ := mount(t, `<x-test></x-test>`)

	if _, ok := attr(t, el, "enabled"); ok {
		t.Fatal("false bool must not be reflected as an attribute")
	}

	enabledProp.Set(el, true)
	if v, ok := attr(t, el, "enabled"); !ok || v != "" {
		t.Errorf(`enabled attribute = (%q, %v), want ("", true)`, v, ok)
	}

	enabledProp.Set(el, false)
	if _, ok := attr(t, el, "enabled"); ok {
		t.Error("setting false should remove the attribute")
	}
}

func TestNonBoolPropertyReflectsStringForm(t *testing.T) {
	_, el, _ := mount(t, `<x-test></x-test>`)

	labelProp.Set(el, "hello world")
	countProp.Set(el, 1.5)
	onLabelProp.Set(el, 42)

	checks := map[string]string{
		"label":    "hello world",
		"count":    "1.5",
		"on-label": "42",
	}
	for name, want := range checks {
		if v, _ := attr(t, el, name); v != want {
			t.Errorf("%s attribute = %q, want %q", name, v, want)
		}
	}
	if onLabelProp.Get(el) != "42" {
		t.Errorf("onLabel = %q, want string \"42\"", onLabelProp.Get(el))
	}
}

func TestSettingCurrentValueIsNoop(t *testing.T) {
	_, el, comp := mount(t, `<x-test count="3"></x-test>`)
	renders := comp.renders

	// Tamper with the attribute behind the document's back; a write would
	// restore it.
	for i := range el.Node().Attr {
		if el.Node().Attr[i].Key == "count" {
			el.Node().Attr[i].Val = "tampered"
		}
	}

	countProp.Set(el, 3)
	countProp.Set(el, "3")
	countProp.Set(el, 3.0)

	if comp.renders != renders {
		t.Errorf("renders = %d, want %d", comp.renders, renders)
	}
	if v, _ := attr(t, el, "count"); v != "tampered" {
		t.Errorf("attribute was rewritten to %q", v)
	}
}

func TestAttributeOverridesDefault(t *testing.T) {
	_, el, comp := mount(t, `<x-test count="7" label="from attr"></x-test>`)

	if got := countProp.Get(el); got != 7 {
		t.Errorf("count = %v, want 7", got)
	}
	if got := labelProp.Get(el); got != "from attr" {
		t.Errorf("label = %q, want %q", got, "from attr")
	}
	if got := onLabelProp.Get(el); got != "on" {
		t.Errorf("onLabel = %q, want default", got)
	}
	if v, _ := attr(t, el, "on-label"); v != "on" {
		t.Errorf("on-label attribute = %q, want reflected default", v)
	}
	if comp.lastConnected.Props.Number("count") != 7 {
		t.Error("Connected hook should see initialised props")
	}
}

func TestPropsKeepDeclarationOrder(t *testing.T) {
	_, el, _ := mount(t, `<x-test label="x" count="1"></x-test>`)

	got := strings.Join(el.Values().Names(), ",")
	if got != "count,enabled,label,onLabel,data" {
		t.Errorf("Names() = %s", got)
	}
}

func TestReconnectPreservesState(t *testing.T) {
	doc, el, comp := mount(t, `<x-test>child</x-test>`)
	body := doc.Body()

	countProp.Set(el, 3)
	children := el.InitialChildren()

	doc.RemoveChild(body, el.Node())
	if comp.disconnected != 1 {
		t.Fatalf("disconnected = %d, want 1", comp.disconnected)
	}
	if el.IsConnected() {
		t.Error("element should report disconnected")
	}

	doc.AppendChild(body, el.Node())
	if comp.connected != 2 {
		t.Fatalf("connected = %d, want 2", comp.connected)
	}
	if got := countProp.Get(el); got != 3 {
		t.Errorf("count after reconnect = %v, want 3", got)
	}
	if v, _ := attr(t, el, "count"); v != "3" {
		t.Errorf("count attribute after reconnect = %q, want 3", v)
	}
	after := el.InitialChildren()
	if len(after) != len(children) || after[0] != children[0] {
		t.Error("initial children must not be recaptured")
	}
}

func TestAttributeChangeUpdatesProperty(t *testing.T) {
	doc, el, comp := mount(t, `<x-test></x-test>`)
	renders := comp.renders

	doc.SetAttribute(el.Node(), "count", "9")
	if got := countProp.Get(el); got != 9 {
		t.Errorf("count = %v, want 9", got)
	}
	if comp.renders != renders+1 {
		t.Errorf("renders = %d, want %d", comp.renders, renders+1)
	}

	doc.SetAttribute(el.Node(), "enabled", "")
	if !enabledProp.Get(el) {
		t.Error("enabled should follow attribute presence")
	}
	doc.RemoveAttribute(el.Node(), "enabled")
	if enabledProp.Get(el) {
		t.Error("removing the attribute should clear enabled")
	}

	doc.SetAttribute(el.Node(), "on-label", "ON")
	if got := onLabelProp.Get(el); got != "ON" {
		t.Errorf("onLabel = %q, want ON", got)
	}
}

func TestInvalidNumberAttributeBecomesNaN(t *testing.T) {
	doc, el, comp := mount(t, `<x-test></x-test>`)

	doc.SetAttribute(el.Node(), "count", "abc")
	if got := countProp.Get(el); !math.IsNaN(got) {
		t.Fatalf("count = %v, want NaN", got)
	}
	renders := comp.renders

	doc.SetAttribute(el.Node(), "count", "xyz")
	if comp.renders != renders {
		t.Error("NaN to NaN must not re-render")
	}
}

func TestAttributeChangeIgnoredBeforeInitialization(t *testing.T) {
	comp := &testComp{}
	reg := newTestRegistry(t, comp)
	doc := dom.New(dom.WithUpgrader(reg))
	n := dom.CreateElement("x-test")

	ce, ok := reg.Upgrade(doc, n)
	if !ok {
		t.Fatal("Upgrade failed")
	}
	ce.AttributeChangedCallback("count", dom.Attr{}, dom.Present("4"))

	el := ce.(*Element)
	if _, ok := el.Get("count"); ok {
		t.Error("props must stay empty until the first connection")
	}
	if comp.renders != 0 {
		t.Error("no render before connection")
	}
}

func TestAttributeChangeIgnoredWhenUnchanged(t *testing.T) {
	_, el, comp := mount(t, `<x-test></x-test>`)
	renders := comp.renders

	el.AttributeChangedCallback("count", dom.Present("1"), dom.Present("1"))
	if countProp.Get(el) != 0 {
		t.Error("identical old and new values must be ignored")
	}
	if comp.renders != renders {
		t.Error("no render expected")
	}

	el.AttributeChangedCallback("unknown-thing", dom.Attr{}, dom.Present("1"))
	if comp.renders != renders {
		t.Error("undeclared attributes must be ignored")
	}
}

func TestSetBeforeConnectionWritesAttribute(t *testing.T) {
	comp := &testComp{}
	reg := newTestRegistry(t, comp)
	doc := dom.New(dom.WithUpgrader(reg))
	n := dom.CreateElement("x-test")

	ce, _ := reg.Upgrade(doc, n)
	el := ce.(*Element)
	if err := el.Set("count", "4"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := doc.GetAttribute(n, "count"); v != "4" {
		t.Errorf("count attribute = %q, want 4", v)
	}
	if comp.renders != 0 {
		t.Error("no render before connection")
	}

	el.ConnectedCallback()
	if got := countProp.Get(el); got != 4 {
		t.Errorf("count = %v, want 4", got)
	}
}

func TestSetUnknownProperty(t *testing.T) {
	_, el, _ := mount(t, `<x-test></x-test>`)

	err := el.Set("missing", 1)
	if !errors.HasCode(err, "E201") {
		t.Errorf("err = %v, want E201", err)
	}
}

func TestOpaqueValueSurvivesReflection(t *testing.T) {
	_, el, _ := mount(t, `<x-test></x-test>`)

	if _, ok := attr(t, el, "data"); ok {
		t.Error("nil opaque value should not be reflected")
	}

	value := map[string]any{"items": []any{"a", "b"}}
	dataProp.Set(el, value)

	got, ok := dataProp.Get(el).(map[string]any)
	if !ok || len(got["items"].([]any)) != 2 {
		t.Fatalf("data = %#v, want the map", dataProp.Get(el))
	}
	if v, _ := attr(t, el, "data"); v != `{"items":["a","b"]}` {
		t.Errorf("data attribute = %q", v)
	}
}

func TestRenderPatchesInPlace(t *testing.T) {
	_, el, _ := mount(t, `<x-test></x-test>`)
	span := el.Node().FirstChild
	if span == nil || span.Data != "span" {
		t.Fatalf("first child = %+v, want <span>", span)
	}
	if got := dom.InnerHTML(el.Node()); got != "<span>hi:0</span>" {
		t.Errorf("InnerHTML = %q", got)
	}

	countProp.Set(el, 2)
	if el.Node().FirstChild != span {
		t.Error("render should reuse the existing <span>")
	}
	if got := dom.InnerHTML(el.Node()); got != "<span>hi:2</span>" {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestObserverSeesLifecycle(t *testing.T) {
	obs := &recordingObserver{}
	doc, el, _ := mount(t, `<x-test></x-test>`, WithObserver(obs))

	doc.SetAttribute(el.Node(), "count", "2")
	labelProp.Set(el, "x")
	doc.RemoveChild(doc.Body(), el.Node())

	want := []Event{EventConnected, EventAttributeChanged, EventDisconnected}
	if len(obs.events) != len(want) {
		t.Fatalf("events = %v, want %v", obs.events, want)
	}
	for i := range want {
		if obs.events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, obs.events[i], want[i])
		}
	}
	if strings.Join(obs.changes, ",") != "count,label" {
		t.Errorf("changes = %v", obs.changes)
	}
	if obs.renders != 3 {
		t.Errorf("renders = %d, want 3", obs.renders)
	}
}

type wrapComp struct{}

func (wrapComp) Render(s Snapshot) *vdom.VNode {
	return vdom.Div(vdom.Class("frame"), s.Children)
}

func TestInitialChildrenAreRendered(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Define("x-wrap", Definition{New: func() Component { return wrapComp{} }}); err != nil {
		t.Fatal(err)
	}
	doc, err := dom.ParseString(`<body><x-wrap><b>hi</b> there</x-wrap></body>`, dom.WithUpgrader(reg))
	if err != nil {
		t.Fatal(err)
	}
	doc.Upgrade()

	n := doc.QuerySelectorAll("x-wrap")[0]
	el, err := ElementFor(doc, n)
	if err != nil {
		t.Fatal(err)
	}
	if len(el.InitialChildren()) != 2 {
		t.Errorf("initial children = %d, want 2", len(el.InitialChildren()))
	}
	if got := dom.InnerHTML(n); got != `<div class="frame"><b>hi</b> there</div>` {
		t.Errorf("InnerHTML = %q", got)
	}

	el.Render()
	if got := dom.InnerHTML(n); got != `<div class="frame"><b>hi</b> there</div>` {
		t.Errorf("InnerHTML after re-render = %q", got)
	}
}

func TestElementForRejectsPlainNodes(t *testing.T) {
	doc := dom.New()
	n := &html.Node{Type: html.ElementNode, Data: "div"}
	if _, err := ElementFor(doc, n); !errors.HasCode(err, "E205") {
		t.Errorf("err = %v, want E205", err)
	}
}

// Package demo holds the example components used by the CLI and the live
// server's built-in page.
package demo

import (
	"math"

	"github.com/vango-dev/reactive/pkg/element"
	"github.com/vango-dev/reactive/pkg/vdom"
)

// Page is the document served when no page is configured.
const Page = `<!DOCTYPE html>
<html>
<head><title>reactive demo</title></head>
<body>
<h1>reactive demo</h1>
<x-counter id="counter" label="Clicks" step="1"></x-counter>
<x-toggle id="toggle" on-label="Lights on" off-label="Lights off"></x-toggle>
<x-greeting id="greeting" name="world"><em>Nice to see you.</em></x-greeting>
</body>
</html>
`

var (
	CounterCount = element.NumberProp("count", 0)
	CounterStep  = element.NumberProp("step", 1)
	CounterLabel = element.StringProp("label", "Count")

	ToggleEnabled  = element.BoolProp("enabled", false)
	ToggleOnLabel  = element.StringProp("onLabel", "On")
	ToggleOffLabel = element.StringProp("offLabel", "Off")

	GreetingName    = element.StringProp("name", "")
	GreetingExcited = element.BoolProp("excited", false)
)

// Register defines the demo components in reg.
func Register(reg *element.Registry) error {
	defs := []struct {
		tag string
		def element.Definition
	}{
		{"x-counter", element.Definition{
			Props: []element.Prop{CounterCount.Prop, CounterStep.Prop, CounterLabel.Prop},
			New:   func() element.Component { return &Counter{} },
		}},
		{"x-toggle", element.Definition{
			Props: []element.Prop{ToggleEnabled.Prop, ToggleOnLabel.Prop, ToggleOffLabel.Prop},
			New:   func() element.Component { return &Toggle{} },
		}},
		{"x-greeting", element.Definition{
			Props: []element.Prop{GreetingName.Prop, GreetingExcited.Prop},
			New:   func() element.Component { return &Greeting{} },
		}},
	}
	for _, d := range defs {
		if err := reg.Define(d.tag, d.def); err != nil {
			return err
		}
	}
	return nil
}

// Counter shows a labelled number. Increment adds step to it.
type Counter struct {
	el *element.Element
}

// Connected implements element.Connector.
func (c *Counter) Connected(s element.Snapshot) {
	c.el = s.Element
}

// Increment adds step to count.
func (c *Counter) Increment() error {
	if c.el == nil {
		return nil
	}
	return CounterCount.Set(c.el, CounterCount.Get(c.el)+CounterStep.Get(c.el))
}

func (c *Counter) Render(s element.Snapshot) *vdom.VNode {
	return vdom.Div(vdom.Class("counter"),
		vdom.Label(CounterLabel.From(s.Props)),
		vdom.Output(vdom.Name("count"), formatCount(CounterCount.From(s.Props))),
		vdom.Button(vdom.Type("button"), vdom.Data("action", "increment"),
			vdom.Disabled(math.IsNaN(CounterStep.From(s.Props))),
			"+"+formatCount(CounterStep.From(s.Props)),
		),
	)
}

// Toggle is a switch with a label for each state.
type Toggle struct{}

func (Toggle) Render(s element.Snapshot) *vdom.VNode {
	on := ToggleEnabled.From(s.Props)
	label := ToggleOffLabel.From(s.Props)
	if on {
		label = ToggleOnLabel.From(s.Props)
	}
	return vdom.Button(
		vdom.Type("button"),
		vdom.Role("switch"),
		vdom.AriaPressed(on),
		vdom.Class("toggle", onOff(on)),
		label,
	)
}

// Greeting greets name and places the element's original children below.
type Greeting struct{}

func (Greeting) Render(s element.Snapshot) *vdom.VNode {
	name := GreetingName.From(s.Props)
	if name == "" {
		name = "stranger"
	}
	punct := "."
	if GreetingExcited.From(s.Props) {
		punct = "!"
	}
	return vdom.Section(vdom.Class("greeting"),
		vdom.P(vdom.Textf("Hello, %s%s", name, punct)),
		vdom.If(len(s.Children) > 0, vdom.Slot(s.Children)),
	)
}

func formatCount(f float64) string {
	s, _ := element.Serialize(element.Number, f)
	return s
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

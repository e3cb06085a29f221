package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/element"
	"github.com/vango-dev/reactive/pkg/vdom"
)

var countProp = element.NumberProp("count", 0)

type counter struct{}

func (counter) Render(s element.Snapshot) *vdom.VNode {
	return vdom.Span(vdom.Textf("%v", countProp.From(s.Props)))
}

func mount(t *testing.T, obs element.Observer) (*dom.Document, *element.Element) {
	t.Helper()
	reg := element.NewRegistry(element.WithObserver(obs))
	err := reg.Define("x-count", element.Definition{
		Props: []element.Prop{countProp.Prop},
		New:   func() element.Component { return counter{} },
	})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := dom.ParseString(`<body><x-count id="c"></x-count></body>`, dom.WithUpgrader(reg))
	if err != nil {
		t.Fatal(err)
	}
	doc.Upgrade()
	el, err := element.ElementFor(doc, doc.GetElementByID("c"))
	if err != nil {
		t.Fatal(err)
	}
	return doc, el
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestMetricsObserver(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
	doc, el := mount(t, m)

	countProp.Set(el, 1)
	doc.SetAttribute(el.Node(), "count", "2")
	doc.RemoveChild(doc.Body(), el.Node())

	checks := []struct {
		name string
		c    prometheus.Counter
		want float64
	}{
		{"connected", m.lifecycleTotal.WithLabelValues("x-count", "connected"), 1},
		{"attribute_changed", m.lifecycleTotal.WithLabelValues("x-count", "attribute_changed"), 1},
		{"disconnected", m.lifecycleTotal.WithLabelValues("x-count", "disconnected"), 1},
		{"property updates", m.propertyUpdates.WithLabelValues("x-count", "count"), 2},
		{"renders", m.rendersTotal.WithLabelValues("x-count"), 3},
	}
	for _, tt := range checks {
		if got := metricCounterValue(t, tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	// First render inserts the span, the next two only change its text.
	if got := metricCounterValue(t, m.patchesTotal.WithLabelValues("x-count")); got != 3 {
		t.Errorf("patches = %v, want 3", got)
	}
}

func TestMetricsServerHooks(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	m.ClientConnected()
	m.ClientConnected()
	m.ClientDisconnected()
	m.Command("setProp", nil)
	m.Command("setProp", context.Canceled)

	if got := metricGaugeValue(t, m.clients); got != 1 {
		t.Errorf("clients = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.commandsTotal.WithLabelValues("setProp", "error")); got != 1 {
		t.Errorf("failed commands = %v, want 1", got)
	}
}

func TestMetricsDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate registration")
		}
	}()
	NewMetrics(WithRegistry(reg))
}

func TestTracingUnwindsSpans(t *testing.T) {
	tr := NewTracing(WithTracerProvider(noop.NewTracerProvider()), WithTracerName("test"))
	doc, el := mount(t, tr)

	if tr.Depth() != 0 {
		t.Errorf("Depth after connect = %d, want 0", tr.Depth())
	}

	done := tr.Lifecycle(el, element.EventConnected)
	inner := tr.Lifecycle(el, element.EventAttributeChanged)
	if tr.Depth() != 2 {
		t.Errorf("Depth = %d, want 2", tr.Depth())
	}
	inner()
	done()
	if tr.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", tr.Depth())
	}

	doc.SetAttribute(el.Node(), "count", "5")
	tr.Rendered(el, nil, 0)
	if tr.Depth() != 0 {
		t.Errorf("Depth after attribute change = %d, want 0", tr.Depth())
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, el := mount(t, NewLogging(logger, slog.LevelDebug))

	countProp.Set(el, 4)

	out := buf.String()
	for _, want := range []string{
		`msg="element lifecycle"`,
		"event=connected",
		`msg="property changed"`,
		"property=count",
		"new=4",
		`msg="element rendered"`,
		"id=c",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestMulti(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	_, el := mount(t, Multi(m, nil, NewLogging(logger, slog.LevelInfo)))
	countProp.Set(el, 1)

	if got := metricCounterValue(t, m.rendersTotal.WithLabelValues("x-count")); got != 2 {
		t.Errorf("renders = %v, want 2", got)
	}
	if !strings.Contains(buf.String(), "property changed") {
		t.Error("logging observer not called")
	}
}

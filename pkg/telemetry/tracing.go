package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactive/pkg/element"
	"github.com/vango-dev/reactive/pkg/vdom"
)

const defaultTracerName = "reactive"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "reactive").
	TracerName string

	// Provider is the tracer provider (default: the global provider).
	Provider trace.TracerProvider

	// Context is the parent of top-level spans (default: context.Background()).
	Context context.Context
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(p trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = p
	}
}

// WithParentContext sets the context top-level spans are started from.
func WithParentContext(ctx context.Context) TracingOption {
	return func(c *TracingConfig) {
		c.Context = ctx
	}
}

// Tracing is an element.Observer that traces lifecycle callbacks. Each
// callback gets a span; renders and property changes that happen inside
// it become a child span and span events.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given. Configure it in main() before upgrading documents:
//
//	otel.SetTracerProvider(tp)
type Tracing struct {
	tracer trace.Tracer
	parent context.Context

	mu     sync.Mutex
	active []context.Context
}

// NewTracing creates a tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Tracing{
		tracer: config.Provider.Tracer(config.TracerName),
		parent: config.Context,
	}
}

// Lifecycle implements element.Observer.
func (t *Tracing) Lifecycle(e *element.Element, event element.Event) func() {
	t.mu.Lock()
	ctx, span := t.tracer.Start(t.current(), "reactive."+string(event),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(elementAttrs(e)...),
	)
	t.active = append(t.active, ctx)
	depth := len(t.active)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		if len(t.active) >= depth {
			t.active = t.active[:depth-1]
		}
		t.mu.Unlock()
		span.End()
	}
}

// PropertyChanged implements element.Observer. The change is recorded as
// an event on the innermost active span.
func (t *Tracing) PropertyChanged(e *element.Element, name string, _, _ any) {
	t.mu.Lock()
	ctx := t.current()
	t.mu.Unlock()

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("property.changed", trace.WithAttributes(
		attribute.String("reactive.tag", e.Tag()),
		attribute.String("reactive.property", name),
	))
}

// Rendered implements element.Observer. The render span is back-dated by
// elapsed.
func (t *Tracing) Rendered(e *element.Element, patches []vdom.Patch, elapsed time.Duration) {
	t.mu.Lock()
	parent := t.current()
	t.mu.Unlock()

	end := time.Now()
	_, span := t.tracer.Start(parent, "reactive.render",
		trace.WithTimestamp(end.Add(-elapsed)),
		trace.WithAttributes(elementAttrs(e)...),
		trace.WithAttributes(attribute.Int("reactive.patches", len(patches))),
	)
	if !e.IsConnected() {
		span.SetStatus(codes.Error, "rendered while disconnected")
	}
	span.End(trace.WithTimestamp(end))
}

// Depth returns the number of lifecycle spans currently open.
func (t *Tracing) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// current must be called with mu held.
func (t *Tracing) current() context.Context {
	if n := len(t.active); n > 0 {
		return t.active[n-1]
	}
	return t.parent
}

func elementAttrs(e *element.Element) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("reactive.tag", e.Tag())}
	if id := e.ID(); id != "" {
		attrs = append(attrs, attribute.String("reactive.id", id))
	}
	return attrs
}

package element

import (
	"time"

	"github.com/vango-dev/reactive/pkg/vdom"
)

// Event names a lifecycle callback.
type Event string

const (
	EventConnected        Event = "connected"
	EventDisconnected     Event = "disconnected"
	EventAttributeChanged Event = "attribute_changed"
)

// Observer is notified about element activity. Implementations must not
// mutate the element.
type Observer interface {
	// Lifecycle is called when a lifecycle callback starts doing work. The
	// returned func is called when it finishes.
	Lifecycle(e *Element, event Event) func()

	// PropertyChanged is called after a property value was stored.
	PropertyChanged(e *Element, name string, oldValue, newValue any)

	// Rendered is called after a render was applied to the host.
	Rendered(e *Element, patches []vdom.Patch, elapsed time.Duration)
}

// Observers fans out to several observers.
type Observers []Observer

func (o Observers) Lifecycle(e *Element, event Event) func() {
	dones := make([]func(), 0, len(o))
	for _, obs := range o {
		dones = append(dones, obs.Lifecycle(e, event))
	}
	return func() {
		for i := len(dones) - 1; i >= 0; i-- {
			if dones[i] != nil {
				dones[i]()
			}
		}
	}
}

func (o Observers) PropertyChanged(e *Element, name string, oldValue, newValue any) {
	for _, obs := range o {
		obs.PropertyChanged(e, name, oldValue, newValue)
	}
}

func (o Observers) Rendered(e *Element, patches []vdom.Patch, elapsed time.Duration) {
	for _, obs := range o {
		obs.Rendered(e, patches, elapsed)
	}
}

// NopObserver ignores everything. Embed it to implement only some hooks.
type NopObserver struct{}

func (NopObserver) Lifecycle(*Element, Event) func()             { return func() {} }
func (NopObserver) PropertyChanged(*Element, string, any, any)   {}
func (NopObserver) Rendered(*Element, []vdom.Patch, time.Duration) {}

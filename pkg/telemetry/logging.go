package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/reactive/pkg/element"
	"github.com/vango-dev/reactive/pkg/vdom"
)

// Logging is an element.Observer that writes debug records.
type Logging struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogging creates a logging observer. A nil logger means slog.Default().
func NewLogging(logger *slog.Logger, level slog.Level) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger, level: level}
}

// Lifecycle implements element.Observer.
func (l *Logging) Lifecycle(e *element.Element, event element.Event) func() {
	start := time.Now()
	return func() {
		l.logger.Log(context.Background(), l.level, "element lifecycle",
			"tag", e.Tag(),
			"id", e.ID(),
			"event", string(event),
			"duration", time.Since(start),
		)
	}
}

// PropertyChanged implements element.Observer.
func (l *Logging) PropertyChanged(e *element.Element, name string, oldValue, newValue any) {
	l.logger.Log(context.Background(), l.level, "property changed",
		"tag", e.Tag(),
		"id", e.ID(),
		"property", name,
		"old", oldValue,
		"new", newValue,
	)
}

// Rendered implements element.Observer.
func (l *Logging) Rendered(e *element.Element, patches []vdom.Patch, elapsed time.Duration) {
	l.logger.Log(context.Background(), l.level, "element rendered",
		"tag", e.Tag(),
		"id", e.ID(),
		"patches", len(patches),
		"duration", elapsed,
	)
}

// Multi combines observers. Nil entries are skipped.
func Multi(observers ...element.Observer) element.Observer {
	out := make(element.Observers, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

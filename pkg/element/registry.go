package element

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/dom"
)

// reservedNames are hyphenated names HTML reserves for SVG and MathML.
var reservedNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

type definition struct {
	props   []Prop
	byName  map[string]int
	observe []string
	newComp func() Component
}

func (d *definition) lookup(name string) (Prop, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Prop{}, false
	}
	return d.props[i], true
}

// Registry maps tag names to component definitions. It implements
// dom.Upgrader.
type Registry struct {
	mu        sync.RWMutex
	defs      map[string]*definition
	observers Observers
	logger    *slog.Logger
	policy    *bluemonday.Policy
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver adds an observer notified by every element.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithLogger sets the logger handed to elements.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRawPolicy sets the sanitiser elements use for raw HTML.
func WithRawPolicy(p *bluemonday.Policy) Option {
	return func(r *Registry) {
		if p != nil {
			r.policy = p
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		defs:   make(map[string]*definition),
		logger: slog.Default(),
		policy: bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultRegistry is used by the package-level Define.
var DefaultRegistry = NewRegistry()

// Define registers def under tag in DefaultRegistry.
func Define(tag string, def Definition) error {
	return DefaultRegistry.Define(tag, def)
}

// Observe adds an observer. Elements pick it up immediately.
func (r *Registry) Observe(o Observer) {
	if o == nil {
		return
	}
	r.mu.Lock()
	r.observers = append(r.observers, o)
	r.mu.Unlock()
}

func (r *Registry) observer() Observers {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.observers
}

// Define registers a component definition under tag. The tag must be a
// valid custom element name that is not yet defined, and every property
// name must be unique and survive the attribute name round trip.
func (r *Registry) Define(tag string, def Definition) error {
	if err := ValidateTag(tag); err != nil {
		return err
	}
	if def.New == nil {
		return errors.New("E204").
			WithDetailf("<%s> has no constructor", tag).
			WithSuggestion("Set Definition.New")
	}

	d := &definition{
		props:   make([]Prop, 0, len(def.Props)),
		byName:  make(map[string]int, len(def.Props)),
		newComp: def.New,
	}
	for _, p := range def.Props {
		if err := validateProp(tag, p); err != nil {
			return err
		}
		if _, dup := d.byName[p.Name]; dup {
			return errors.New("E204").
				WithDetailf("<%s> declares %q twice", tag, p.Name)
		}
		p.Default = Cast(p.Type, p.Default)
		d.byName[p.Name] = len(d.props)
		d.props = append(d.props, p)
		d.observe = append(d.observe, p.Attr())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[tag]; exists {
		return errors.New("E203").
			WithDetailf("<%s> is already defined", tag)
	}
	r.defs[tag] = d
	r.logger.Debug("custom element defined", "tag", tag, "props", len(d.props))
	return nil
}

// Lookup returns the definition registered for tag.
func (r *Registry) Lookup(tag string) (Definition, bool) {
	d := r.get(tag)
	if d == nil {
		return Definition{}, false
	}
	props := make([]Prop, len(d.props))
	copy(props, d.props)
	return Definition{Props: props, New: d.newComp}, true
}

// Tags returns the defined tag names, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.defs))
	for tag := range r.defs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ObservedAttributes implements dom.Upgrader.
func (r *Registry) ObservedAttributes(tag string) []string {
	d := r.get(tag)
	if d == nil {
		return nil
	}
	out := make([]string, len(d.observe))
	copy(out, d.observe)
	return out
}

// Upgrade implements dom.Upgrader.
func (r *Registry) Upgrade(doc *dom.Document, n *html.Node) (dom.CustomElement, bool) {
	d := r.get(n.Data)
	if d == nil {
		return nil, false
	}
	comp := d.newComp()
	if comp == nil {
		r.logger.Error("custom element not upgraded", "tag", n.Data, "error", errors.New("E206"))
		return nil, false
	}
	return newElement(r, doc, n, d, comp), true
}

// ElementFor returns the reactive element upgraded for n in doc.
func ElementFor(doc *dom.Document, n *html.Node) (*Element, error) {
	ce, ok := doc.Lookup(n)
	if !ok {
		return nil, errors.New("E205").WithDetailf("<%s> has not been upgraded", n.Data)
	}
	e, ok := ce.(*Element)
	if !ok {
		return nil, errors.New("E205").WithDetailf("<%s> is not a reactive element", n.Data)
	}
	return e, nil
}

func (r *Registry) get(tag string) *definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defs[tag]
}

// ValidateTag reports whether tag is a valid custom element name: it
// starts with a lower-case ASCII letter, contains a hyphen, has no
// upper-case ASCII letters and is not reserved.
func ValidateTag(tag string) error {
	invalid := func(why string) error {
		return errors.New("E202").
			WithDetailf("%q %s", tag, why).
			WithSuggestion(`Use a lower-case name with a hyphen, such as "x-counter"`)
	}
	if tag == "" || tag[0] < 'a' || tag[0] > 'z' {
		return invalid("must start with a lower-case letter")
	}
	if !strings.Contains(tag, "-") {
		return invalid("must contain a hyphen")
	}
	if reservedNames[tag] {
		return invalid("is reserved")
	}
	for _, c := range tag {
		switch {
		case c >= 'A' && c <= 'Z':
			return invalid("must not contain upper-case letters")
		case c == '-' || c == '.' || c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z'):
		case c >= 0xB7 && c != utf8.RuneError:
		default:
			return invalid("contains an invalid character")
		}
	}
	return nil
}

func validateProp(tag string, p Prop) error {
	if p.Name == "" {
		return errors.New("E204").WithDetailf("<%s> declares a property without a name", tag)
	}
	if c := p.Name[0]; c < 'a' || c > 'z' {
		return errors.New("E204").
			WithDetailf("<%s> property %q must start with a lower-case letter", tag, p.Name)
	}
	if p.Type > String {
		return errors.New("E204").WithDetailf("<%s> property %q has an unknown type", tag, p.Name)
	}
	attr := p.Attr()
	if attr != strings.ToLower(attr) || AttrToProp(attr) != p.Name {
		return errors.New("E204").
			WithDetailf("<%s> property %q does not map to an attribute and back", tag, p.Name).
			WithSuggestion(`Use camelCase names such as "onLabel"; avoid leading, trailing or consecutive capitals`)
	}
	return nil
}

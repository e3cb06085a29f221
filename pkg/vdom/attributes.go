package vdom

import "strings"

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Attribute sets an arbitrary attribute. A false bool value leaves the
// attribute absent; true renders it empty.
func Attribute(key string, value any) Attr { return attr(strings.ToLower(key), value) }

// BoolAttr sets a presence-only attribute.
func BoolAttr(key string, on bool) Attr { return attr(strings.ToLower(key), on) }

// Key sets the reconciliation key. It is not rendered.
func Key(key string) Attr { return attr("key", key) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining non-empty classes with spaces.
func Class(classes ...string) Attr {
	parts := classes[:0:0]
	for _, c := range classes {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return attr("class", strings.Join(parts, " "))
}

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value attribute.
func Value(v any) Attr { return attr("value", v) }

// Title sets the title attribute.
func Title(t string) Attr { return attr("title", t) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaPressed sets the aria-pressed attribute.
func AriaPressed(pressed bool) Attr {
	if pressed {
		return attr("aria-pressed", "true")
	}
	return attr("aria-pressed", "false")
}

// Disabled sets the disabled attribute.
func Disabled(on bool) Attr { return BoolAttr("disabled", on) }

// Hidden sets the hidden attribute.
func Hidden(on bool) Attr { return BoolAttr("hidden", on) }

// Checked sets the checked attribute.
func Checked(on bool) Attr { return BoolAttr("checked", on) }

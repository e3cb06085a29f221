package element

import "strings"

// AttrToProp converts a kebab-case attribute name to a camelCase property
// name: every hyphen is dropped and the character after it upper-cased.
func AttrToProp(name string) string {
	if !strings.Contains(name, "-") {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	upper := false
	for _, r := range name {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PropToAttr converts a camelCase property name to a kebab-case attribute
// name. Each upper-case ASCII letter that is followed by a lower-case one
// becomes a hyphen and its lower-case form; other characters are kept.
func PropToAttr(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isUpper(c) && i+1 < len(name) && isLower(name[i+1]) {
			b.WriteByte('-')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

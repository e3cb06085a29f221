package element

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/vdom"
)

// Type is the declared type of a property. It decides how values are
// coerced and how they are reflected as attributes.
type Type uint8

const (
	Opaque Type = iota // any value, passed through unchanged
	Bool               // bool, reflected by attribute presence
	Number             // float64
	String             // string
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Opaque:
		return "opaque"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Prop declares one reactive property.
type Prop struct {
	// Name is the camelCase property name. The attribute name is
	// PropToAttr(Name).
	Name string

	// Type is the declared type every value is coerced to.
	Type Type

	// Default is the value before any attribute or Set overrides it.
	Default any
}

// Attr returns the attribute name mirroring the property.
func (p Prop) Attr() string {
	return PropToAttr(p.Name)
}

// Cast coerces v to t. Coercion never fails: text that is not a number
// becomes NaN, and Opaque values are returned unchanged.
func Cast(t Type, v any) any {
	switch t {
	case Bool:
		return toBool(v)
	case Number:
		return toNumber(v)
	case String:
		return toString(v)
	default:
		return v
	}
}

// CastAttr coerces an attribute state to t. Bool properties follow the
// HTML boolean attribute convention: present is true whatever the value.
// An absent attribute casts like a nil value.
func CastAttr(t Type, a dom.Attr) any {
	if t == Bool {
		return a.Present
	}
	if !a.Present {
		return Cast(t, nil)
	}
	return Cast(t, a.Value)
}

// Serialize returns the attribute form of a value of type t. It reports
// false when the attribute must be absent.
func Serialize(t Type, v any) (string, bool) {
	switch t {
	case Bool:
		return "", toBool(v)
	case Number:
		return vdom.FormatNumber(toNumber(v)), true
	case String:
		return toString(v), true
	}

	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return toString(val), true
	case fmt.Stringer:
		return val.String(), true
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data), true
	}
	return fmt.Sprint(v), true
}

// Equal reports whether two stored values are the same for change
// detection. NaN equals NaN.
func Equal(a, b any) bool {
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// toBool applies JavaScript truthiness.
func toBool(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

func toNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		return parseNumber(x)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return parseNumber(rv.String())
	case reflect.Bool:
		if rv.Bool() {
			return 1
		}
		return 0
	}
	if s, ok := v.(fmt.Stringer); ok {
		return parseNumber(s.String())
	}
	return math.NaN()
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return vdom.FormatNumber(x)
	case float32:
		return vdom.FormatNumber(float64(x))
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return vdom.FormatNumber(rv.Float())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	}
	return fmt.Sprint(v)
}

// parseNumber follows the rules of JavaScript's Number(string).
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	// strconv accepts forms JavaScript does not (inf, nan, hex floats,
	// underscores), so restrict the alphabet first.
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}


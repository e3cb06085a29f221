// Package errors provides coded, categorised errors for reactive.
//
// Every failure the library reports on purpose carries a stable code
// (e.g. "E201") registered in this package together with a category, a
// short message and a longer detail. Callers add context with the builder
// methods:
//
//	return errors.New("E201").
//	    WithDetail(`property "count" is not declared by <x-counter>`).
//	    WithSuggestion("Add the property to the component's Props table")
//
// Error values support errors.Is and errors.As through Unwrap, and Format
// renders them for terminal output.
package errors

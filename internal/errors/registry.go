package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},

	// ============================================
	// Store / Export Errors (E150-E169)
	// ============================================

	"E150": {
		Category: CategoryStore,
		Message:  "Property store failure",
	},
	"E160": {
		Category: CategoryExport,
		Message:  "Export failed",
	},

	// ============================================
	// Protocol Errors (E170-E199)
	// ============================================

	"E170": {
		Category: CategoryProtocol,
		Message:  "Malformed client command",
	},
	"E171": {
		Category: CategoryProtocol,
		Message:  "Command target not found",
	},

	// ============================================
	// Element Errors (E200-E249)
	// ============================================

	"E201": {
		Category: CategoryElement,
		Message:  "Unknown property",
	},
	"E202": {
		Category: CategoryRegistry,
		Message:  "Invalid custom element name",
	},
	"E203": {
		Category: CategoryRegistry,
		Message:  "Custom element already defined",
	},
	"E204": {
		Category: CategoryRegistry,
		Message:  "Invalid property table",
	},
	"E205": {
		Category: CategoryElement,
		Message:  "Element is not upgraded",
	},
	"E206": {
		Category: CategoryRender,
		Message:  "Component constructor returned nil",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

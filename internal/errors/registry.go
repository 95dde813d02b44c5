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
	// Runtime Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryRuntime,
		Message:  "Propagation depth exceeded",
		Detail:   "Observer executions nested deeper than the graph's configured limit. This usually means an effect writes a signal that re-triggers itself or one of its ancestors.",
	},
	"E102": {
		Category: CategoryRuntime,
		Message:  "Nil effect body",
		Detail:   "An effect or memo was created with a nil function.",
	},

	// ============================================
	// Config Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration contains a value outside its allowed range.",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The configuration file given on the command line does not exist.",
	},
	"E203": {
		Category: CategoryConfig,
		Message:  "Configuration file is malformed",
		Detail:   "The configuration file could not be decoded as JSON or YAML.",
	},

	// ============================================
	// Inspector Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryInspector,
		Message:  "Inspector failed to listen",
		Detail:   "The inspector HTTP server could not bind its address.",
	},
	"E302": {
		Category: CategoryInspector,
		Message:  "Unknown graph",
		Detail:   "No graph with the requested id has reported events to this inspector.",
	},

	// ============================================
	// CLI Errors (E401-E499)
	// ============================================

	"E401": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
		Detail:   "A command line flag has a value the command cannot use.",
	},
}

// GetAllCodes returns every registered code in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template registered for code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

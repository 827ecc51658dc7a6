package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Hook called outside component render",
		Detail:   "Hooks read and write per-component slots and must be called synchronously while the component renders.",
		DocURL:   "https://vango.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Hook order changed",
		Detail:   "A component called its hooks in a different order than on its first render. Hooks must be called unconditionally.",
		DocURL:   "https://vango.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Hook slot type mismatch",
		Detail:   "The value stored in a hook slot has a different type than the hook reading it. This usually means hooks were called conditionally.",
		DocURL:   "https://vango.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Render loop limit exceeded",
		Detail:   "Commits kept scheduling new renders. An effect or store listener is most likely changing state on every commit.",
		DocURL:   "https://vango.dev/docs/errors/E004",
	},

	// ============================================
	// Store Errors (S001-S099)
	// ============================================

	"S001": {
		Category: CategoryStore,
		Message:  "Store used outside its provider",
		Detail:   "A consumer read a store but no ancestor component rendered the matching provider.",
		DocURL:   "https://vango.dev/docs/errors/S001",
	},
	"S002": {
		Category: CategoryStore,
		Message:  "Invalid provider ref",
		Detail:   "A provider ref must be nil, a func receiving the value, or a value with a Set method accepting the value.",
		DocURL:   "https://vango.dev/docs/errors/S002",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryStore   Category = "store"
)

// VangoError is a structured error with a code, an explanation and a hint.
type VangoError struct {
	// Code is a unique error identifier (e.g., "S001").
	Code string

	// Category is the error type (runtime, store).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Component names the component that was rendering, if any.
	Component string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *VangoError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *VangoError) Unwrap() error {
	return e.Wrapped
}

// WithDetail replaces the detailed explanation.
func (e *VangoError) WithDetail(d string) *VangoError {
	e.Detail = d
	return e
}

// WithDetailf replaces the detailed explanation with a formatted one.
func (e *VangoError) WithDetailf(format string, args ...any) *VangoError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithComponent records the component that was rendering.
func (e *VangoError) WithComponent(name string) *VangoError {
	e.Component = name
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *VangoError) WithSuggestion(s string) *VangoError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *VangoError) Wrap(err error) *VangoError {
	e.Wrapped = err
	return e
}

// New creates a VangoError from a registered error code.
func New(code string) *VangoError {
	template, ok := registry[code]
	if !ok {
		return &VangoError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &VangoError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// FromPanic converts a recovered panic value into an error.
// Error values are returned unchanged so errors.Is keeps matching.
func FromPanic(r any) error {
	switch v := r.(type) {
	case nil:
		return nil
	case error:
		return v
	default:
		return &VangoError{
			Category: CategoryRuntime,
			Message:  fmt.Sprint(v),
		}
	}
}

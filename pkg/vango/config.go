package vango

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DebugMode enables dev-time validation like hook order checking.
// This should be set at startup and not changed during runtime.
var DebugMode bool

// defaultTracerName is the instrumentation name used when no tracer is given.
const defaultTracerName = "vango"

// DefaultMaxPasses bounds the number of render passes a single Flush may
// perform, and the number of synchronous re-renders a tearing check may
// trigger within one pass.
const DefaultMaxPasses = 100

// RootConfig configures a Root.
type RootConfig struct {
	// Logger receives flush and abort diagnostics.
	// Default: slog.Default().With("component", "vango")
	Logger *slog.Logger

	// Tracer creates the vango.flush, vango.render_pass and vango.commit spans.
	// Default: otel.Tracer("vango")
	Tracer trace.Tracer

	// MaxPasses bounds render passes per Flush (default: DefaultMaxPasses).
	MaxPasses int

	// Yield, if set, runs between two component renders of the same pass.
	// It models a host that interrupts rendering to let other work run.
	Yield func()
}

// RootOption configures a Root.
type RootOption func(*RootConfig)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RootOption {
	return func(c *RootConfig) {
		c.Logger = logger
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer trace.Tracer) RootOption {
	return func(c *RootConfig) {
		c.Tracer = tracer
	}
}

// WithMaxPasses sets the render pass limit.
func WithMaxPasses(n int) RootOption {
	return func(c *RootConfig) {
		c.MaxPasses = n
	}
}

// WithYield sets the callback run between component renders.
func WithYield(fn func()) RootOption {
	return func(c *RootConfig) {
		c.Yield = fn
	}
}

// defaultRootConfig returns the default root configuration.
func defaultRootConfig() RootConfig {
	return RootConfig{
		Logger:    slog.Default().With("component", "vango"),
		Tracer:    otel.Tracer(defaultTracerName),
		MaxPasses: DefaultMaxPasses,
	}
}

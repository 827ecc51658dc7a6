package store

import (
	"log/slog"
	"reflect"

	"github.com/vango-dev/vango-store/pkg/shallow"
)

// Strategy selects how consumers keep their reads in sync with the store.
type Strategy uint8

const (
	// TearingSafe reads through vango.UseSyncExternalStore. Every consumer
	// of a commit shows the same store value, even when the store moves
	// while a render pass is in progress. This is the default.
	TearingSafe Strategy = iota

	// ForceUpdate subscribes each consumer to the store and, after each
	// commit that changed the store, recomputes the selection and forces
	// a re-render when it differs.
	//
	// It is weaker than TearingSafe: a consumer that renders in the same
	// pass as its provider still shows the selection of the previous
	// value until the following pass, and a store change that lands in the
	// middle of a pass can commit consumers showing different values.
	ForceUpdate
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case TearingSafe:
		return "tearing_safe"
	case ForceUpdate:
		return "force_update"
	default:
		return "unknown"
	}
}

// Config configures a store type created by Create or New.
type Config struct {
	// Name identifies the store in logs, errors and metrics.
	// Default: the Go type name of the store value.
	Name string

	// Strategy selects the consumer synchronization strategy.
	// Default: TearingSafe.
	Strategy Strategy

	// Comparator decides whether a recomputed selection equals the cached
	// one. Select uses it; SelectFunc overrides it per call.
	// Default: shallow.Equal.
	Comparator func(a, b any) bool

	// Observer receives store lifecycle and selection events.
	// Default: NopObserver.
	Observer Observer

	// Logger receives debug diagnostics.
	// Default: slog.Default().With("component", "store")
	Logger *slog.Logger
}

// DefaultConfig returns a Config with defaults applied, except Name which
// depends on the value type.
func DefaultConfig() Config {
	return Config{
		Strategy:   TearingSafe,
		Comparator: shallow.Equal,
		Observer:   NopObserver{},
		Logger:     slog.Default().With("component", "store"),
	}
}

// Option configures a store type.
type Option func(*Config)

// WithName sets the store name.
func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithStrategy sets the consumer synchronization strategy.
func WithStrategy(s Strategy) Option {
	return func(c *Config) {
		c.Strategy = s
	}
}

// WithComparator sets the default selection comparator.
func WithComparator(eq func(a, b any) bool) Option {
	return func(c *Config) {
		c.Comparator = eq
	}
}

// WithObserver sets the event observer. Use Observers to combine several.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func newConfig[V any](opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Name == "" {
		cfg.Name = reflect.TypeOf((*V)(nil)).Elem().String()
	}
	if cfg.Comparator == nil {
		cfg.Comparator = shallow.Equal
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default().With("component", "store")
	}
	return cfg
}

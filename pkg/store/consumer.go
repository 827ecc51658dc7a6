package store

import (
	verrors "github.com/vango-dev/vango-store/internal/errors"
	"github.com/vango-dev/vango-store/pkg/shallow"
	"github.com/vango-dev/vango-store/pkg/vango"
)

// Use returns the whole value of the nearest provider's store and keeps
// the rendering component subscribed to it. The component renders again
// whenever a published value is not Identical to the one it showed.
//
// Use is a hook. It panics with an error wrapping ErrUnboundStore when no
// provider of this store type is above the rendering component.
func (c *Consumer[V]) Use() V {
	st := c.lookup()
	if c.cfg.Strategy == TearingSafe {
		return vango.UseSyncExternalStore(st.Subscribe, st.Get)
	}
	return forceUpdate[V, V]{}.read(st, identity[V], shallow.IdenticalOf[V]())
}

// Store returns the nearest provider's store without subscribing to it.
// It panics like Use when no provider is in scope.
func (c *Consumer[V]) Store() *Store[V] {
	return c.lookup()
}

// Select returns sel applied to the nearest provider's value.
//
// The selection is recomputed only when the store's value changes, and a
// recomputed selection that is shallow-equal to the previous one (per the
// store's comparator, shallow.Equal by default) is discarded in favor of
// the previous one. The component renders again only when the selection
// it showed is replaced.
//
// sel must be pure. A selector that returns a new, unequal value on every
// call makes the consumer render on every store change.
func Select[V, S any](c *Consumer[V], sel func(V) S) S {
	eq := c.cfg.Comparator
	return SelectFunc(c, sel, func(a, b S) bool { return eq(a, b) })
}

// SelectFunc is Select with a caller-supplied comparator.
func SelectFunc[V, S any](c *Consumer[V], sel func(V) S, eq shallow.Comparator[S]) S {
	st := c.lookup()
	return bridgeFor[V, S](c.cfg.Strategy).read(st, sel, eq)
}

func (c *Consumer[V]) lookup() *Store[V] {
	comp := vango.Current()
	if comp == nil {
		panic(verrors.New("S001").
			WithDetailf("store %s read outside component render", c.cfg.Name).
			Wrap(ErrUnboundStore))
	}

	st, ok := c.scope.Lookup()
	if !ok || st == nil {
		panic(verrors.New("S001").
			WithDetailf("no %s provider above %s", c.cfg.Name, comp.Name()).
			WithComponent(comp.Name()).
			WithSuggestion("Render the store's Provider in an ancestor of this component.").
			Wrap(ErrUnboundStore))
	}
	return st
}

func identity[V any](v V) V { return v }

// Package store shares one value across a subtree of vango components.
//
// Create returns a Provider and a Consumer bound to a private store type.
// Each mounted provider owns one Store for its whole lifetime. On every
// render it runs its producer, stages the result in the store, and
// publishes it to the store's listeners after the render commits.
// Consumers below it read the whole value with Use or a derived slice with
// Select:
//
//	type Todos struct {
//	    Items  []string
//	    Filter string
//	}
//
//	todosProvider, todos := store.New(func() *Todos {
//	    items := vango.NewSignal([]string{})
//	    filter := vango.NewSignal("all")
//	    return vango.UseMemo(func() *Todos {
//	        return &Todos{Items: items.Get(), Filter: filter.Get()}
//	    }, items.Get(), filter.Get())
//	})
//
//	root := vango.NewRoot()
//	app := todosProvider.Mount(root, nil, "App", nil)
//	root.Mount(app, "Counter", func() {
//	    n := store.Select(todos, func(t *Todos) int { return len(t.Items) })
//	    _ = n
//	})
//
// # Selections
//
// A selection is recomputed only when the store value changes, and a
// recomputed selection that is shallow-equal to the previous one is
// dropped in favor of the previous one. Consumers therefore keep the same
// selection, and skip re-rendering, across provider updates that do not
// touch what they selected.
//
// # Strategies
//
// TearingSafe, the default, reads through vango.UseSyncExternalStore:
// every commit shows one store value across all consumers, even when the
// store changes in the middle of a render pass. ForceUpdate recomputes
// selections after commits and forces re-renders through a version
// signal; it can show stale or mixed values for one pass and exists for
// hosts without a consistent-read primitive.
//
// # Errors
//
// Reading a consumer with no provider above it panics with an error
// wrapping ErrUnboundStore. Passing a provider a ref that is neither a
// func(V) nor a RefTarget[V] panics with an error wrapping ErrInvalidRef.
// Both are programmer errors and surface through vango.Root.Flush.
package store

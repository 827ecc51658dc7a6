// Package vango provides the component runtime the stores plug into.
//
// A Root owns a tree of Components. Each Component has an Owner: the scope
// that holds its hook state, its context values and its commit effects.
// Components re-render only when marked dirty, and a Flush turns the dirty
// set into render passes followed by commits.
//
// # Rendering and committing
//
//	root := vango.NewRoot()
//	app := root.Mount(nil, "App", func() {
//	    count := vango.NewSignal(0)
//	    vango.UseEffect(func() vango.Cleanup {
//	        fmt.Println("committed", count.Get())
//	        return nil
//	    }, count.Peek())
//	})
//	if err := root.Flush(); err != nil {
//	    // a render panicked; nothing from that pass was committed
//	}
//
// A render pass renders parents before children. Once every component of
// the pass has rendered, the snapshots read through UseSyncExternalStore
// are checked again and components whose snapshot moved are re-rendered
// synchronously. Only then does the pass commit: effects run children
// first, followed by the callbacks queued with DeferUntilCommit.
//
// # Hooks
//
// NewSignal, NewRef, UseMemo, UseEffect, OnMount, OnUnmount and
// UseSyncExternalStore are hooks. They keep their state in per-component
// slots and must be called unconditionally, in the same order, on every
// render. With DebugMode set, a changed hook order panics.
//
// # Context
//
// Context[T] passes values down the tree: Provide stores a value on the
// rendering component's scope and Use or Lookup find the nearest ancestor
// that provided one.
//
// # Thread Safety
//
// Signals, refs and MarkDirty can be used from any goroutine. The tracking
// context is per-goroutine, so a render only ever observes its own
// component. Flush must not be called concurrently with itself; a nested
// call returns immediately.
package vango

package vango

import (
	"sync/atomic"

	"github.com/vango-dev/vango-store/pkg/shallow"
)

// Effect is a commit-time side effect owned by a component.
//
// An effect is declared during render and runs after the render pass that
// declared it commits. It re-runs only after commits whose render supplied
// dependencies that are not Identical, element by element, to the ones of
// its last run. The Cleanup it returns runs before the next run and when
// the owning component unmounts.
type Effect struct {
	id uint64

	// fn is the effect function from the latest render.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// deps are the dependencies of the last committed run.
	deps []any

	// next are the dependencies supplied by the latest render.
	next []any

	// always makes the effect run after every commit of its component.
	always bool

	// ran is true once the effect has run at least once.
	ran bool

	// owner is the Owner that owns this effect.
	owner *Owner

	// pending indicates the effect is scheduled to run at the next commit.
	pending atomic.Bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// schedule queues the effect for the next commit.
func (e *Effect) schedule() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) {
		e.owner.scheduleEffect(e)
	}
}

// run executes the effect function.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.deps = e.next
	e.ran = true
	e.cleanup = e.fn()
}

// dispose runs the last cleanup and prevents further runs.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	e.pending.Store(false)
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// UseEffect declares a commit-time side effect for the rendering component.
//
// With no deps the effect runs after every commit of the component.
// With deps it runs after the first commit and after every commit whose
// deps differ from those of its previous run.
//
// This is a hook: it MUST be called unconditionally during render.
//
// Example:
//
//	vango.UseEffect(func() vango.Cleanup {
//	    unsubscribe := feed.Subscribe(onMessage)
//	    return unsubscribe
//	}, feed)
func UseEffect(fn func() Cleanup, deps ...any) {
	owner, _ := requireRender("UseEffect")
	owner.TrackHook(HookEffect)
	useEffect(owner, fn, deps, deps == nil)
}

// OnMount runs fn after the component's first commit.
func OnMount(fn func()) {
	owner, _ := requireRender("OnMount")
	owner.TrackHook(HookEffect)
	useEffect(owner, func() Cleanup {
		fn()
		return nil
	}, []any{}, false)
}

// OnUnmount registers a function to run when the rendering component
// unmounts. Registration happens once per component instance.
func OnUnmount(fn func()) {
	owner, _ := requireRender("OnUnmount")
	owner.TrackHook(HookEffect)
	useEffect(owner, func() Cleanup {
		return fn
	}, []any{}, false)
}

func useEffect(owner *Owner, fn func() Cleanup, deps []any, always bool) *Effect {
	e := useSlot(owner, func() *Effect {
		e := &Effect{id: nextID(), owner: owner}
		owner.registerEffect(e)
		return e
	})

	e.fn = fn
	e.always = always
	e.next = append([]any(nil), deps...)

	if !e.ran || e.always || depsChanged(e.deps, e.next) {
		e.schedule()
	}
	return e
}

// depsChanged reports whether two dependency lists differ.
func depsChanged(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if !shallow.Identical(prev[i], next[i]) {
			return true
		}
	}
	return false
}

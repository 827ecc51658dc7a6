package store

import (
	"sync"

	"github.com/vango-dev/vango-store/pkg/shallow"
	"github.com/vango-dev/vango-store/pkg/vango"
)

// syncBridge connects a rendering consumer to a store: it returns the
// selection to render and arranges for the consumer to render again when
// the selection changes. read is called during render and uses hooks.
type syncBridge[V, S any] interface {
	read(st *Store[V], sel func(V) S, eq shallow.Comparator[S]) S
}

func bridgeFor[V, S any](s Strategy) syncBridge[V, S] {
	if s == ForceUpdate {
		return forceUpdate[V, S]{}
	}
	return tearingSafe[V, S]{}
}

// tearingSafe reads through vango.UseSyncExternalStore. The snapshot
// function depends only on the consumer's cache and the store's current
// value, so the runtime may call it as often as it needs to.
type tearingSafe[V, S any] struct{}

func (tearingSafe[V, S]) read(st *Store[V], sel func(V) S, eq shallow.Comparator[S]) S {
	cache := vango.UseMemo(func() *snapshotCache[V, S] {
		return &snapshotCache[V, S]{}
	}, st)

	getSnapshot := func() S {
		selected, outcome, replaced := cache.read(st.Get(), sel, eq)
		st.reportRead(outcome)
		if replaced {
			st.observer.ConsumerInvalidated(st.name, TearingSafe)
		}
		return selected
	}

	return vango.UseSyncExternalStore(st.Subscribe, getSnapshot)
}

// forceState is the per-consumer state of the ForceUpdate bridge.
type forceState[V, S any] struct {
	mu       sync.Mutex
	root     V
	selected S
	ok       bool
}

// forceUpdate keeps a cached selection that is refreshed after commits and
// on store notifications. A refreshed selection that differs bumps a
// version signal the consumer reads, which schedules its re-render.
type forceUpdate[V, S any] struct{}

func (forceUpdate[V, S]) read(st *Store[V], sel func(V) S, eq shallow.Comparator[S]) S {
	version := vango.NewSignal(0)
	state := vango.UseMemo(func() *forceState[V, S] {
		root := st.Get()
		return &forceState[V, S]{root: root, selected: sel(root), ok: true}
	}, st)

	check := func() {
		root := st.Get()

		state.mu.Lock()
		if shallow.Identical(state.root, root) {
			state.mu.Unlock()
			st.reportRead(OutcomeCached)
			return
		}
		state.root = root
		next := sel(root)
		if eq(next, state.selected) {
			state.mu.Unlock()
			st.reportRead(OutcomeReused)
			return
		}
		state.selected = next
		state.mu.Unlock()

		st.reportRead(OutcomeChanged)
		st.observer.ConsumerInvalidated(st.name, ForceUpdate)
		version.Update(func(n int) int { return n + 1 })
	}

	// Runs after every commit of the consumer.
	vango.UseEffect(func() vango.Cleanup {
		check()
		return nil
	})

	vango.UseEffect(func() vango.Cleanup {
		return vango.Cleanup(st.Subscribe(check))
	}, st)

	v := version.Get()
	return vango.UseMemo(func() S {
		state.mu.Lock()
		defer state.mu.Unlock()
		return state.selected
	}, v)
}

// reportRead passes a selection read to the observer. Identity hits outside
// a render only re-validate a snapshot (pre-commit checks, notifications,
// commit effects) and are not reported.
func (s *Store[V]) reportRead(outcome Outcome) {
	if outcome == OutcomeCached && !vango.IsRendering() {
		return
	}
	s.observer.SelectorEvaluated(s.name, outcome)
}

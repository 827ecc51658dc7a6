package vango

import (
	"sync"

	"github.com/vango-dev/vango-store/pkg/shallow"
)

// externalStore is the hook state behind UseSyncExternalStore.
type externalStore[T any] struct {
	mu sync.Mutex

	// committed is the snapshot the last commit of the component showed.
	committed T

	// getSnapshot is the snapshot function of the last commit.
	getSnapshot func() T
}

func (s *externalStore[T]) commit(value T, getSnapshot func() T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed = value
	s.getSnapshot = getSnapshot
}

// changed reports whether the store moved past the committed snapshot.
func (s *externalStore[T]) changed() bool {
	s.mu.Lock()
	getSnapshot := s.getSnapshot
	committed := s.committed
	s.mu.Unlock()

	if getSnapshot == nil {
		return false
	}
	return !shallow.Identical(getSnapshot(), committed)
}

// UseSyncExternalStore reads a snapshot of a store that lives outside the
// runtime and keeps the component in sync with it without tearing.
//
// getSnapshot is called during render and must return Identical values for
// as long as the store does not change. subscribe is called once, at the
// component's first commit; it registers onChange with the store and
// returns the matching unsubscribe, which runs when the component unmounts.
//
// Guarantees:
//   - A notification that yields a snapshot not Identical to the committed
//     one re-renders the component.
//   - A change that lands between render and subscribe is caught at
//     subscribe time.
//   - Before every commit the runtime re-reads each snapshot used by the
//     tree and synchronously re-renders the components whose snapshot moved,
//     so no commit shows two snapshots of the same store.
//
// This is a hook: it MUST be called unconditionally during render.
func UseSyncExternalStore[T any](subscribe func(onChange func()) func(), getSnapshot func() T) T {
	owner, comp := requireRender("UseSyncExternalStore")
	owner.TrackHook(HookExternalStore)

	slot := useSlot(owner, func() *externalStore[T] {
		return &externalStore[T]{}
	})

	value := getSnapshot()

	comp.addSnapshotCheck(func() bool {
		return shallow.Identical(getSnapshot(), value)
	})

	useEffect(owner, func() Cleanup {
		slot.commit(value, getSnapshot)
		return nil
	}, nil, true)

	useEffect(owner, func() Cleanup {
		onChange := func() {
			if slot.changed() {
				comp.MarkDirty()
			}
		}
		unsubscribe := subscribe(onChange)
		onChange()
		return Cleanup(unsubscribe)
	}, []any{}, false)

	return value
}

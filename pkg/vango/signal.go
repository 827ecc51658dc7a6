package vango

import (
	"sync"

	"github.com/vango-dev/vango-store/pkg/shallow"
)

type signalBase struct {
	id uint64

	subMu sync.RWMutex
	subs  []Listener
}

// subscribe adds l unless a listener with the same ID is already
// subscribed, and reports whether it was added.
func (s *signalBase) subscribe(l Listener) bool {
	if l == nil {
		return false
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return false
		}
	}

	s.subs = append(s.subs, l)
	return true
}

func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs[i] = s.subs[len(s.subs)-1]
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

// notifySubscribers marks every subscriber dirty. MarkDirty may subscribe
// or unsubscribe, so it is called without subMu held.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// Signal is a reactive value container.
// Reading a Signal's value while a component renders subscribes that
// component; setting a different value marks every subscriber dirty.
type Signal[T any] struct {
	base signalBase

	mu    sync.RWMutex
	value T

	// equal decides whether Set changes the value. nil means shallow.Identical.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
//
// Called during render it is a hook: the same Signal is returned on every
// render of the component and initial is only used the first time.
func NewSignal[T any](initial T) *Signal[T] {
	if owner := getCurrentOwner(); owner != nil && isInRender() {
		owner.TrackHook(HookSignal)
		return useSlot(owner, func() *Signal[T] {
			return newSignal(initial)
		})
	}
	return newSignal(initial)
}

func newSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base: signalBase{
			id: nextID(),
		},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	if listener := getCurrentListener(); listener != nil && s.base.subscribe(listener) {
		// A rendering component stays subscribed until it unmounts.
		if c := getCurrentComponent(); c != nil && Listener(c) == listener {
			c.owner.OnCleanup(func() { s.Unsubscribe(c) })
		}
	}

	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and marks subscribers dirty unless it equals the current one.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Update replaces the value with fn(current) under the signal's lock.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Unsubscribe removes l from the signal's subscribers.
func (s *Signal[T]) Unsubscribe(l Listener) {
	s.base.unsubscribe(l)
}

// WithEquals returns the signal configured with a custom equality function.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return shallow.Identical(a, b)
}

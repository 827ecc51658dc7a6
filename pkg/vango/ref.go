package vango

import "sync"

// Ref holds a mutable reference to a value that survives re-renders
// without scheduling them.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	isSet bool
	mu    sync.RWMutex
}

// NewRef creates a new Ref with the given initial value.
//
// Called during render it is a hook and MUST be called unconditionally:
// the same Ref is returned on every render of the component.
//
// Example:
//
//	handle := vango.NewRef[*store.Store[Todo]](nil)
//	provider.Render(store.Props[Options, Todo]{Ref: handle})
func NewRef[T any](initial T) *Ref[T] {
	if owner := getCurrentOwner(); owner != nil && isInRender() {
		owner.TrackHook(HookRef)
		return useSlot(owner, func() *Ref[T] {
			return &Ref[T]{value: initial}
		})
	}
	return &Ref[T]{value: initial}
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set sets the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
	r.isSet = true
}

// IsSet returns true if the ref has been set since creation or the last Clear.
func (r *Ref[T]) IsSet() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isSet
}

// Clear resets the ref to its zero value.
func (r *Ref[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.value = zero
	r.isSet = false
}

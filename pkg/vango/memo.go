package vango

// memoSlot is the hook state behind UseMemo.
type memoSlot[T any] struct {
	value T
	deps  []any
	valid bool
}

// UseMemo returns the result of compute, recomputing it only when deps
// differ from those of the previous render. With no deps the value is
// computed once per component instance.
//
// compute runs untracked: signal reads inside it do not subscribe the
// rendering component.
//
// This is a hook: it MUST be called unconditionally during render.
//
// Example:
//
//	sorted := vango.UseMemo(func() []Item {
//	    return sortItems(items)
//	}, items)
func UseMemo[T any](compute func() T, deps ...any) T {
	owner, _ := requireRender("UseMemo")
	owner.TrackHook(HookMemo)

	slot := useSlot(owner, func() *memoSlot[T] {
		return &memoSlot[T]{}
	})

	if !slot.valid || depsChanged(slot.deps, deps) {
		var value T
		Untracked(func() {
			value = compute()
		})
		slot.value = value
		slot.deps = append([]any(nil), deps...)
		slot.valid = true
	}
	return slot.value
}

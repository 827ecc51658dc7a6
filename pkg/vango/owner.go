package vango

import (
	"sync"
	"sync/atomic"

	verrors "github.com/vango-dev/vango-store/internal/errors"
)

// HookType is the kind of hook a component called, recorded in debug mode.
type HookType uint8

const (
	HookSignal HookType = iota + 1
	HookMemo
	HookEffect
	HookRef
	HookContext
	HookExternalStore
)

func (h HookType) String() string {
	switch h {
	case HookSignal:
		return "Signal"
	case HookMemo:
		return "Memo"
	case HookEffect:
		return "Effect"
	case HookRef:
		return "Ref"
	case HookContext:
		return "Context"
	case HookExternalStore:
		return "ExternalStore"
	default:
		return "Unknown"
	}
}

// Owner holds the state a mounted component keeps between renders: its hook
// slots, effects, cleanups and provided values. Owners mirror the component
// tree, and disposing one tears down its whole subtree.
type Owner struct {
	id     uint64
	parent *Owner

	childrenMu sync.Mutex
	children   []*Owner

	effectsMu sync.Mutex
	effects   []*Effect

	cleanupsMu sync.Mutex
	cleanups   []func()

	// pendingEffects run at the next commit unless the pass is discarded.
	pendingEffectsMu sync.Mutex
	pendingEffects   []*Effect

	valuesMu sync.RWMutex
	values   map[any]any

	disposed atomic.Bool

	// hookOrder is the sequence of hook kinds seen on the first render.
	// Only kept when DebugMode is set.
	hookOrder   []HookType
	hookIndex   int
	renderCount int

	hookSlots   []any
	hookSlotIdx int
}

// NewOwner creates an Owner under parent. A nil parent makes a root.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether Dispose has run.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) childrenSnapshot() []*Owner {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	return children
}

func (o *Owner) registerEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.effectsMu.Lock()
	defer o.effectsMu.Unlock()
	o.effects = append(o.effects, e)
}

// OnCleanup registers fn to run when the owner is disposed. Cleanups run
// in reverse registration order; on a disposed owner fn runs at once.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) scheduleEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.pendingEffectsMu.Lock()
	defer o.pendingEffectsMu.Unlock()
	o.pendingEffects = append(o.pendingEffects, e)
}

// RunPendingEffects executes all pending effects of this owner and its
// descendants. Descendants run first, in the order a tree is painted, so
// a provider's effects observe subscriptions its children made in the
// same commit.
func (o *Owner) RunPendingEffects() {
	if o.disposed.Load() {
		return
	}

	for _, child := range o.childrenSnapshot() {
		child.RunPendingEffects()
	}

	o.pendingEffectsMu.Lock()
	effects := o.pendingEffects
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()

	for _, e := range effects {
		if e.pending.Load() {
			e.run()
		}
	}
}

// discardPendingEffects drops every scheduled effect in this subtree.
// Used when a render pass is aborted: nothing it scheduled may run.
func (o *Owner) discardPendingEffects() {
	o.pendingEffectsMu.Lock()
	effects := o.pendingEffects
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()

	for _, e := range effects {
		e.pending.Store(false)
	}

	for _, child := range o.childrenSnapshot() {
		child.discardPendingEffects()
	}
}

// Dispose unmounts the subtree: children last-created first, then this
// owner's effects, then its cleanups. Later calls do nothing.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := o.children
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.effectsMu.Lock()
	effects := o.effects
	o.effects = nil
	o.effectsMu.Unlock()

	for _, e := range effects {
		e.dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	o.pendingEffectsMu.Lock()
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()
}

// StartRender marks the start of a render of the owning component and
// rewinds its hook slots.
func (o *Owner) StartRender() {
	beginRender()

	o.hookSlotIdx = 0

	if DebugMode {
		o.hookIndex = 0
	}
}

// EndRender marks the end of the render. In debug mode a render that
// called fewer hooks than the first one panics with ErrHookOrder.
func (o *Owner) EndRender() {
	endRender()

	if !DebugMode {
		return
	}
	if o.renderCount == 0 {
		o.renderCount = 1
	} else if o.hookIndex < len(o.hookOrder) {
		panic(verrors.New("E002").
			WithDetailf("expected %d hooks, got %d", len(o.hookOrder), o.hookIndex).
			Wrap(ErrHookOrder))
	}
}

// abortRender unwinds a render that panicked. A first render that never
// completed leaves no hook state behind.
func (o *Owner) abortRender(firstRender bool) {
	endRender()
	if firstRender {
		o.hookSlots = nil
		o.hookOrder = nil
		o.renderCount = 0
	}
}

// TrackHook notes that the render called a hook of kind ht. In debug mode
// a kind that differs from the first render's panics with ErrHookOrder.
func (o *Owner) TrackHook(ht HookType) {
	if !DebugMode {
		return
	}

	if o.renderCount == 0 {
		o.hookOrder = append(o.hookOrder, ht)
	} else {
		if o.hookIndex >= len(o.hookOrder) {
			panic(verrors.New("E002").
				WithDetailf("extra %s hook at index %d", ht, o.hookIndex).
				Wrap(ErrHookOrder))
		}
		if want := o.hookOrder[o.hookIndex]; want != ht {
			panic(verrors.New("E002").
				WithDetailf("at index %d: expected %s, got %s", o.hookIndex, want, ht).
				Wrap(ErrHookOrder))
		}
	}
	o.hookIndex++
}

// UseHookSlot advances to the next hook slot and returns what it holds,
// or nil if the slot has not been filled yet.
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++

	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot fills the slot UseHookSlot just returned nil for.
func (o *Owner) SetHookSlot(value any) {
	o.hookSlots = append(o.hookSlots, value)
}

// useSlot returns the slot value for the current hook, creating it with
// create on first render.
func useSlot[T any](o *Owner, create func() T) T {
	if slot := o.UseHookSlot(); slot != nil {
		v, ok := slot.(T)
		if !ok {
			panic(verrors.New("E003").
				WithDetailf("slot %d holds %T", o.hookSlotIdx-1, slot).
				Wrap(ErrHookSlotType))
		}
		return v
	}
	v := create()
	o.SetHookSlot(v)
	return v
}

// requireRender returns the rendering owner and component, panicking when
// hook is called outside of a component render.
func requireRender(hook string) (*Owner, *Component) {
	comp := getCurrentComponent()
	owner := getCurrentOwner()
	if comp == nil || owner == nil || !isInRender() {
		panic(verrors.New("E001").
			WithDetailf("%s called outside component render", hook).
			Wrap(ErrOutsideRender))
	}
	return owner, comp
}

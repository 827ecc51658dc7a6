package vango

import (
	"runtime"
	"sync"
)

// TrackingContext holds the reactive state for a goroutine.
// Each goroutine has its own tracking context so that a render on one
// goroutine never observes the owner or listener of another.
type TrackingContext struct {
	// currentOwner is the Owner that hooks called now will attach to.
	// Set during component rendering to establish ownership hierarchy.
	currentOwner *Owner

	// currentListener is what's currently tracking dependencies.
	// When a signal is read, it subscribes this listener.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener

	// currentComponent is the component whose render function is running.
	currentComponent *Component

	// renderDepth counts nested render phases on this goroutine.
	renderDepth int
}

// trackingContexts maps goroutine IDs to their *TrackingContext. Entries
// exist only while a goroutine has a listener, owner or render in flight.
var trackingContexts sync.Map

// getGoroutineID parses the current goroutine's ID from its stack header.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> "
	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it if needed. Callers that change it must hand it back with
// releaseTrackingContext.
func getTrackingContext() *TrackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// lookupTrackingContext returns the current goroutine's context without
// creating one. nil means the goroutine holds no tracking state.
func lookupTrackingContext() *TrackingContext {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*TrackingContext)
	}
	return nil
}

// releaseTrackingContext drops ctx from the goroutine map once it holds no
// state, so goroutines that exit leave nothing behind.
func releaseTrackingContext(ctx *TrackingContext) {
	if ctx.idle() {
		trackingContexts.CompareAndDelete(getGoroutineID(), ctx)
	}
}

func (ctx *TrackingContext) idle() bool {
	return ctx.currentOwner == nil &&
		ctx.currentListener == nil &&
		ctx.currentComponent == nil &&
		ctx.renderDepth == 0
}

// getCurrentListener returns the current listener being tracked.
// Returns nil if no tracking is active.
func getCurrentListener() Listener {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentListener
	}
	return nil
}

// setCurrentListener sets the current listener for dependency tracking.
// Returns the previous listener so it can be restored.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	releaseTrackingContext(ctx)
	return old
}

// getCurrentOwner returns the current owner for the goroutine.
// Returns nil if no owner context is set.
func getCurrentOwner() *Owner {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentOwner
	}
	return nil
}

// setCurrentOwner sets the current owner for hook calls.
// Returns the previous owner so it can be restored.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	releaseTrackingContext(ctx)
	return old
}

// getCurrentComponent returns the component rendering on this goroutine.
func getCurrentComponent() *Component {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentComponent
	}
	return nil
}

func beginRender() {
	getTrackingContext().renderDepth++
}

func endRender() {
	ctx := lookupTrackingContext()
	if ctx == nil {
		return
	}
	if ctx.renderDepth > 0 {
		ctx.renderDepth--
	}
	releaseTrackingContext(ctx)
}

// isInRender reports whether this goroutine is inside a render phase.
func isInRender() bool {
	ctx := lookupTrackingContext()
	return ctx != nil && ctx.renderDepth > 0
}

// IsRendering reports whether the calling goroutine is rendering a component.
func IsRendering() bool {
	return isInRender() && getCurrentComponent() != nil
}

// WithListener runs a function with the specified listener for tracking.
// This is used internally to set up dependency tracking during rendering.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// Untracked runs a function without tracking signal reads as dependencies.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// withComponent installs c as the rendering component for the duration of fn.
func withComponent(c *Component, fn func()) {
	ctx := getTrackingContext()
	oldOwner, oldListener, oldComp := ctx.currentOwner, ctx.currentListener, ctx.currentComponent
	ctx.currentOwner, ctx.currentListener, ctx.currentComponent = c.owner, c, c
	defer func() {
		ctx.currentOwner, ctx.currentListener, ctx.currentComponent = oldOwner, oldListener, oldComp
		releaseTrackingContext(ctx)
	}()
	fn()
}

package vango

import "errors"

// ErrOutsideRender is wrapped by the panic raised when a hook is called
// while no component is rendering on the calling goroutine.
var ErrOutsideRender = errors.New("vango: hook called outside component render")

// ErrHookOrder is wrapped by the panic raised in DebugMode when a component
// calls its hooks in a different order than on its first render.
var ErrHookOrder = errors.New("vango: hook order changed")

// ErrHookSlotType is wrapped by the panic raised when a hook slot holds a
// value of a different type than the hook reading it.
var ErrHookSlotType = errors.New("vango: hook slot type mismatch")

// ErrRenderLoop is returned by Root.Flush when commits keep scheduling
// renders beyond the configured pass limit.
var ErrRenderLoop = errors.New("vango: render loop limit exceeded")

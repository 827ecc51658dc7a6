package vango

import "sync/atomic"

// globalIDCounter is the source of unique IDs for owners, components,
// effects and signals.
var globalIDCounter atomic.Uint64

// nextID returns the next unique ID. IDs are monotonically increasing and
// never reused.
func nextID() uint64 {
	return globalIDCounter.Add(1)
}

// NextID returns a fresh identifier from the same sequence the runtime uses,
// for packages that register their own Listener implementations.
func NextID() uint64 {
	return nextID()
}

package store

import (
	"sync"

	"github.com/vango-dev/vango-store/pkg/shallow"
)

// Outcome describes how a selection read was served.
type Outcome uint8

const (
	// OutcomeCached means the root was Identical to the cached root and
	// the cached selection was returned without running the selector.
	OutcomeCached Outcome = iota + 1

	// OutcomeReused means the selector ran on a new root and its result
	// equaled the cached selection, so the cached selection was returned.
	OutcomeReused

	// OutcomeChanged means the selector's result replaced the cached
	// selection (or was the first one).
	OutcomeChanged
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCached:
		return "cached"
	case OutcomeReused:
		return "reused"
	case OutcomeChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// snapshotCache pairs the last root a consumer selected from with the
// selection it produced. One cache lives in each consumer.
type snapshotCache[V, S any] struct {
	mu       sync.Mutex
	root     V
	selected S
	ok       bool
}

// read returns the selection for root. The returned selection is the
// cached one whenever root is the cached root or eq deems the recomputed
// selection equal to it. replaced is true when a previously cached
// selection was swapped for a new one.
func (c *snapshotCache[V, S]) read(root V, sel func(V) S, eq shallow.Comparator[S]) (selected S, outcome Outcome, replaced bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ok && shallow.Identical(c.root, root) {
		return c.selected, OutcomeCached, false
	}

	next := sel(root)
	if c.ok && eq(next, c.selected) {
		c.root = root
		return c.selected, OutcomeReused, false
	}

	replaced = c.ok
	c.root, c.selected, c.ok = root, next, true
	return next, OutcomeChanged, replaced
}

// current returns the cached selection.
func (c *snapshotCache[V, S]) current() (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.ok
}

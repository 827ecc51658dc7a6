package vtest

import (
	"sync"
	"testing"

	"github.com/vango-dev/vango-store/pkg/vango"
)

// Tree wraps a vango.Root for tests. It is closed when the test ends.
type Tree struct {
	t    testing.TB
	Root *vango.Root
}

// New creates a Tree with the given root options.
func New(t testing.TB, opts ...vango.RootOption) *Tree {
	t.Helper()
	tr := &Tree{t: t, Root: vango.NewRoot(opts...)}
	t.Cleanup(tr.Root.Close)
	return tr
}

// Mount mounts a component; see vango.Root.Mount.
func (tr *Tree) Mount(parent *vango.Component, name string, render func()) *vango.Component {
	return tr.Root.Mount(parent, name, render)
}

// Flush flushes the tree and fails the test on error.
func (tr *Tree) Flush() {
	tr.t.Helper()
	if err := tr.Root.Flush(); err != nil {
		tr.t.Fatalf("flush: %v", err)
	}
}

// Rerender marks cs dirty and flushes.
func (tr *Tree) Rerender(cs ...*vango.Component) {
	tr.t.Helper()
	for _, c := range cs {
		c.MarkDirty()
	}
	tr.Flush()
}

// Entry is one value a component showed in a commit.
type Entry[T any] struct {
	Commit    uint64
	Component string
	Value     T
}

// Recorder collects the values components commit.
type Recorder[T any] struct {
	mu      sync.Mutex
	entries []Entry[T]
}

// Observe records value as shown by the rendering component once the
// render commits. It is a hook and must be called unconditionally.
func Observe[T any](rec *Recorder[T], value T) {
	comp := vango.Current()
	vango.UseEffect(func() vango.Cleanup {
		rec.add(Entry[T]{
			Commit:    comp.Root().Commits(),
			Component: comp.Name(),
			Value:     value,
		})
		return nil
	})
}

func (r *Recorder[T]) add(e Entry[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns everything recorded so far.
func (r *Recorder[T]) Entries() []Entry[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry[T], len(r.entries))
	copy(out, r.entries)
	return out
}

// Last returns the last value committed by the named component.
func (r *Recorder[T]) Last(component string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].Component == component {
			return r.entries[i].Value, true
		}
	}
	var zero T
	return zero, false
}

// Torn returns the commits in which components showed values that eq
// does not consider equal.
func (r *Recorder[T]) Torn(eq func(a, b T) bool) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	first := make(map[uint64]T)
	seen := make(map[uint64]bool)
	var torn []uint64
	for _, e := range r.entries {
		v, ok := first[e.Commit]
		if !ok {
			first[e.Commit] = e.Value
			continue
		}
		if !eq(v, e.Value) && !seen[e.Commit] {
			seen[e.Commit] = true
			torn = append(torn, e.Commit)
		}
	}
	return torn
}

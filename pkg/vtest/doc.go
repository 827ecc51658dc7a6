// Package vtest provides testing helpers for vango component trees.
//
// The vtest package reduces boilerplate when testing components and
// stores: a Tree wraps a vango.Root that fails the test when a flush
// errors and closes itself when the test ends, and a Recorder captures
// the values components actually committed.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    tree := vtest.New(t)
//	    var rec vtest.Recorder[int]
//
//	    app := counterProvider.Mount(tree.Root, nil, "App", nil)
//	    tree.Mount(app, "Label", func() {
//	        vtest.Observe(&rec, store.Select(counter, func(c *Counter) int {
//	            return c.Count
//	        }))
//	    })
//	    tree.Flush()
//
//	    if n, _ := rec.Last("Label"); n != 0 {
//	        t.Errorf("Label committed %d, want 0", n)
//	    }
//	}
//
// # Tearing
//
// Torn lists the commits in which two components showed different values,
// which is how store tests assert that one update is never half visible:
//
//	if torn := rec.Torn(func(a, b int) bool { return a == b }); len(torn) > 0 {
//	    t.Errorf("torn commits: %v", torn)
//	}
package vtest

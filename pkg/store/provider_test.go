package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/vango-dev/vango-store/internal/errors"
	"github.com/vango-dev/vango-store/pkg/vango"
	"github.com/vango-dev/vango-store/pkg/vtest"
)

type appOptions struct {
	Count int
	Label string
}

type appState struct {
	Count int
	Label string
}

type appView struct {
	Count int
}

var strategies = []Strategy{TearingSafe, ForceUpdate}

// newApp builds a store type whose provider produces a fresh *appState
// from its options on every render.
func newApp(opts ...Option) (*Provider[appOptions, *appState], *Consumer[*appState]) {
	return Create(func(o appOptions) *appState {
		return &appState{Count: o.Count, Label: o.Label}
	}, opts...)
}

func selectView(s *appState) *appView { return &appView{Count: s.Count} }
func selectCount(s *appState) int     { return s.Count }
func selectLabel(s *appState) string  { return s.Label }
func sameInt(a, b int) bool           { return a == b }

func TestReuseSelectionAcrossNewRoots(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			tree := vtest.New(t)
			provider, app := newApp(WithStrategy(strategy))

			var views []*appView
			p := provider.Mount(tree.Root, nil, "provider", nil)
			consumer := tree.Mount(p, "consumer", func() {
				views = append(views, Select(app, selectView))
			})
			tree.Flush()

			// Same contents, new root pointer.
			tree.Rerender(p)
			tree.Rerender(p)

			require.Equal(t, 3, p.Renders())
			assert.Equal(t, 1, consumer.Renders(), "consumer must not re-render")
			require.Len(t, views, 1)
		})
	}
}

func TestOnlyAffectedConsumersRerender(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			tree := vtest.New(t)
			provider, app := newApp(WithStrategy(strategy))

			opts := appOptions{Count: 0, Label: "fixed"}
			var count int
			var label string

			p := provider.Mount(tree.Root, nil, "provider", func() Props[appOptions] {
				return Props[appOptions]{Options: opts}
			})
			counter := tree.Mount(p, "counter", func() {
				count = Select(app, selectCount)
			})
			labeller := tree.Mount(p, "label", func() {
				label = Select(app, selectLabel)
			})
			tree.Flush()

			opts.Count = 1
			tree.Rerender(p)

			assert.Equal(t, 1, count)
			assert.Equal(t, "fixed", label)
			assert.Equal(t, 2, counter.Renders())
			assert.Equal(t, 1, labeller.Renders())
		})
	}
}

func TestProviderInstancesAreIndependent(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			tree := vtest.New(t)
			provider, app := newApp(WithStrategy(strategy))

			optsA := appOptions{Count: 1}
			optsB := appOptions{Count: 10}
			var gotA, gotB int

			pa := provider.Mount(tree.Root, nil, "a", func() Props[appOptions] {
				return Props[appOptions]{Options: optsA}
			})
			pb := provider.Mount(tree.Root, nil, "b", func() Props[appOptions] {
				return Props[appOptions]{Options: optsB}
			})
			ca := tree.Mount(pa, "a-consumer", func() { gotA = Select(app, selectCount) })
			cb := tree.Mount(pb, "b-consumer", func() { gotB = Select(app, selectCount) })
			tree.Flush()
			require.Equal(t, 1, gotA)
			require.Equal(t, 10, gotB)

			optsA.Count = 2
			tree.Rerender(pa)

			assert.Equal(t, 2, gotA)
			assert.Equal(t, 10, gotB)
			assert.Equal(t, 2, ca.Renders())
			assert.Equal(t, 1, cb.Renders(), "the other instance must not be notified")
		})
	}
}

func TestUnboundConsumer(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			root := vango.NewRoot()
			defer root.Close()
			_, app := newApp(WithStrategy(strategy), WithName("app"))

			effects := 0
			root.Mount(nil, "orphan", func() {
				vango.UseEffect(func() vango.Cleanup {
					effects++
					return nil
				})
				Select(app, selectCount)
			})

			err := root.Flush()
			require.ErrorIs(t, err, ErrUnboundStore)
			assert.Equal(t, 0, effects, "no side effect may run")

			var verr *verrors.VangoError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "S001", verr.Code)
			assert.Contains(t, err.Error(), "no app provider above orphan")
		})
	}
}

func TestUnboundOutsideRender(t *testing.T) {
	_, app := newApp()
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		require.ErrorIs(t, err, ErrUnboundStore)
	}()
	app.Use()
}

func TestProviderItselfIsNotInScope(t *testing.T) {
	tree := vtest.New(t)
	provider, app := newApp()

	tree.Mount(nil, "self", func() {
		provider.Render(Props[appOptions]{})
		app.Use()
	})
	require.ErrorIs(t, tree.Root.Flush(), ErrUnboundStore)
}

func TestNotifyOnlyWhenValueChanges(t *testing.T) {
	tree := vtest.New(t)
	obs := newRecordingObserver()

	shared := &appState{Count: 1}
	provider, app := New(func() *appState { return shared }, WithObserver(obs), WithName("shared"))

	var got *appState
	p := provider.Mount(tree.Root, nil, "provider", nil)
	c := tree.Mount(p, "consumer", func() { got = app.Use() })
	tree.Flush()
	require.Same(t, shared, got)

	published := obs.count("published")
	tree.Rerender(p)
	assert.Equal(t, published, obs.count("published"), "same value must not notify")
	assert.Equal(t, 1, c.Renders())

	shared = &appState{Count: 2}
	tree.Rerender(p)
	assert.Equal(t, published+1, obs.count("published"))
	assert.Same(t, shared, got)
}

func TestUnmountDisposesStore(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			tree := vtest.New(t)
			obs := newRecordingObserver()
			provider, app := newApp(WithStrategy(strategy), WithObserver(obs))

			opts := appOptions{}
			var st *Store[*appState]
			p := tree.Mount(nil, "provider", func() {
				st = provider.Render(Props[appOptions]{Options: opts})
			})
			c := tree.Mount(p, "consumer", func() { Select(app, selectCount) })
			tree.Flush()
			require.Equal(t, 1, st.Len())
			require.Equal(t, 1, obs.count("mounted"))

			c.Unmount()
			require.Equal(t, 0, st.Len(), "unmount must remove the consumer's listener")

			opts.Count = 5
			tree.Rerender(p)
			assert.Equal(t, 1, c.Renders())

			p.Unmount()
			assert.Equal(t, 1, obs.count("unmounted"))
			assert.Equal(t, 0, st.Len())
		})
	}
}

func TestSelectFuncComparator(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			tree := vtest.New(t)
			provider, app := newApp(WithStrategy(strategy))

			opts := appOptions{Count: 1}
			p := provider.Mount(tree.Root, nil, "provider", func() Props[appOptions] {
				return Props[appOptions]{Options: opts}
			})

			parity := func(a, b int) bool { return a%2 == b%2 }
			var got int
			c := tree.Mount(p, "consumer", func() {
				got = SelectFunc(app, selectCount, parity)
			})
			tree.Flush()

			opts.Count = 3
			tree.Rerender(p)
			assert.Equal(t, 1, got, "equal parity keeps the old selection")
			assert.Equal(t, 1, c.Renders())

			opts.Count = 4
			tree.Rerender(p)
			assert.Equal(t, 4, got)
			assert.Equal(t, 2, c.Renders())
		})
	}
}

func TestStoreComparatorOption(t *testing.T) {
	tree := vtest.New(t)
	never := func(a, b any) bool { return false }
	provider, app := newApp(WithComparator(never))

	p := provider.Mount(tree.Root, nil, "provider", nil)
	c := tree.Mount(p, "consumer", func() { Select(app, selectView) })
	tree.Flush()

	// A comparator that never matches turns every new root into a render.
	tree.Rerender(p)
	assert.Equal(t, 2, c.Renders())
}

func TestTearingSafeNeverMixesRoots(t *testing.T) {
	var rec vtest.Recorder[int]
	torn := runMidPassUpdate(t, TearingSafe, &rec)
	assert.Empty(t, torn)

	last, ok := rec.Last("reader-0")
	require.True(t, ok)
	assert.Equal(t, 1, last)
}

func TestForceUpdateCanTear(t *testing.T) {
	var rec vtest.Recorder[int]
	torn := runMidPassUpdate(t, ForceUpdate, &rec)
	assert.NotEmpty(t, torn, "ForceUpdate has no pre-commit consistency check")

	// It converges on the following pass.
	for i := 0; i < 3; i++ {
		last, ok := rec.Last(fmt.Sprintf("reader-%d", i))
		require.True(t, ok)
		assert.Equal(t, 1, last)
	}
}

// runMidPassUpdate renders three readers and moves the store after the
// first of them rendered, then returns the torn commits.
func runMidPassUpdate(t *testing.T, strategy Strategy, rec *vtest.Recorder[int]) []uint64 {
	t.Helper()

	var once sync.Once
	var midPass func()
	tree := vtest.New(t, vango.WithYield(func() {
		if midPass != nil {
			once.Do(midPass)
		}
	}))

	provider, app := newApp(WithStrategy(strategy))
	var st *Store[*appState]
	p := tree.Mount(nil, "provider", func() {
		st = provider.Render(Props[appOptions]{})
	})

	readers := make([]*vango.Component, 3)
	for i := range readers {
		readers[i] = tree.Mount(p, fmt.Sprintf("reader-%d", i), func() {
			vtest.Observe(rec, Select(app, selectCount))
		})
	}
	tree.Flush()

	midPass = func() {
		st.Update(&appState{Count: 1})
		st.Notify()
	}
	tree.Rerender(readers...)

	return rec.Torn(sameInt)
}

func TestForceUpdateShowsStaleSelectionForOnePass(t *testing.T) {
	check := func(t *testing.T, strategy Strategy) []int {
		tree := vtest.New(t)
		provider, app := newApp(WithStrategy(strategy))

		opts := appOptions{}
		var committed []int
		p := provider.Mount(tree.Root, nil, "provider", func() Props[appOptions] {
			return Props[appOptions]{Options: opts}
		})
		c := tree.Mount(p, "consumer", func() {
			n := Select(app, selectCount)
			vango.UseEffect(func() vango.Cleanup {
				committed = append(committed, n)
				return nil
			})
		})
		tree.Flush()

		// The consumer renders in the same pass as its provider.
		opts.Count = 1
		tree.Rerender(p, c)
		return committed
	}

	assert.Equal(t, []int{0, 1}, check(t, TearingSafe))
	assert.Equal(t, []int{0, 0, 1}, check(t, ForceUpdate))
}

func TestWholeValueRead(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			tree := vtest.New(t)
			provider, app := newApp(WithStrategy(strategy))

			opts := appOptions{Label: "a"}
			var got *appState
			p := provider.Mount(tree.Root, nil, "provider", func() Props[appOptions] {
				return Props[appOptions]{Options: opts}
			})
			c := tree.Mount(p, "consumer", func() { got = app.Use() })
			tree.Flush()
			require.Equal(t, "a", got.Label)

			// A new root re-renders whole-value consumers even when equal.
			tree.Rerender(p)
			assert.Equal(t, 2, c.Renders())

			opts.Label = "b"
			tree.Rerender(p)
			assert.Equal(t, "b", got.Label)
		})
	}
}

func TestNewWithoutOptions(t *testing.T) {
	tree := vtest.New(t)

	provider, greeting := New(func() string { return "hello" })
	var got string
	p := provider.Mount(tree.Root, nil, "provider", nil)
	tree.Mount(p, "consumer", func() { got = greeting.Use() })
	tree.Flush()

	assert.Equal(t, "hello", got)
	assert.Equal(t, "string", greeting.cfg.Name)
}

func TestProducerStateHooks(t *testing.T) {
	tree := vtest.New(t)

	var inc func()
	provider, counter := New(func() int {
		n := vango.NewSignal(0)
		inc = func() { n.Update(func(v int) int { return v + 1 }) }
		return n.Get()
	})

	var got int
	p := provider.Mount(tree.Root, nil, "provider", nil)
	tree.Mount(p, "consumer", func() { got = counter.Use() })
	tree.Flush()

	inc()
	tree.Flush()
	assert.Equal(t, 1, got)
}

func TestRevalidationIsNotReportedAsRead(t *testing.T) {
	obs := newRecordingObserver()
	tree := vtest.New(t)
	provider, app := newApp(WithObserver(obs))

	p := provider.Mount(tree.Root, nil, "provider", nil)
	consumer := tree.Mount(p, "consumer", func() { Select(app, selectCount) })
	other := tree.Mount(nil, "other", func() {})
	tree.Flush()

	changed, cached := obs.count("changed"), obs.count("cached")
	require.Equal(t, 1, changed)

	// Pre-commit snapshot checks of untouched consumers are not reads.
	tree.Rerender(other)
	tree.Rerender(other)
	assert.Equal(t, changed, obs.count("changed"))
	assert.Equal(t, cached, obs.count("cached"))

	tree.Rerender(consumer)
	assert.Equal(t, cached+1, obs.count("cached"))
}

type recordingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{counts: make(map[string]int)}
}

func (o *recordingObserver) inc(event string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[event]++
}

func (o *recordingObserver) count(event string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[event]
}

func (o *recordingObserver) StoreMounted(string)                    { o.inc("mounted") }
func (o *recordingObserver) StoreUnmounted(string)                  { o.inc("unmounted") }
func (o *recordingObserver) Published(string, int)                  { o.inc("published") }
func (o *recordingObserver) SelectorEvaluated(_ string, oc Outcome) { o.inc(oc.String()) }
func (o *recordingObserver) ConsumerInvalidated(string, Strategy)   { o.inc("invalidated") }

package store

import (
	"github.com/vango-dev/vango-store/pkg/vango"
)

// Props are the inputs of one provider render.
type Props[O any] struct {
	// Options is passed to the value-producing function.
	Options O

	// Ref, if set, receives every produced value after it commits and is
	// cleared when the provider unmounts. It must be a func(V) or a
	// RefTarget[V].
	Ref any
}

// Provider owns one Store per mounted instance and feeds it the value its
// producer returns on every render.
type Provider[O, V any] struct {
	produce func(O) V
	cfg     Config
	scope   *vango.Context[*Store[V]]
}

// Consumer reads the store of the nearest Provider it was created with.
type Consumer[V any] struct {
	cfg   Config
	scope *vango.Context[*Store[V]]
}

// Create builds a store type: a Provider that runs produce on every render
// and a Consumer that reads what the nearest Provider above it produced.
// Each call creates a distinct store type; providers and consumers of
// different calls never see each other.
//
// Example:
//
//	type Options struct{ Start int }
//	type Counter struct{ Count int }
//
//	counterProvider, counter := store.Create(func(o Options) *Counter {
//	    n := vango.NewSignal(o.Start)
//	    return vango.UseMemo(func() *Counter {
//	        return &Counter{Count: n.Get()}
//	    }, n.Get())
//	})
func Create[O, V any](produce func(O) V, opts ...Option) (*Provider[O, V], *Consumer[V]) {
	cfg := newConfig[V](opts)
	scope := vango.CreateContext[*Store[V]](nil)
	return &Provider[O, V]{produce: produce, cfg: cfg, scope: scope},
		&Consumer[V]{cfg: cfg, scope: scope}
}

// New is Create for producers that take no options.
func New[V any](produce func() V, opts ...Option) (*Provider[struct{}, V], *Consumer[V]) {
	return Create(func(struct{}) V { return produce() }, opts...)
}

// Render runs the producer and publishes its value to the subtree below
// the rendering component. It must be called unconditionally from the
// render function of the providing component.
//
// The first render of a provider instance creates its Store; later
// renders update it. Listeners are notified after the render commits and
// only when the produced value is not Identical to the last notified one.
// The store's listener registry is discarded when the component unmounts.
//
// Render returns the instance's Store.
func (p *Provider[O, V]) Render(props Props[O]) *Store[V] {
	ref := bindRef[V](p.cfg.Name, props.Ref)

	value := p.produce(props.Options)

	created := false
	st := vango.UseMemo(func() *Store[V] {
		created = true
		return newStore(p.cfg, value)
	})
	if !created {
		st.Update(value)
	}

	vango.UseEffect(func() vango.Cleanup {
		st.Notify()
		return nil
	}, value)

	vango.UseEffect(func() vango.Cleanup {
		if ref == nil {
			return nil
		}
		ref.set(value)
		return ref.clear
	}, value, props.Ref)

	vango.UseEffect(func() vango.Cleanup {
		p.cfg.Observer.StoreMounted(st.name)
		return func() {
			st.dispose()
			p.cfg.Observer.StoreUnmounted(st.name)
		}
	}, st)

	p.scope.Provide(st)
	return st
}

// Mount mounts a component under parent whose render is this provider.
// props is called on every render; it may be nil.
func (p *Provider[O, V]) Mount(root *vango.Root, parent *vango.Component, name string, props func() Props[O]) *vango.Component {
	return root.Mount(parent, name, func() {
		var pr Props[O]
		if props != nil {
			pr = props()
		}
		p.Render(pr)
	})
}

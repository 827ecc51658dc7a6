package store

import (
	verrors "github.com/vango-dev/vango-store/internal/errors"
)

// RefTarget receives the value a provider produced. *vango.Ref[V]
// satisfies it.
type RefTarget[V any] interface {
	Set(V)
}

// clearer is implemented by ref targets that can be reset.
type clearer interface {
	Clear()
}

// refBinding assigns produced values to a provider ref.
type refBinding[V any] struct {
	set   func(V)
	clear func()
}

// bindRef validates ref and returns its binding, or nil for a nil ref.
// Any other kind of ref panics with an error wrapping ErrInvalidRef.
func bindRef[V any](store string, ref any) *refBinding[V] {
	switch r := ref.(type) {
	case nil:
		return nil
	case func(V):
		return &refBinding[V]{
			set: r,
			clear: func() {
				var zero V
				r(zero)
			},
		}
	case RefTarget[V]:
		b := &refBinding[V]{set: r.Set}
		if c, ok := r.(clearer); ok {
			b.clear = c.Clear
		} else {
			b.clear = func() {
				var zero V
				r.Set(zero)
			}
		}
		return b
	default:
		panic(verrors.New("S002").
			WithDetailf("store %s got a ref of type %T", store, ref).
			WithSuggestion("Pass a func receiving the value or a *vango.Ref of the value type.").
			Wrap(ErrInvalidRef))
	}
}

package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/vango-dev/vango-store/internal/errors"
	"github.com/vango-dev/vango-store/pkg/vango"
	"github.com/vango-dev/vango-store/pkg/vtest"
)

func TestRefCallbackReceivesCommittedValue(t *testing.T) {
	tree := vtest.New(t)
	provider, _ := newApp()

	var received []*appState
	ref := func(s *appState) {
		assert.False(t, vango.IsRendering(), "ref must be assigned after commit")
		received = append(received, s)
	}

	opts := appOptions{Count: 1}
	p := provider.Mount(tree.Root, nil, "provider", func() Props[appOptions] {
		return Props[appOptions]{Options: opts, Ref: ref}
	})
	tree.Flush()
	require.Len(t, received, 1)
	require.Equal(t, 1, received[0].Count)

	opts.Count = 2
	tree.Rerender(p)
	// Cleared, then assigned the new value.
	require.Len(t, received, 3)
	assert.Nil(t, received[1])
	assert.Equal(t, 2, received[2].Count)

	p.Unmount()
	require.Len(t, received, 4)
	assert.Nil(t, received[3])
}

func TestRefTarget(t *testing.T) {
	tree := vtest.New(t)
	provider, _ := newApp()

	handle := vango.NewRef[*appState](nil)
	p := provider.Mount(tree.Root, nil, "provider", func() Props[appOptions] {
		return Props[appOptions]{Options: appOptions{Label: "x"}, Ref: handle}
	})
	tree.Flush()

	require.True(t, handle.IsSet())
	assert.Equal(t, "x", handle.Current().Label)

	p.Unmount()
	assert.False(t, handle.IsSet(), "unmount clears the ref")
	assert.Nil(t, handle.Current())
}

type setOnly struct{ last *appState }

func (s *setOnly) Set(v *appState) { s.last = v }

func TestRefTargetWithoutClear(t *testing.T) {
	tree := vtest.New(t)
	provider, _ := newApp()

	target := &setOnly{}
	p := provider.Mount(tree.Root, nil, "provider", func() Props[appOptions] {
		return Props[appOptions]{Ref: target}
	})
	tree.Flush()
	require.NotNil(t, target.last)

	p.Unmount()
	assert.Nil(t, target.last)
}

func TestInvalidRef(t *testing.T) {
	for _, ref := range []any{"not a ref", func(int) {}, 42} {
		tree := vtest.New(t)
		provider, app := newApp(WithName("app"))

		consumerEffects := 0
		p := provider.Mount(tree.Root, nil, "provider", func() Props[appOptions] {
			return Props[appOptions]{Ref: ref}
		})
		tree.Mount(p, "consumer", func() {
			vango.UseEffect(func() vango.Cleanup {
				consumerEffects++
				return nil
			})
			app.Use()
		})

		err := tree.Root.Flush()
		require.ErrorIs(t, err, ErrInvalidRef)
		assert.Equal(t, 0, consumerEffects)

		var verr *verrors.VangoError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "S002", verr.Code)
	}
}

package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-store/pkg/shallow"
)

type cacheState struct {
	Count int
	Other string
}

type countView struct {
	Count int
}

func TestSnapshotCacheOutcomes(t *testing.T) {
	var c snapshotCache[*cacheState, *countView]
	calls := 0
	sel := func(s *cacheState) *countView {
		calls++
		return &countView{Count: s.Count}
	}
	eq := shallow.EqualOf[*countView]()

	root := &cacheState{Count: 1}
	first, outcome, replaced := c.read(root, sel, eq)
	require.Equal(t, OutcomeChanged, outcome)
	require.False(t, replaced, "the first selection replaces nothing")

	again, outcome, _ := c.read(root, sel, eq)
	require.Equal(t, OutcomeCached, outcome)
	require.Same(t, first, again)
	require.Equal(t, 1, calls, "same root must not run the selector")

	sameShape := &cacheState{Count: 1, Other: "x"}
	reused, outcome, replaced := c.read(sameShape, sel, eq)
	require.Equal(t, OutcomeReused, outcome)
	require.False(t, replaced)
	require.Same(t, first, reused)

	// The cached root moved to sameShape.
	_, outcome, _ = c.read(sameShape, sel, eq)
	require.Equal(t, OutcomeCached, outcome)

	changed, outcome, replaced := c.read(&cacheState{Count: 2}, sel, eq)
	require.Equal(t, OutcomeChanged, outcome)
	require.True(t, replaced)
	require.Equal(t, 2, changed.Count)

	current, ok := c.current()
	require.True(t, ok)
	require.Same(t, changed, current)
}

func TestSnapshotCacheImpureSelector(t *testing.T) {
	var c snapshotCache[*cacheState, []int]
	sel := func(s *cacheState) []int { return []int{s.Count, len(s.Other)} }
	never := func(a, b []int) bool { return false }

	a, _, _ := c.read(&cacheState{Count: 1}, sel, never)
	b, outcome, replaced := c.read(&cacheState{Count: 1}, sel, never)

	require.Equal(t, OutcomeChanged, outcome)
	require.True(t, replaced)
	require.Equal(t, a, b)
}

func TestOutcomeAndStrategyStrings(t *testing.T) {
	require.Equal(t, "cached", OutcomeCached.String())
	require.Equal(t, "reused", OutcomeReused.String())
	require.Equal(t, "changed", OutcomeChanged.String())
	require.Equal(t, "tearing_safe", TearingSafe.String())
	require.Equal(t, "force_update", ForceUpdate.String())
}

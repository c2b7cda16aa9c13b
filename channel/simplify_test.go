package channel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfluidics/fluidroute/channel"
	"github.com/openfluidics/fluidroute/geom"
)

// TestSimplify_StraightRun collapses a unit-step run to its endpoints.
func TestSimplify_StraightRun(t *testing.T) {
	path := []geom.GridPoint{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0},
	}
	got := channel.Simplify(path)
	assert.Equal(t, []geom.GridPoint{{0, 0, 0}, {4, 0, 0}}, got)
	assert.Equal(t, 0, channel.Turns(got))
}

// TestSimplify_LShape keeps the single turn point.
func TestSimplify_LShape(t *testing.T) {
	path := []geom.GridPoint{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
		{2, 1, 0}, {2, 2, 0},
	}
	got := channel.Simplify(path)
	assert.Equal(t, []geom.GridPoint{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}}, got)
	assert.Equal(t, 1, channel.Turns(got))
}

// TestSimplify_Duplicates drops repeated points before collapsing runs.
func TestSimplify_Duplicates(t *testing.T) {
	path := []geom.GridPoint{
		{0, 0, 0}, {0, 0, 0}, {1, 0, 0}, {1, 0, 0}, {2, 0, 0},
	}
	got := channel.Simplify(path)
	assert.Equal(t, []geom.GridPoint{{0, 0, 0}, {2, 0, 0}}, got)
}

// TestSimplify_Idempotent is the contract the cache and materializer
// rely on: simplify(simplify(p)) == simplify(p), and a pass never adds
// turns.
func TestSimplify_Idempotent(t *testing.T) {
	paths := [][]geom.GridPoint{
		{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {2, 1, 0}, {2, 1, 1}, {2, 1, 2}},
		{{0, 0, 0}},
		{{0, 0, 0}, {0, 1, 0}},
		{{3, 3, 3}, {3, 3, 3}, {3, 3, 3}},
	}
	for _, p := range paths {
		once := channel.Simplify(p)
		twice := channel.Simplify(once)
		assert.Equal(t, once, twice, "second pass must be a no-op for %v", p)
		assert.LessOrEqual(t, channel.Turns(once), channel.Turns(p))
	}
}

// TestSimplify_ZigZag keeps every genuine turn.
func TestSimplify_ZigZag(t *testing.T) {
	path := []geom.GridPoint{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {2, 1, 0}, {2, 2, 0},
	}
	got := channel.Simplify(path)
	assert.Equal(t, path, got, "alternating unit steps cannot be reduced")
	assert.Equal(t, 3, channel.Turns(got))
}

// TestSimplify_Empty returns nil for no input.
func TestSimplify_Empty(t *testing.T) {
	assert.Nil(t, channel.Simplify(nil))
}

// Package astar implements the turn-penalized, weighted A* grid search
// used to thread channels through free device volume.
//
// The search walks the unit voxel lattice in the six axis directions
// (no diagonals). Each step costs 1; a direction change versus the
// incoming move increments a separate turn counter. Nodes are expanded
// in order of
//
//	cost + HeuristicWeight·manhattan(pos, goal) + TurnWeight·turns
//
// With HeuristicWeight > 1 the heuristic is deliberately inadmissible:
// the search trades optimality for speed, strongly preferring straight
// progress toward the goal. Channels a few voxels longer than optimal
// are acceptable; multi-minute searches are not. Set HeuristicWeight to
// 1 and TurnWeight to 0 for a classic admissible A*.
//
// Complexity:
//
//   - Time:  O(V log V) over the visited volume V under lazy
//     decrease-key (duplicates pushed, stale entries skipped on pop).
//   - Space: O(V) for the visited map plus heap entries.
//
// Errors (sentinel):
//
//   - ErrNilValidity if no validity callback is supplied.
//   - ErrNoPath      if the frontier is exhausted before the goal.
//   - ErrTimeout     if the wall-clock budget expires mid-search.
package astar

import (
	"errors"
	"time"
)

// Sentinel errors returned by Search.
var (
	// ErrNilValidity indicates that Search was called without a validity callback.
	ErrNilValidity = errors.New("astar: validity callback must be non-nil")

	// ErrNoPath indicates the frontier was exhausted without reaching the goal.
	ErrNoPath = errors.New("astar: no path between start and goal")

	// ErrTimeout indicates the wall-clock budget expired during the search.
	ErrTimeout = errors.New("astar: search exceeded its time budget")

	// ErrBadWeight indicates a negative heuristic or turn weight.
	ErrBadWeight = errors.New("astar: weights must be non-negative")

	// ErrBadTimeout indicates a non-positive timeout.
	ErrBadTimeout = errors.New("astar: timeout must be positive")

	// ErrBadAxisOrder indicates an axis order that is not a permutation
	// of the three axes.
	ErrBadAxisOrder = errors.New("astar: axis order must be a permutation of 0, 1, 2")
)

// DefaultTimeout is the per-route wall-clock budget when none is
// configured.
const DefaultTimeout = 2 * time.Minute

// Options configures one Search invocation.
//
// HeuristicWeight — multiplier on the Manhattan distance to the goal.
// TurnWeight      — multiplier on the accumulated turn count.
// AxisOrder       — axis expansion preference; ties break toward earlier axes.
// Timeout         — wall-clock budget; expiry yields ErrTimeout.
// Clock           — time source, replaceable in tests.
type Options struct {
	HeuristicWeight float64
	TurnWeight      float64
	AxisOrder       [3]int
	Timeout         time.Duration
	Clock           func() time.Time
}

// Option is a functional option for configuring Search.
type Option func(*Options)

// WithHeuristicWeight sets the heuristic multiplier. Values above 1
// make the search greedy (inadmissible); 0 degrades to turn-penalized
// Dijkstra. Negative values panic with ErrBadWeight.
func WithHeuristicWeight(w float64) Option {
	return func(o *Options) {
		if w < 0 {
			panic(ErrBadWeight.Error())
		}
		o.HeuristicWeight = w
	}
}

// WithTurnWeight sets the turn-count multiplier. Negative values panic
// with ErrBadWeight.
func WithTurnWeight(w float64) Option {
	return func(o *Options) {
		if w < 0 {
			panic(ErrBadWeight.Error())
		}
		o.TurnWeight = w
	}
}

// WithAxisOrder sets the axis expansion preference. Neighbors are
// generated per axis in the given order (positive step first), so
// equal-priority frontier ties resolve toward earlier axes and the
// found channel prefers running along them. Anything other than a
// permutation of the three axes panics with ErrBadAxisOrder.
func WithAxisOrder(order [3]int) Option {
	return func(o *Options) {
		var seen [3]bool
		for _, axis := range order {
			if axis < 0 || axis > 2 || seen[axis] {
				panic(ErrBadAxisOrder.Error())
			}
			seen[axis] = true
		}
		o.AxisOrder = order
	}
}

// WithTimeout sets the wall-clock budget. Non-positive values panic
// with ErrBadTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d <= 0 {
			panic(ErrBadTimeout.Error())
		}
		o.Timeout = d
	}
}

// WithClock replaces the time source (test seam).
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// DefaultOptions returns the routing defaults: heuristic weight 10,
// turn weight 2, X-Y-Z axis preference, a two-minute budget, and the
// wall clock.
func DefaultOptions() Options {
	return Options{
		HeuristicWeight: 10,
		TurnWeight:      2,
		AxisOrder:       [3]int{0, 1, 2},
		Timeout:         DefaultTimeout,
		Clock:           time.Now,
	}
}

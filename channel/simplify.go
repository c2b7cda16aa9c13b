package channel

import "github.com/openfluidics/fluidroute/geom"

// Simplify reduces a raw grid-search path to its cardinal skeleton:
// consecutive duplicate points are dropped, then runs of waypoints
// moving in the same axis direction collapse into a single straight
// run, keeping only direction-change points plus the two endpoints.
//
// Simplify is idempotent — a second pass over its own output is a
// no-op — and never increases the number of turns.
// Complexity: O(n) time, O(n) memory; the input is not modified.
func Simplify(points []geom.GridPoint) []geom.GridPoint {
	if len(points) == 0 {
		return nil
	}

	// Drop consecutive duplicates.
	dedup := make([]geom.GridPoint, 0, len(points))
	dedup = append(dedup, points[0])
	for _, p := range points[1:] {
		if p != dedup[len(dedup)-1] {
			dedup = append(dedup, p)
		}
	}
	if len(dedup) <= 2 {
		out := make([]geom.GridPoint, len(dedup))
		copy(out, dedup)

		return out
	}

	// Keep only turn points: while the step direction is unchanged the
	// last kept point slides forward along the run.
	simplified := []geom.GridPoint{dedup[0], dedup[1]}
	dir := dedup[1].Sub(dedup[0])
	for _, p := range dedup[2:] {
		step := p.Sub(simplified[len(simplified)-1])
		if step != dir {
			simplified = append(simplified, p)
			dir = step
		} else {
			simplified[len(simplified)-1] = p
		}
	}

	return simplified
}

// Turns counts the direction changes along a cardinal path.
func Turns(points []geom.GridPoint) int {
	if len(points) < 3 {
		return 0
	}
	turns := 0
	prev := points[1].Sub(points[0])
	for i := 2; i < len(points); i++ {
		step := points[i].Sub(points[i-1])
		if step != prev {
			turns++
		}
		prev = step
	}

	return turns
}

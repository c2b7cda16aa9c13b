package geom

import "math"

// GridPoint is a point on the unit voxel lattice the grid search moves
// over.
type GridPoint [3]int

// Directions are the six axis-aligned unit steps permitted during grid
// search, in the default order +X, −X, +Y, −Y, +Z, −Z. The order is
// part of the routing contract: it breaks priority ties
// deterministically, and the search's default axis preference
// reproduces it.
var Directions = [6]GridPoint{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Vec converts the lattice point to continuous coordinates.
// Complexity: O(1).
func (p GridPoint) Vec() Vec3 {
	return Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

// Add returns p + o component-wise.
// Complexity: O(1).
func (p GridPoint) Add(o GridPoint) GridPoint {
	return GridPoint{p[0] + o[0], p[1] + o[1], p[2] + o[2]}
}

// Sub returns p − o component-wise.
// Complexity: O(1).
func (p GridPoint) Sub(o GridPoint) GridPoint {
	return GridPoint{p[0] - o[0], p[1] - o[1], p[2] - o[2]}
}

// Manhattan returns the L1 distance between p and o.
// Complexity: O(1).
func (p GridPoint) Manhattan(o GridPoint) int {
	d := 0
	for i := 0; i < 3; i++ {
		if p[i] > o[i] {
			d += p[i] - o[i]
		} else {
			d += o[i] - p[i]
		}
	}

	return d
}

// Round snaps a continuous point to the lattice, rounding halves away
// from zero on each axis.
// Complexity: O(1).
func Round(v Vec3) GridPoint {
	return GridPoint{
		int(math.Round(v[0])),
		int(math.Round(v[1])),
		int(math.Round(v[2])),
	}
}

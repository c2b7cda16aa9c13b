// Package geom provides the small geometric vocabulary shared by every
// fluidroute subpackage: continuous 3-vectors, axis-aligned bounding
// boxes in device coordinates, and integer lattice points for the grid
// search.
//
// Conventions:
//
//   - Vec3 is a value type; all operations return new values, nothing is
//     mutated in place.
//   - AABB is the half-open-free, closed-interval box (Min ≤ Max on each
//     axis). Containment and intersection use the closed-interval rules
//     of the routing engine: boxes that merely share a face do NOT
//     intersect, but a box lying exactly on the boundary of an outer box
//     IS contained.
//   - GridPoint is a point on the unit voxel lattice. The six cardinal
//     Directions default to the order +X, −X, +Y, −Y, +Z, −Z; the grid
//     search relies on a fixed order for deterministic tie-breaking.
package geom

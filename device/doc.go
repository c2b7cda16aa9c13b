// Package device models the component tree the router operates on.
//
// A Component owns an axis-aligned volume on the integer lattice,
// ordered subcomponents, named Ports on its surfaces, and the shapes
// placed into it (routed channels). Geometry construction itself is
// delegated to a Backend — the router hands over cross-section chains
// and receives opaque shapes plus their keepout boxes back, so the
// package never does CSG.
//
// Ports carry a SurfaceNormal naming the face they exit through.
// Rotating or mirroring a component remaps positions and normals with
// pure lookup tables (see RotateNormal, MirrorNormal); the tables are
// exported so the remapping is testable in isolation.
//
// GeometryHash fingerprints the structural geometry of a tree — ids,
// volumes, ports, subcomponents, placed shape keepouts — and is what
// the route cache keys its snapshots on: a changed hash invalidates
// every cached route for the component at once.
package device

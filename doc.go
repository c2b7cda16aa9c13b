// Package fluidroute threads constant-cross-section fluidic and
// pneumatic channels through the occupied 3D volume of a printed
// microfluidic device.
//
// 🚀 What is fluidroute?
//
//	A deterministic, single-threaded channel autorouter:
//		• Keepout index: R-tree of axis-aligned obstacle boxes
//		• Device model: components, ports with surface normals, placed shapes
//		• Grid search: turn-penalized weighted A* over the voxel lattice
//		• Materializer: cardinal simplification, rounded corners, Bezier channels
//		• Façade: two-phase register/resolve with a persistent route cache
//
// ✨ Why choose fluidroute?
//
//   - Deterministic – identical geometry and registration order always
//     reproduce identical paths
//   - Resilient – an unroutable channel is reported, never fatal
//   - Cacheable – resolved routes are reused across runs when the
//     surrounding geometry is unchanged
//
// Everything is organized under focused subpackages:
//
//	geom/       — vectors, axis-aligned boxes, lattice points
//	keepout/    — spatial keepout index (insert/remove/query/batch)
//	device/     — component tree, ports, geometry backend interface
//	channel/    — cross-section descriptors and path materialization
//	astar/      — turn-penalized weighted A* grid search
//	routecache/ — persistent per-component route snapshots
//	router/     — the public two-phase routing façade
//
// Quick ASCII example:
//
//	┌─────┐                ┌─────┐
//	│pump ├➔──────────────➔┤valve│
//	└─────┘   autorouted   └─────┘
//
// Dive into router/ for the public API and cmd/fluidroute for the CLI.
package fluidroute
